// Package state defines the beacon state interfaces consumed by the execution payload logic.
package state

import (
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
)

// ReadOnlyBeaconState defines a struct which only has read access to beacon state methods.
type ReadOnlyBeaconState interface {
	GenesisTime() uint64
	Slot() primitives.Slot
	Version() int
	LatestExecutionPayloadHeader() (interfaces.ExecutionData, error)
	RandaoMixAtIndex(idx uint64) ([]byte, error)
	RandaoMixesLength() int
}

// BeaconState has read and write access to beacon state methods.
type BeaconState interface {
	ReadOnlyBeaconState
	SetSlot(val primitives.Slot) error
	SetLatestExecutionPayloadHeader(payload interfaces.ExecutionData) error
	UpdateRandaoMixesAtIndex(idx uint64, val [32]byte) error
}
