package state_native

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

// Version is fixed at construction and read without the lock.
func (b *BeaconState) Version() int {
	return b.version
}

// GenesisTime in unix seconds.
func (b *BeaconState) GenesisTime() uint64 {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.genesisTime
}

func (b *BeaconState) Slot() primitives.Slot {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.slot
}

// RandaoMixAtIndex returns a copy of the mix stored at idx of the ring.
func (b *BeaconState) RandaoMixAtIndex(idx uint64) ([]byte, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if idx >= uint64(len(b.randaoMixes)) {
		return nil, errors.Errorf("randao mix index %d out of range [0, %d)", idx, len(b.randaoMixes))
	}
	mix := b.randaoMixes[idx]
	return mix[:], nil
}

func (b *BeaconState) RandaoMixesLength() int {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return len(b.randaoMixes)
}

// LatestExecutionPayloadHeader wraps a copy of the stored header. States
// before bellatrix have no header and return an error.
func (b *BeaconState) LatestExecutionPayloadHeader() (interfaces.ExecutionData, error) {
	if b.version < version.Bellatrix {
		return nil, errNotSupported("LatestExecutionPayloadHeader", b.version)
	}
	b.lock.RLock()
	header := b.latestExecutionPayloadHeader.Copy()
	b.lock.RUnlock()
	return blocks.WrappedExecutionPayloadHeader(header, b.version)
}
