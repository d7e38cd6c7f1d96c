package util

import (
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

// NewBeaconBlockAltair creates a pre-merge signed block at the given slot.
func NewBeaconBlockAltair(slot primitives.Slot, parentRoot [32]byte) (interfaces.ReadOnlySignedBeaconBlock, error) {
	return NewSignedBeaconBlock(version.Altair, slot, parentRoot, nil)
}

// NewBeaconBlockBellatrix creates a bellatrix signed block carrying the given payload. A nil payload
// is replaced with the default one.
func NewBeaconBlockBellatrix(slot primitives.Slot, parentRoot [32]byte, p *enginev1.ExecutionPayload) (interfaces.ReadOnlySignedBeaconBlock, error) {
	wp, err := blocks.WrappedExecutionPayload(HydrateExecutionPayload(p))
	if err != nil {
		return nil, err
	}
	return NewSignedBeaconBlock(version.Bellatrix, slot, parentRoot, wp)
}

// NewBeaconBlockCapella creates a capella signed block carrying the given payload.
func NewBeaconBlockCapella(slot primitives.Slot, parentRoot [32]byte, p *enginev1.ExecutionPayloadCapella) (interfaces.ReadOnlySignedBeaconBlock, error) {
	wp, err := blocks.WrappedExecutionPayloadCapella(HydrateExecutionPayloadCapella(p))
	if err != nil {
		return nil, err
	}
	return NewSignedBeaconBlock(version.Capella, slot, parentRoot, wp)
}

// NewSignedBeaconBlock assembles a signed block of any fork from its slot, parent and execution data.
func NewSignedBeaconBlock(v int, slot primitives.Slot, parentRoot [32]byte, execution interfaces.ExecutionData) (interfaces.ReadOnlySignedBeaconBlock, error) {
	body, err := blocks.NewBeaconBlockBody(v, [96]byte{}, [32]byte{}, execution)
	if err != nil {
		return nil, err
	}
	blk, err := blocks.NewBeaconBlock(slot, 0, parentRoot, [32]byte{}, body)
	if err != nil {
		return nil, err
	}
	return blocks.NewSignedBeaconBlock(blk, [96]byte{})
}
