package blocks

import (
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

// BeaconBlockIsNil checks if any composite field of input signed beacon block is nil.
// Access to these nil fields will result in run time panic,
// it is recommended to run these checks as first line of defense.
func BeaconBlockIsNil(b interfaces.ReadOnlySignedBeaconBlock) error {
	if b == nil || b.IsNil() {
		return ErrNilSignedBeaconBlock
	}
	return nil
}

// Signature returns the respective block signature.
func (b *SignedBeaconBlock) Signature() [96]byte {
	return b.signature
}

// Block returns the underlying beacon block object.
func (b *SignedBeaconBlock) Block() interfaces.ReadOnlyBeaconBlock {
	return b.block
}

// IsNil checks if the underlying beacon block is nil.
func (b *SignedBeaconBlock) IsNil() bool {
	return b == nil || b.block.IsNil()
}

// Version of the underlying protobuf object.
func (b *SignedBeaconBlock) Version() int {
	return b.version
}

// IsBlinded metadata on whether a block is blinded
func (b *SignedBeaconBlock) IsBlinded() bool {
	return b.version >= version.Bellatrix && b.block.body.blinded
}

// ToBlinded converts a non-blinded block to its blinded equivalent.
func (b *SignedBeaconBlock) ToBlinded() (interfaces.ReadOnlySignedBeaconBlock, error) {
	if b.version < version.Bellatrix {
		return nil, ErrUnsupportedVersion
	}
	if b.IsBlinded() {
		return b, nil
	}
	payload, err := b.block.body.Execution()
	if err != nil {
		return nil, err
	}
	header, err := PayloadToHeader(payload)
	if err != nil {
		return nil, err
	}
	return &SignedBeaconBlock{
		version: b.version,
		block: &BeaconBlock{
			version:       b.version,
			slot:          b.block.slot,
			proposerIndex: b.block.proposerIndex,
			parentRoot:    b.block.parentRoot,
			stateRoot:     b.block.stateRoot,
			body: &BeaconBlockBody{
				version:                b.version,
				blinded:                true,
				randaoReveal:           b.block.body.randaoReveal,
				graffiti:               b.block.body.graffiti,
				executionPayloadHeader: header,
			},
		},
		signature: b.signature,
	}, nil
}

// Slot returns the respective slot of the block.
func (b *BeaconBlock) Slot() primitives.Slot {
	return b.slot
}

// ProposerIndex returns the proposer index of the beacon block.
func (b *BeaconBlock) ProposerIndex() primitives.ValidatorIndex {
	return b.proposerIndex
}

// ParentRoot returns the parent root of beacon block.
func (b *BeaconBlock) ParentRoot() [32]byte {
	return b.parentRoot
}

// StateRoot returns the state root of the beacon block.
func (b *BeaconBlock) StateRoot() [32]byte {
	return b.stateRoot
}

// Body returns the underlying block body.
func (b *BeaconBlock) Body() interfaces.ReadOnlyBeaconBlockBody {
	return b.body
}

// IsNil checks if the beacon block is nil.
func (b *BeaconBlock) IsNil() bool {
	return b == nil || b.Body().IsNil()
}

// IsBlinded checks if the beacon block is a blinded block.
func (b *BeaconBlock) IsBlinded() bool {
	return b.version >= version.Bellatrix && b.body.blinded
}

// Version of the underlying protobuf object.
func (b *BeaconBlock) Version() int {
	return b.version
}

// IsNil checks if the block body is nil.
func (b *BeaconBlockBody) IsNil() bool {
	return b == nil
}

// RandaoReveal returns the randao reveal from the block body.
func (b *BeaconBlockBody) RandaoReveal() [96]byte {
	return b.randaoReveal
}

// Graffiti returns the graffiti in the block.
func (b *BeaconBlockBody) Graffiti() [32]byte {
	return b.graffiti
}

// Execution returns the execution payload of the block body.
func (b *BeaconBlockBody) Execution() (interfaces.ExecutionData, error) {
	switch b.version {
	case version.Phase0, version.Altair:
		return nil, errNotSupported("Execution", b.version)
	case version.Bellatrix:
		if b.blinded {
			return WrappedExecutionPayloadHeader(b.executionPayloadHeader, b.version)
		}
		return WrappedExecutionPayload(b.executionPayload)
	case version.Capella:
		if b.blinded {
			return WrappedExecutionPayloadHeader(b.executionPayloadHeader, b.version)
		}
		return WrappedExecutionPayloadCapella(b.executionPayloadCapella)
	default:
		return nil, ErrUnsupportedVersion
	}
}
