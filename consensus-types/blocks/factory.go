package blocks

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

var errPayloadVersionMismatch = errors.New("execution payload version does not match block version")

// NewBeaconBlockBody creates a beacon block body of the given fork. Pre-Bellatrix bodies must not carry
// execution data; later forks require it. A header makes the body blinded.
func NewBeaconBlockBody(v int, randaoReveal [96]byte, graffiti [32]byte, execution interfaces.ExecutionData) (*BeaconBlockBody, error) {
	body := &BeaconBlockBody{
		version:      v,
		randaoReveal: randaoReveal,
		graffiti:     graffiti,
	}
	switch v {
	case version.Phase0, version.Altair:
		if execution != nil && !execution.IsNil() {
			return nil, errNotSupported("Execution", v)
		}
		return body, nil
	case version.Bellatrix, version.Capella:
	default:
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", v)
	}
	if execution == nil || execution.IsNil() {
		return nil, ErrNilObject
	}
	if execution.Version() != v {
		return nil, errors.Wrapf(errPayloadVersionMismatch, "got %s, wanted %s", version.String(execution.Version()), version.String(v))
	}
	if execution.IsBlinded() {
		h, ok := execution.Proto().(*enginev1.ExecutionPayloadHeader)
		if !ok {
			return nil, errors.Errorf("unexpected header type %T", execution.Proto())
		}
		body.blinded = true
		body.executionPayloadHeader = h
		return body, nil
	}
	switch p := execution.Proto().(type) {
	case *enginev1.ExecutionPayload:
		body.executionPayload = p
	case *enginev1.ExecutionPayloadCapella:
		body.executionPayloadCapella = p
	default:
		return nil, errors.Errorf("unexpected payload type %T", p)
	}
	return body, nil
}

// NewBeaconBlock creates a beacon block around the given body. The block takes its version from the body.
func NewBeaconBlock(
	slot primitives.Slot,
	proposerIndex primitives.ValidatorIndex,
	parentRoot, stateRoot [32]byte,
	body *BeaconBlockBody,
) (*BeaconBlock, error) {
	if body == nil {
		return nil, ErrNilBeaconBlockBody
	}
	return &BeaconBlock{
		version:       body.version,
		slot:          slot,
		proposerIndex: proposerIndex,
		parentRoot:    parentRoot,
		stateRoot:     stateRoot,
		body:          body,
	}, nil
}

// NewSignedBeaconBlock attaches a signature to a beacon block.
func NewSignedBeaconBlock(b *BeaconBlock, signature [96]byte) (*SignedBeaconBlock, error) {
	if b == nil {
		return nil, ErrNilBeaconBlock
	}
	if b.body == nil {
		return nil, ErrNilBeaconBlockBody
	}
	return &SignedBeaconBlock{
		version:   b.version,
		block:     b,
		signature: signature,
	}, nil
}
