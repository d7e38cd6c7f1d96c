package kv

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errNilBlock = errors.New("cannot encode nil block")

// blindedBlockContainer is the on-disk layout of a blinded beacon block.
type blindedBlockContainer struct {
	Version       int                              `json:"version"`
	Slot          primitives.Slot                  `json:"slot"`
	ProposerIndex primitives.ValidatorIndex        `json:"proposer_index"`
	ParentRoot    hexutil.Bytes                    `json:"parent_root"`
	StateRoot     hexutil.Bytes                    `json:"state_root"`
	RandaoReveal  hexutil.Bytes                    `json:"randao_reveal"`
	Graffiti      hexutil.Bytes                    `json:"graffiti"`
	Signature     hexutil.Bytes                    `json:"signature"`
	Header        *enginev1.ExecutionPayloadHeader `json:"execution_payload_header,omitempty"`
}

func decode(data []byte, dst interface{}) error {
	data, err := snappy.Decode(nil, data)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func encode(v interface{}) ([]byte, error) {
	enc, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, enc), nil
}

// encodeBlindedBlock blinds the block if needed and serializes it with snappy compression.
func encodeBlindedBlock(blk interfaces.ReadOnlySignedBeaconBlock) ([]byte, error) {
	if err := blocks.BeaconBlockIsNil(blk); err != nil {
		return nil, errors.Wrap(errNilBlock, err.Error())
	}
	if blk.Version() >= version.Bellatrix && !blk.IsBlinded() {
		blinded, err := blk.ToBlinded()
		if err != nil {
			return nil, errors.Wrap(err, "could not blind block")
		}
		blk = blinded
	}
	b := blk.Block()
	parentRoot, stateRoot := b.ParentRoot(), b.StateRoot()
	randao, graffiti, sig := b.Body().RandaoReveal(), b.Body().Graffiti(), blk.Signature()
	c := &blindedBlockContainer{
		Version:       blk.Version(),
		Slot:          b.Slot(),
		ProposerIndex: b.ProposerIndex(),
		ParentRoot:    parentRoot[:],
		StateRoot:     stateRoot[:],
		RandaoReveal:  randao[:],
		Graffiti:      graffiti[:],
		Signature:     sig[:],
	}
	if blk.Version() >= version.Bellatrix {
		execution, err := b.Body().Execution()
		if err != nil {
			return nil, err
		}
		h, ok := execution.Proto().(*enginev1.ExecutionPayloadHeader)
		if !ok {
			return nil, errors.Errorf("unexpected execution type %T in blinded block", execution.Proto())
		}
		c.Header = h
	}
	return encode(c)
}

func decodeBlindedBlock(enc []byte) (interfaces.ReadOnlySignedBeaconBlock, error) {
	c := &blindedBlockContainer{}
	if err := decode(enc, c); err != nil {
		return nil, errors.Wrap(err, "could not decode blinded block")
	}
	var execution interfaces.ExecutionData
	if c.Version >= version.Bellatrix {
		var err error
		execution, err = blocks.WrappedExecutionPayloadHeader(c.Header, c.Version)
		if err != nil {
			return nil, err
		}
	}
	body, err := blocks.NewBeaconBlockBody(
		c.Version,
		bytesutil.ToBytes96(c.RandaoReveal),
		bytesutil.ToBytes32(c.Graffiti),
		execution,
	)
	if err != nil {
		return nil, err
	}
	b, err := blocks.NewBeaconBlock(c.Slot, c.ProposerIndex, bytesutil.ToBytes32(c.ParentRoot), bytesutil.ToBytes32(c.StateRoot), body)
	if err != nil {
		return nil, err
	}
	return blocks.NewSignedBeaconBlock(b, bytesutil.ToBytes96(c.Signature))
}
