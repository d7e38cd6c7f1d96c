package state_native

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/state"
	fieldparams "github.com/prysmaticlabs/enginebridge/config/fieldparams"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

var (
	_ state.BeaconState = (*BeaconState)(nil)

	errNilHeader = errors.New("nil execution payload header")
)

// BeaconState is the in-memory snapshot of the beacon state fields read by execution payload
// processing.
type BeaconState struct {
	version                      int
	genesisTime                  uint64
	slot                         primitives.Slot
	randaoMixes                  [][32]byte
	latestExecutionPayloadHeader *enginev1.ExecutionPayloadHeader

	lock sync.RWMutex
}

// Fields is the set of values a BeaconState is initialized from.
type Fields struct {
	GenesisTime                  uint64
	Slot                         primitives.Slot
	RandaoMixes                  [][]byte
	LatestExecutionPayloadHeader *enginev1.ExecutionPayloadHeader
}

// InitializeFromFields creates a state of the given fork. Randao mixes are padded with zero values to
// the full historical vector length. Bellatrix and later states require a payload header.
func InitializeFromFields(v int, f *Fields) (*BeaconState, error) {
	if f == nil {
		return nil, errors.New("received nil state fields")
	}
	if v < version.Phase0 || v > version.Capella {
		return nil, errors.Errorf("unsupported state version %d", v)
	}
	if len(f.RandaoMixes) > fieldparams.RandaoMixesLength {
		return nil, errors.Errorf("too many randao mixes: %d > %d", len(f.RandaoMixes), fieldparams.RandaoMixesLength)
	}
	b := &BeaconState{
		version:     v,
		genesisTime: f.GenesisTime,
		slot:        f.Slot,
		randaoMixes: make([][32]byte, fieldparams.RandaoMixesLength),
	}
	for i, m := range f.RandaoMixes {
		if len(m) != 32 {
			return nil, errors.Errorf("randao mix at index %d has length %d", i, len(m))
		}
		copy(b.randaoMixes[i][:], m)
	}
	if v >= version.Bellatrix {
		if f.LatestExecutionPayloadHeader == nil {
			return nil, errNilHeader
		}
		b.latestExecutionPayloadHeader = f.LatestExecutionPayloadHeader.Copy()
	}
	return b, nil
}
