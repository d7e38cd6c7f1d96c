package util

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/state"
	state_native "github.com/prysmaticlabs/enginebridge/beacon-chain/state/state-native"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

// NewBeaconStateAltair creates a pre-merge beacon state with the default genesis values.
func NewBeaconStateAltair(options ...func(f *state_native.Fields) error) (state.BeaconState, error) {
	return newBeaconState(version.Altair, options...)
}

// NewBeaconStateBellatrix creates a beacon state with minimum marshalable fields. The latest execution
// payload header is zeroed, so the merge transition is not complete.
func NewBeaconStateBellatrix(options ...func(f *state_native.Fields) error) (state.BeaconState, error) {
	return newBeaconState(version.Bellatrix, options...)
}

// NewBeaconStateCapella creates a capella beacon state with minimum marshalable fields.
func NewBeaconStateCapella(options ...func(f *state_native.Fields) error) (state.BeaconState, error) {
	return newBeaconState(version.Capella, options...)
}

func newBeaconState(v int, options ...func(f *state_native.Fields) error) (state.BeaconState, error) {
	f := &state_native.Fields{}
	if v >= version.Bellatrix {
		f.LatestExecutionPayloadHeader = HydrateExecutionPayloadHeader(&enginev1.ExecutionPayloadHeader{})
	}
	for _, opt := range options {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	st, err := state_native.InitializeFromFields(v, f)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize state")
	}
	return st, nil
}
