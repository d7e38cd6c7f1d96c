package time_test

import (
	"testing"

	"github.com/prysmaticlabs/enginebridge/beacon-chain/core/time"
	state_native "github.com/prysmaticlabs/enginebridge/beacon-chain/state/state-native"
	"github.com/prysmaticlabs/enginebridge/config/params"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentEpoch_OK(t *testing.T) {
	spe := params.BeaconConfig().SlotsPerEpoch
	tests := []struct {
		slot  primitives.Slot
		epoch primitives.Epoch
	}{
		{slot: 0, epoch: 0},
		{slot: spe - 1, epoch: 0},
		{slot: spe, epoch: 1},
		{slot: spe * 10, epoch: 10},
		{slot: spe*10 + 1, epoch: 10},
	}
	for _, tt := range tests {
		st, err := util.NewBeaconStateAltair(func(f *state_native.Fields) error {
			f.Slot = tt.slot
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, tt.epoch, time.CurrentEpoch(st), "CurrentEpoch(%d)", tt.slot)
	}
}
