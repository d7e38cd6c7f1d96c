package blockchain

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/enginebridge/async"
	mockChain "github.com/prysmaticlabs/enginebridge/beacon-chain/blockchain/testing"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/execution"
	mockExecution "github.com/prysmaticlabs/enginebridge/beacon-chain/execution/testing"
	doublylinkedtree "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/doubly-linked-tree"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/state"
	state_native "github.com/prysmaticlabs/enginebridge/beacon-chain/state/state-native"
	fieldparams "github.com/prysmaticlabs/enginebridge/config/fieldparams"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/testing/util"
	"github.com/prysmaticlabs/enginebridge/time/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ExecutionEngineCaller = (*execution.Service)(nil)

const testGenesisTime = uint64(1_000)

var testRandaoMix = bytesutil.PadTo([]byte{'r'}, fieldparams.RootLength)

func hash32(b byte) []byte {
	return bytesutil.PadTo([]byte{b}, fieldparams.RootLength)
}

// testState returns a bellatrix pre-state at slot. A non-nil latestHash completes the merge.
func testState(t *testing.T, slot primitives.Slot, latestHash []byte) state.BeaconState {
	epoch := slots.ToEpoch(slot)
	mixes := make([][]byte, epoch+1)
	for i := range mixes {
		mixes[i] = make([]byte, fieldparams.RootLength)
	}
	mixes[epoch] = testRandaoMix
	st, err := util.NewBeaconStateBellatrix(func(f *state_native.Fields) error {
		f.GenesisTime = testGenesisTime
		f.Slot = slot
		f.RandaoMixes = mixes
		if latestHash != nil {
			f.LatestExecutionPayloadHeader = util.HydrateExecutionPayloadHeader(&enginev1.ExecutionPayloadHeader{
				BlockHash:   latestHash,
				BlockNumber: 1,
			})
		}
		return nil
	})
	require.NoError(t, err)
	return st
}

// validPayload returns a payload passing the engine independent checks against testState(slot, parentHash).
func validPayload(slot primitives.Slot, parentHash, blockHash []byte) *enginev1.ExecutionPayload {
	return util.HydrateExecutionPayload(&enginev1.ExecutionPayload{
		ParentHash:  parentHash,
		PrevRandao:  testRandaoMix,
		Timestamp:   testGenesisTime + uint64(slot)*12,
		BlockNumber: 2,
		GasLimit:    30_000_000,
		GasUsed:     21_000,
		BlockHash:   blockHash,
	})
}

type testHarness struct {
	service *Service
	engine  *mockExecution.EngineClient
	fc      *mockChain.ForkChoice
	clock   *mockChain.SlotClock
}

func setupService(t *testing.T, opts ...Option) *testHarness {
	h := &testHarness{
		engine: &mockExecution.EngineClient{},
		fc:     mockChain.NewForkChoice(doublylinkedtree.New()),
		clock:  &mockChain.SlotClock{Genesis: testGenesisTime, SecondsPerSlot: 12},
	}
	all := append([]Option{
		WithExecutionEngineCaller(h.engine),
		WithForkChoiceStore(h.fc),
		WithSlotClock(h.clock),
	}, opts...)
	s, err := NewService(context.Background(), all...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Stop())
	})
	h.service = s
	return h
}

func TestNewService_Defaults(t *testing.T) {
	s, err := NewService(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s.ForkChoicer())
	assert.Equal(t, 0, s.ForkChoicer().NodeCount())
	assert.True(t, s.ownsExecutor)
	require.NoError(t, s.Status())

	s.Start()
	require.NoError(t, s.Stop())
	require.ErrorIs(t, s.Status(), ErrShuttingDown)
}

func TestNewService_OptionError(t *testing.T) {
	_, err := NewService(context.Background(), WithExecutor(nil))
	require.ErrorContains(t, err, "nil executor")
}

func TestNewService_SharedExecutor(t *testing.T) {
	e := async.NewExecutor(context.Background(), 2)
	defer e.Stop()
	s, err := NewService(context.Background(), WithExecutor(e), WithMaxBlockingTasks(4))
	require.NoError(t, err)
	assert.False(t, s.ownsExecutor)
	assert.Equal(t, int64(4), s.cfg.MaxBlockingTasks)

	require.NoError(t, s.Stop())
	// The executor belongs to the caller and keeps running.
	assert.False(t, e.IsStopped())
	require.NoError(t, s.Status())
}
