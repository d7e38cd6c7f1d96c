package execution

import (
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	dbtest "github.com/prysmaticlabs/enginebridge/beacon-chain/db/testing"
	"github.com/prysmaticlabs/enginebridge/config/params"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	pb "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	ethpb "github.com/prysmaticlabs/enginebridge/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"github.com/prysmaticlabs/enginebridge/testing/util"
	"github.com/sirupsen/logrus"
	logTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logsContain(hook *logTest.Hook, want string) bool {
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, want) {
			return true
		}
	}
	return false
}

func validFCU(id pb.PayloadIDBytes) *pb.ForkchoiceUpdatedResponse {
	return &pb.ForkchoiceUpdatedResponse{
		Status:    &pb.PayloadStatus{Status: pb.PayloadStatus_VALID},
		PayloadId: &id,
	}
}

func TestService_NotifyNewPayload(t *testing.T) {
	s, engine, _ := setupTestService(t)
	engine.status = &pb.PayloadStatus{Status: pb.PayloadStatus_SYNCING}
	wp, err := blocks.WrappedExecutionPayload(util.HydrateExecutionPayload(nil))
	require.NoError(t, err)
	status, err := s.NotifyNewPayload(context.Background(), wp)
	require.NoError(t, err)
	assert.Equal(t, pb.PayloadStatus_SYNCING, status.Status)
}

func TestService_GetPayload_ReusesPayloadID(t *testing.T) {
	hook := logTest.NewGlobal()
	ctx := context.Background()
	s, engine, _ := setupTestService(t)
	parent := [32]byte{'p'}
	finalized := [32]byte{'f'}
	randao := [32]byte{'r'}
	engine.fcuResponse = validFCU(pb.PayloadIDBytes{9})
	engine.payload = util.HydrateExecutionPayload(&pb.ExecutionPayload{
		ParentHash: parent[:],
		Timestamp:  100,
		BlockHash:  []byte{'b', 31: 0},
	})

	for i := 0; i < 2; i++ {
		p, err := s.GetPayload(ctx, version.Bellatrix, parent, 100, randao, finalized, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), p.Timestamp())
		assert.Equal(t, parent[:], p.ParentHash())
	}
	assert.Equal(t, 1, engine.fcuCalls)
	assert.Equal(t, []pb.PayloadIDBytes{{9}, {9}}, engine.getPayloadIDs)
	assert.Equal(t, parent[:], engine.lastState.HeadBlockHash)
	assert.Equal(t, finalized[:], engine.lastState.SafeBlockHash)
	assert.Equal(t, finalized[:], engine.lastState.FinalizedBlockHash)
	assert.Equal(t, randao[:], engine.lastAttrs.PrevRandao)
	assert.Equal(t, uint64(100), engine.lastAttrs.Timestamp)

	// Mainnet defaults to the burn address.
	assert.True(t, logsContain(hook, "Fee recipient is currently using the burn address"))

	// A different timestamp starts a new build.
	engine.payload.Timestamp = 112
	_, err := s.GetPayload(ctx, version.Bellatrix, parent, 112, randao, finalized, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, engine.fcuCalls)
}

func TestService_GetPayload_Capella(t *testing.T) {
	s, engine, _ := setupTestService(t)
	parent := [32]byte{'p'}
	engine.fcuResponse = validFCU(pb.PayloadIDBytes{7})
	engine.payloadCapella = util.HydrateExecutionPayloadCapella(&pb.ExecutionPayloadCapella{
		ParentHash: parent[:],
		Timestamp:  50,
	})
	p, err := s.GetPayload(context.Background(), version.Capella, parent, 50, [32]byte{}, [32]byte{}, 0)
	require.NoError(t, err)
	assert.Equal(t, version.Capella, p.Version())
	require.NotNil(t, engine.lastAttrsV2)
	assert.Nil(t, engine.lastAttrs)
	assert.Equal(t, 0, len(engine.lastAttrsV2.Withdrawals))
}

func TestService_GetPayload_Errors(t *testing.T) {
	ctx := context.Background()
	parent := [32]byte{'p'}

	t.Run("pre-bellatrix", func(t *testing.T) {
		s, _, _ := setupTestService(t)
		_, err := s.GetPayload(ctx, version.Altair, parent, 1, [32]byte{}, [32]byte{}, 0)
		require.ErrorIs(t, err, ErrUnsupportedPayloadVersion)
	})
	t.Run("invalid parent", func(t *testing.T) {
		s, engine, _ := setupTestService(t)
		engine.fcuResponse = &pb.ForkchoiceUpdatedResponse{
			Status: &pb.PayloadStatus{Status: pb.PayloadStatus_INVALID, ValidationError: "bad parent"},
		}
		_, err := s.GetPayload(ctx, version.Bellatrix, parent, 1, [32]byte{}, [32]byte{}, 0)
		require.ErrorIs(t, err, ErrNoPayloadID)
		require.ErrorContains(t, err, "bad parent")
	})
	t.Run("syncing without payload id", func(t *testing.T) {
		s, engine, _ := setupTestService(t)
		engine.fcuResponse = &pb.ForkchoiceUpdatedResponse{
			Status: &pb.PayloadStatus{Status: pb.PayloadStatus_SYNCING},
		}
		_, err := s.GetPayload(ctx, version.Bellatrix, parent, 1, [32]byte{}, [32]byte{}, 0)
		require.ErrorIs(t, err, ErrNoPayloadID)
	})
	t.Run("mismatched payload", func(t *testing.T) {
		s, engine, _ := setupTestService(t)
		engine.fcuResponse = validFCU(pb.PayloadIDBytes{1})
		engine.payload = util.HydrateExecutionPayload(&pb.ExecutionPayload{ParentHash: parent[:], Timestamp: 2})
		_, err := s.GetPayload(ctx, version.Bellatrix, parent, 1, [32]byte{}, [32]byte{}, 0)
		require.ErrorIs(t, err, ErrPayloadMismatch)
	})
	t.Run("unknown payload id is forgotten", func(t *testing.T) {
		s, engine, _ := setupTestService(t)
		engine.fcuResponse = validFCU(pb.PayloadIDBytes{1})
		engine.getPayloadErr = &testRPCError{code: -38001, msg: "unknown payload"}
		_, err := s.GetPayload(ctx, version.Bellatrix, parent, 1, [32]byte{}, [32]byte{}, 0)
		require.ErrorIs(t, err, ErrUnknownPayload)

		engine.getPayloadErr = nil
		engine.payload = util.HydrateExecutionPayload(&pb.ExecutionPayload{ParentHash: parent[:], Timestamp: 1})
		_, err = s.GetPayload(ctx, version.Bellatrix, parent, 1, [32]byte{}, [32]byte{}, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, engine.fcuCalls)
	})
}

func TestService_FeeRecipientForProposer(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	cfg := params.BeaconConfig().Copy()
	cfg.DefaultFeeRecipient = common.Address{'d'}
	params.OverrideBeaconConfig(cfg)

	ctx := context.Background()
	beaconDB := dbtest.SetupDB(t)
	require.NoError(t, beaconDB.SaveFeeRecipientsByValidatorIDs(
		ctx,
		[]primitives.ValidatorIndex{1, 2},
		[]common.Address{{'a'}, {'b'}},
	))
	reg := &ethpb.ValidatorRegistrationV1{
		FeeRecipient: common.Address{'r'}.Bytes(),
		GasLimit:     30_000_000,
		Timestamp:    1,
		Pubkey:       make([]byte, 48),
	}
	require.NoError(t, beaconDB.SaveRegistrationsByValidatorIDs(ctx, []primitives.ValidatorIndex{1}, []*ethpb.ValidatorRegistrationV1{reg}))

	hook := logTest.NewGlobal()
	s, _, _ := setupTestService(t, WithDatabase(beaconDB))
	tests := []struct {
		idx  primitives.ValidatorIndex
		want common.Address
	}{
		{idx: 1, want: common.Address{'r'}},
		{idx: 2, want: common.Address{'b'}},
		{idx: 3, want: common.Address{'d'}},
	}
	for _, tt := range tests {
		got, err := s.feeRecipientForProposer(ctx, tt.idx)
		require.NoError(t, err)
		assert.Equal(t, [20]byte(tt.want), got)
	}
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, e.Level, e.Message)
	}
}
