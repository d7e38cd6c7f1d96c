package execution

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	pb "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"github.com/prysmaticlabs/enginebridge/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_NewPayload(t *testing.T) {
	ctx := context.Background()
	s, engine, _ := setupTestService(t)
	lvh := bytesutil.PadTo([]byte("valid"), 32)

	t.Run(NewPayloadMethod, func(t *testing.T) {
		engine.status = &pb.PayloadStatus{Status: pb.PayloadStatus_VALID, LatestValidHash: lvh}
		wp, err := blocks.WrappedExecutionPayload(util.HydrateExecutionPayload(nil))
		require.NoError(t, err)
		status, err := s.NewPayload(ctx, wp)
		require.NoError(t, err)
		assert.Equal(t, pb.PayloadStatus_VALID, status.Status)
		assert.Equal(t, lvh, status.LatestValidHash)
		assert.Equal(t, 1, engine.newPayloadV1)
	})
	t.Run(NewPayloadMethodV2, func(t *testing.T) {
		engine.status = &pb.PayloadStatus{Status: pb.PayloadStatus_INVALID, LatestValidHash: lvh, ValidationError: "bad"}
		wp, err := blocks.WrappedExecutionPayloadCapella(util.HydrateExecutionPayloadCapella(nil))
		require.NoError(t, err)
		status, err := s.NewPayload(ctx, wp)
		require.NoError(t, err)
		assert.Equal(t, pb.PayloadStatus_INVALID, status.Status)
		assert.Equal(t, "bad", status.ValidationError)
		assert.Equal(t, 1, engine.newPayloadV2)
	})
	t.Run("unknown status", func(t *testing.T) {
		engine.status = &pb.PayloadStatus{Status: pb.PayloadStatus_UNKNOWN}
		wp, err := blocks.WrappedExecutionPayload(util.HydrateExecutionPayload(nil))
		require.NoError(t, err)
		_, err = s.NewPayload(ctx, wp)
		require.ErrorIs(t, err, ErrUnknownPayloadStatus)
	})
	t.Run("header rejected", func(t *testing.T) {
		h, err := blocks.WrappedExecutionPayloadHeader(util.HydrateExecutionPayloadHeader(nil), version.Bellatrix)
		require.NoError(t, err)
		_, err = s.NewPayload(ctx, h)
		require.ErrorIs(t, err, ErrUnsupportedPayloadVersion)
	})
}

func TestClient_ForkchoiceUpdated(t *testing.T) {
	ctx := context.Background()
	s, engine, _ := setupTestService(t)
	id := pb.PayloadIDBytes{1, 2, 3}
	engine.fcuResponse = &pb.ForkchoiceUpdatedResponse{
		Status:    &pb.PayloadStatus{Status: pb.PayloadStatus_VALID},
		PayloadId: &id,
	}
	fcs := &pb.ForkchoiceState{
		HeadBlockHash:      bytesutil.PadTo([]byte("head"), 32),
		SafeBlockHash:      bytesutil.PadTo([]byte("safe"), 32),
		FinalizedBlockHash: bytesutil.PadTo([]byte("finalized"), 32),
	}

	gotID, status, err := s.ForkchoiceUpdated(ctx, fcs, &pb.PayloadAttributes{
		Timestamp:             7,
		PrevRandao:            make([]byte, 32),
		SuggestedFeeRecipient: make([]byte, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, id, *gotID)
	assert.Equal(t, pb.PayloadStatus_VALID, status.Status)
	assert.Equal(t, uint64(7), engine.lastAttrs.Timestamp)
	assert.Equal(t, fcs.HeadBlockHash, engine.lastState.HeadBlockHash)

	_, _, err = s.ForkchoiceUpdated(ctx, fcs, &pb.PayloadAttributesV2{
		Timestamp:             8,
		PrevRandao:            make([]byte, 32),
		SuggestedFeeRecipient: make([]byte, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(8), engine.lastAttrsV2.Timestamp)

	_, _, err = s.ForkchoiceUpdated(ctx, fcs, "bogus")
	require.ErrorContains(t, err, "unknown payload attributes type")

	engine.fcuResponse = nil
	_, _, err = s.ForkchoiceUpdated(ctx, fcs, nil)
	require.ErrorIs(t, err, ErrNilResponse)

	engine.fcuErr = &testRPCError{code: -38002, msg: "invalid forkchoice state"}
	_, _, err = s.ForkchoiceUpdated(ctx, fcs, nil)
	require.ErrorIs(t, err, ErrInvalidForkchoiceState)
}

func TestClient_GetPayloadByID(t *testing.T) {
	ctx := context.Background()
	s, engine, _ := setupTestService(t)
	engine.payload = util.HydrateExecutionPayload(&pb.ExecutionPayload{BlockNumber: 3, Transactions: [][]byte{{1}}})
	engine.payloadCapella = util.HydrateExecutionPayloadCapella(&pb.ExecutionPayloadCapella{BlockNumber: 4})

	p, err := s.GetPayloadByID(ctx, pb.PayloadIDBytes{1}, version.Bellatrix)
	require.NoError(t, err)
	assert.Equal(t, version.Bellatrix, p.Version())
	assert.Equal(t, uint64(3), p.BlockNumber())
	txs, err := p.Transactions()
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1}}, txs)

	p, err = s.GetPayloadByID(ctx, pb.PayloadIDBytes{2}, version.Capella)
	require.NoError(t, err)
	assert.Equal(t, version.Capella, p.Version())
	assert.Equal(t, uint64(4), p.BlockNumber())
	assert.Equal(t, []pb.PayloadIDBytes{{1}, {2}}, engine.getPayloadIDs)

	_, err = s.GetPayloadByID(ctx, pb.PayloadIDBytes{3}, version.Altair)
	require.ErrorIs(t, err, ErrUnsupportedPayloadVersion)

	engine.getPayloadErr = &testRPCError{code: -38001, msg: "unknown payload"}
	_, err = s.GetPayloadByID(ctx, pb.PayloadIDBytes{4}, version.Bellatrix)
	require.ErrorIs(t, err, ErrUnknownPayload)
}

func TestClient_ExecutionBlocks(t *testing.T) {
	ctx := context.Background()
	s, _, eth := setupTestService(t)
	parent := testExecutionBlock(common.Hash{'p'}, common.Hash{}, 1, 10)
	head := testExecutionBlock(common.Hash{'h'}, parent.Hash, 2, 20)
	eth.addBlock(parent)
	eth.addBlock(head)

	got, err := s.ExecutionBlockByHash(ctx, parent.Hash)
	require.NoError(t, err)
	assert.Equal(t, parent.Hash, got.Hash)
	assert.Equal(t, parent.TotalDifficulty, got.TotalDifficulty)

	got, err = s.LatestExecutionBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, head.Hash, got.Hash)
	assert.Equal(t, parent.Hash, got.ParentHash)

	_, err = s.ExecutionBlockByHash(ctx, common.Hash{'x'})
	require.ErrorIs(t, err, ethereum.NotFound)
}

func TestClient_IsSyncing(t *testing.T) {
	s, _, eth := setupTestService(t)
	syncing, err := s.IsSyncing(context.Background())
	require.NoError(t, err)
	assert.False(t, syncing)
	eth.syncing = true
	syncing, err = s.IsSyncing(context.Background())
	require.NoError(t, err)
	assert.True(t, syncing)
}

func TestClient_NoConnection(t *testing.T) {
	s, err := NewService(context.Background())
	require.NoError(t, err)
	_, err = s.NewPayload(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoExecutionClient)
	_, err = s.LatestExecutionBlock(context.Background())
	require.ErrorIs(t, err, ErrNoExecutionClient)
	_, err = s.IsSyncing(context.Background())
	require.ErrorIs(t, err, ErrNoExecutionClient)
}

type dataError struct {
	testRPCError
}

func (dataError) ErrorData() interface{} { return "data" }

func TestHandleRPCError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "nil", err: nil, expected: nil},
		{name: "parse", err: &testRPCError{code: -32700}, expected: ErrParse},
		{name: "invalid request", err: &testRPCError{code: -32600}, expected: ErrInvalidRequest},
		{name: "method not found", err: &testRPCError{code: -32601}, expected: ErrMethodNotFound},
		{name: "invalid params", err: &testRPCError{code: -32602}, expected: ErrInvalidParams},
		{name: "internal", err: &testRPCError{code: -32603}, expected: ErrInternal},
		{name: "unknown payload", err: &testRPCError{code: -38001}, expected: ErrUnknownPayload},
		{name: "invalid forkchoice state", err: &testRPCError{code: -38002}, expected: ErrInvalidForkchoiceState},
		{name: "invalid payload attributes", err: &testRPCError{code: -38003}, expected: ErrInvalidPayloadAttributes},
		{name: "server error", err: &dataError{testRPCError{code: -32000, msg: "boom"}}, expected: ErrServer},
		{name: "timeout", err: context.DeadlineExceeded, expected: ErrHTTPTimeout},
		{name: "url timeout", err: &url.Error{Op: "Post", URL: "http://x", Err: timeoutErr{}}, expected: ErrHTTPTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleRPCError(tt.err)
			if tt.expected == nil {
				require.NoError(t, got)
				return
			}
			require.ErrorIs(t, got, tt.expected)
		})
	}

	plain := errors.New("connection refused")
	require.ErrorIs(t, handleRPCError(plain), plain)
	require.ErrorContains(t, handleRPCError(plain), "got an unexpected error in JSON-RPC response")
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "timeout" }
func (timeoutErr) Timeout() bool { return true }
