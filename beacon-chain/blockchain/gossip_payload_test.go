package blockchain

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	mockChain "github.com/prysmaticlabs/enginebridge/beacon-chain/blockchain/testing"
	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/testing/util"
	"github.com/prysmaticlabs/enginebridge/time/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gossipSlot = primitives.Slot(100)

func gossipParent(kind forkchoicetypes.ExecutionStatusKind) *forkchoicetypes.ProtoBlock {
	p := &forkchoicetypes.ProtoBlock{
		Slot:            gossipSlot - 1,
		Root:            [32]byte{'g'},
		ExecutionStatus: forkchoicetypes.ExecutionStatus{Kind: kind},
	}
	if kind != forkchoicetypes.Irrelevant {
		copy(p.ExecutionStatus.BlockHash[:], hash32('G'))
	}
	return p
}

func gossipBlock(t *testing.T, p *enginev1.ExecutionPayload) interfaces.ReadOnlyBeaconBlock {
	blk, err := util.NewBeaconBlockBellatrix(gossipSlot, [32]byte{'g'}, p)
	require.NoError(t, err)
	return blk.Block()
}

func TestValidateExecutionPayloadForGossip(t *testing.T) {
	expected := testGenesisTime + uint64(gossipSlot)*12
	fullPayload := func(ts uint64) *enginev1.ExecutionPayload {
		return &enginev1.ExecutionPayload{ParentHash: hash32('G'), BlockHash: hash32('H'), Timestamp: ts}
	}

	tests := []struct {
		name          string
		parent        forkchoicetypes.ExecutionStatusKind
		payload       *enginev1.ExecutionPayload
		wantTimestamp *InvalidPayloadTimestampError
		wantClock     int
	}{
		{
			name:    "pre-merge parent and default payload",
			parent:  forkchoicetypes.Irrelevant,
			payload: nil,
		},
		{
			name:      "pre-merge parent and merge payload",
			parent:    forkchoicetypes.Irrelevant,
			payload:   fullPayload(expected),
			wantClock: 1,
		},
		{
			name:          "pre-merge parent and merge payload with wrong timestamp",
			parent:        forkchoicetypes.Irrelevant,
			payload:       fullPayload(expected - 12),
			wantTimestamp: &InvalidPayloadTimestampError{Expected: expected, Found: expected - 12},
			wantClock:     1,
		},
		{
			name:      "valid parent",
			parent:    forkchoicetypes.Valid,
			payload:   fullPayload(expected),
			wantClock: 1,
		},
		{
			name:      "optimistic parent",
			parent:    forkchoicetypes.Optimistic,
			payload:   fullPayload(expected),
			wantClock: 1,
		},
		{
			name:          "valid parent and default payload",
			parent:        forkchoicetypes.Valid,
			payload:       nil,
			wantTimestamp: &InvalidPayloadTimestampError{Expected: expected, Found: 0},
			wantClock:     1,
		},
		{
			name:          "optimistic parent and future timestamp",
			parent:        forkchoicetypes.Optimistic,
			payload:       fullPayload(expected + 1),
			wantTimestamp: &InvalidPayloadTimestampError{Expected: expected, Found: expected + 1},
			wantClock:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupService(t)
			err := h.service.ValidateExecutionPayloadForGossip(gossipParent(tt.parent), gossipBlock(t, tt.payload))
			if tt.wantTimestamp != nil {
				var got *InvalidPayloadTimestampError
				require.True(t, errors.As(err, &got))
				assert.Equal(t, tt.wantTimestamp, got)
				assert.True(t, IsInvalidBlock(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantClock, h.clock.Calls())
		})
	}
}

func TestValidateExecutionPayloadForGossip_InvalidParent(t *testing.T) {
	h := setupService(t)
	h.clock.Unrepresentable = true
	parent := gossipParent(forkchoicetypes.Invalid)

	err := h.service.ValidateExecutionPayloadForGossip(parent, gossipBlock(t, nil))
	var got *ParentExecutionPayloadInvalidError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, parent.Root, got.ParentRoot)
	assert.True(t, IsInvalidBlock(err))
	// Rejected before the slot clock is consulted.
	assert.Equal(t, 0, h.clock.Calls())
}

func TestValidateExecutionPayloadForGossip_UnableToComputeTime(t *testing.T) {
	h := setupService(t)
	h.clock.Unrepresentable = true

	err := h.service.ValidateExecutionPayloadForGossip(gossipParent(forkchoicetypes.Valid), gossipBlock(t, nil))
	require.ErrorIs(t, err, ErrUnableToComputeTimeAtSlot)
	assert.False(t, IsInvalidBlock(err))
	assert.Equal(t, 1, h.clock.Calls())
}

func TestValidateExecutionPayloadForGossip_NoSlotClock(t *testing.T) {
	h := setupService(t, WithSlotClock(nil))
	err := h.service.ValidateExecutionPayloadForGossip(gossipParent(forkchoicetypes.Valid), gossipBlock(t, nil))
	require.ErrorIs(t, err, ErrUnableToComputeTimeAtSlot)
}

func TestValidateExecutionPayloadForGossip_NoPayload(t *testing.T) {
	h := setupService(t)
	blk, err := util.NewBeaconBlockAltair(gossipSlot, [32]byte{'g'})
	require.NoError(t, err)

	for _, kind := range []forkchoicetypes.ExecutionStatusKind{
		forkchoicetypes.Irrelevant,
		forkchoicetypes.Valid,
		forkchoicetypes.Invalid,
	} {
		require.NoError(t, h.service.ValidateExecutionPayloadForGossip(gossipParent(kind), blk.Block()))
	}
	assert.Equal(t, 0, h.clock.Calls())
}

func TestValidateExecutionPayloadForGossip_NilInputs(t *testing.T) {
	h := setupService(t)
	require.ErrorContains(t, h.service.ValidateExecutionPayloadForGossip(nil, gossipBlock(t, nil)), "nil parent block")
	require.ErrorContains(t, h.service.ValidateExecutionPayloadForGossip(gossipParent(forkchoicetypes.Valid), nil), "nil block")
}

func TestValidateExecutionPayloadForGossip_WallClock(t *testing.T) {
	clock := slots.NewClock(time.Unix(int64(testGenesisTime), 0))
	h := setupService(t, WithSlotClock(clock))
	expected := testGenesisTime + uint64(gossipSlot)*12

	good := &enginev1.ExecutionPayload{BlockHash: hash32('H'), Timestamp: expected}
	require.NoError(t, h.service.ValidateExecutionPayloadForGossip(gossipParent(forkchoicetypes.Valid), gossipBlock(t, good)))

	bad := &enginev1.ExecutionPayload{BlockHash: hash32('H'), Timestamp: expected + 12}
	err := h.service.ValidateExecutionPayloadForGossip(gossipParent(forkchoicetypes.Valid), gossipBlock(t, bad))
	var got *InvalidPayloadTimestampError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, expected, got.Expected)
	assert.Equal(t, expected+12, got.Found)
}

var _ SlotClock = (*mockChain.SlotClock)(nil)
