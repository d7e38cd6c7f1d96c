package doublylinkedtree

import (
	"context"
	"testing"

	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roBlock(t *testing.T, b interfaces.ReadOnlySignedBeaconBlock, root [32]byte) blocks.ROBlock {
	rb, err := blocks.NewROBlockWithRoot(b, root)
	require.NoError(t, err)
	return rb
}

func TestForkChoice_InsertNode(t *testing.T) {
	ctx := context.Background()
	f := New()

	pre, err := util.NewBeaconBlockAltair(1, [32]byte{})
	require.NoError(t, err)
	require.NoError(t, f.InsertNode(ctx, roBlock(t, pre, [32]byte{'a'}), false))

	empty, err := util.NewBeaconBlockBellatrix(2, [32]byte{'a'}, nil)
	require.NoError(t, err)
	require.NoError(t, f.InsertNode(ctx, roBlock(t, empty, [32]byte{'b'}), true))

	full, err := util.NewBeaconBlockBellatrix(3, [32]byte{'b'}, &enginev1.ExecutionPayload{BlockHash: []byte{'C'}})
	require.NoError(t, err)
	require.NoError(t, f.InsertNode(ctx, roBlock(t, full, [32]byte{'c'}), true))

	verified, err := util.NewBeaconBlockBellatrix(4, [32]byte{'c'}, &enginev1.ExecutionPayload{BlockHash: []byte{'D'}})
	require.NoError(t, err)
	require.NoError(t, f.InsertNode(ctx, roBlock(t, verified, [32]byte{'d'}), false))

	assert.Equal(t, 4, f.NodeCount())
	assert.True(t, f.HasNode([32]byte{'c'}))
	assert.False(t, f.HasNode([32]byte{'z'}))

	tests := []struct {
		root [32]byte
		want forkchoicetypes.ExecutionStatus
	}{
		{root: [32]byte{'a'}, want: forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Irrelevant}},
		{root: [32]byte{'b'}, want: forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Irrelevant}},
		{root: [32]byte{'c'}, want: forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Optimistic, BlockHash: [32]byte{'C'}}},
		{root: [32]byte{'d'}, want: forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Valid, BlockHash: [32]byte{'D'}}},
	}
	for _, tt := range tests {
		b, ok := f.Block(tt.root)
		require.True(t, ok)
		assert.Equal(t, tt.want, b.ExecutionStatus)
		assert.Equal(t, tt.root, b.Root)
	}
	b, ok := f.Block([32]byte{'d'})
	require.True(t, ok)
	assert.Equal(t, [32]byte{'c'}, b.ParentRoot)

	_, ok = f.Block([32]byte{'z'})
	assert.False(t, ok)
}

func TestForkChoice_InsertNode_Parents(t *testing.T) {
	ctx := context.Background()
	f := New()
	_, err := f.store.insert(ctx, 1, [32]byte{'a'}, [32]byte{}, forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Optimistic, BlockHash: [32]byte{'A'}})
	require.NoError(t, err)

	_, err = f.store.insert(ctx, 2, [32]byte{'b'}, [32]byte{'x'}, forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Optimistic})
	require.ErrorIs(t, err, errInvalidParentRoot)

	require.NoError(t, f.ProcessInvalidExecutionPayload(ctx, forkchoicetypes.InvalidateOne{Root: [32]byte{'a'}}))
	_, err = f.store.insert(ctx, 2, [32]byte{'b'}, [32]byte{'a'}, forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Optimistic})
	require.ErrorIs(t, err, errInvalidParentRoot)

	// Inserting a known root is a no-op.
	n, err := f.store.insert(ctx, 1, [32]byte{'a'}, [32]byte{}, forkchoicetypes.ExecutionStatus{})
	require.NoError(t, err)
	assert.Equal(t, forkchoicetypes.Invalid, n.payload.Kind)
}

func TestForkChoice_FinalizedCheckpoint(t *testing.T) {
	f := New()
	assert.Equal(t, &forkchoicetypes.Checkpoint{}, f.FinalizedCheckpoint())
	require.ErrorIs(t, f.UpdateFinalizedCheckpoint(&forkchoicetypes.Checkpoint{Epoch: 1, Root: [32]byte{'a'}}), errUnknownFinalizedRoot)

	_, err := f.store.insert(context.Background(), 32, [32]byte{'a'}, [32]byte{}, forkchoicetypes.ExecutionStatus{})
	require.NoError(t, err)
	require.NoError(t, f.UpdateFinalizedCheckpoint(&forkchoicetypes.Checkpoint{Epoch: 1, Root: [32]byte{'a'}}))
	cp := f.FinalizedCheckpoint()
	assert.Equal(t, [32]byte{'a'}, cp.Root)

	// The returned checkpoint is a copy.
	cp.Root = [32]byte{'b'}
	assert.Equal(t, [32]byte{'a'}, f.FinalizedCheckpoint().Root)
}

func TestForkChoice_IsOptimistic_Unknown(t *testing.T) {
	f := New()
	opt, err := f.IsOptimistic([32]byte{'a'})
	require.ErrorIs(t, err, ErrNilNode)
	assert.True(t, opt)
}
