package kv

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"github.com/prysmaticlabs/enginebridge/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_BlindedBlock_NotFound(t *testing.T) {
	db := setupDB(t)
	blk, err := db.BlindedBlock(context.Background(), [32]byte{'a'})
	require.NoError(t, err)
	assert.Nil(t, blk)
	assert.False(t, db.HasBlock(context.Background(), [32]byte{'a'}))
}

func TestStore_SaveBlindedBlock_CRUD(t *testing.T) {
	tests := []struct {
		name  string
		block func() (interfaces.ReadOnlySignedBeaconBlock, error)
	}{
		{
			name: "altair",
			block: func() (interfaces.ReadOnlySignedBeaconBlock, error) {
				return util.NewBeaconBlockAltair(10, [32]byte{'p'})
			},
		},
		{
			name: "bellatrix",
			block: func() (interfaces.ReadOnlySignedBeaconBlock, error) {
				return util.NewBeaconBlockBellatrix(11, [32]byte{'p'}, &enginev1.ExecutionPayload{
					BlockHash:    bytesutil.PadTo([]byte{'h'}, 32),
					Timestamp:    99,
					Transactions: [][]byte{{1, 2, 3}},
				})
			},
		},
		{
			name: "capella",
			block: func() (interfaces.ReadOnlySignedBeaconBlock, error) {
				return util.NewBeaconBlockCapella(12, [32]byte{'p'}, &enginev1.ExecutionPayloadCapella{
					GasLimit:    30_000_000,
					Withdrawals: []*enginev1.Withdrawal{{Index: 1, Amount: 2, Address: make([]byte, 20)}},
				})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			ctx := context.Background()
			b, err := tt.block()
			require.NoError(t, err)
			root := [32]byte{'r', byte(b.Version())}
			rob, err := blocks.NewROBlockWithRoot(b, root)
			require.NoError(t, err)

			require.NoError(t, db.SaveBlindedBlock(ctx, rob))
			assert.True(t, db.HasBlock(ctx, root))

			got, err := db.BlindedBlock(ctx, root)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, b.Version(), got.Version())
			assert.Equal(t, b.Block().Slot(), got.Block().Slot())
			assert.Equal(t, b.Block().ParentRoot(), got.Block().ParentRoot())

			if b.Version() >= version.Bellatrix {
				assert.True(t, got.IsBlinded())
				want, err := b.Block().Body().Execution()
				require.NoError(t, err)
				gotExecution, err := got.Block().Body().Execution()
				require.NoError(t, err)
				assert.True(t, gotExecution.IsBlinded())
				assert.Equal(t, want.BlockHash(), gotExecution.BlockHash())
				assert.Equal(t, want.Timestamp(), gotExecution.Timestamp())
				wantRoot, err := want.TransactionsRoot()
				require.NoError(t, err)
				gotRoot, err := gotExecution.TransactionsRoot()
				require.NoError(t, err)
				assert.Equal(t, wantRoot, gotRoot)
			}
		})
	}
}

func TestStore_DeleteBlock(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	root := [32]byte{'d'}
	b, err := util.NewBeaconBlockBellatrix(3, [32]byte{}, nil)
	require.NoError(t, err)
	rob, err := blocks.NewROBlockWithRoot(b, root)
	require.NoError(t, err)
	require.NoError(t, db.SaveBlindedBlock(ctx, rob))
	assert.True(t, db.HasBlock(ctx, root))

	require.NoError(t, db.DeleteBlock(ctx, root))
	assert.False(t, db.HasBlock(ctx, root))
	got, err := db.BlindedBlock(ctx, root)
	require.NoError(t, err)
	assert.Nil(t, got)
	// Deleting an unknown root is a no-op.
	require.NoError(t, db.DeleteBlock(ctx, [32]byte{'x'}))
}

func TestStore_SaveBlindedBlock_Nil(t *testing.T) {
	db := setupDB(t)
	err := db.SaveBlindedBlock(context.Background(), blocks.ROBlock{})
	require.ErrorIs(t, err, errNilBlock)
}

func TestStore_SaveBlindedBlock_Overwrite(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	root := [32]byte{'r'}

	first, err := util.NewBeaconBlockAltair(1, [32]byte{})
	require.NoError(t, err)
	rob, err := blocks.NewROBlockWithRoot(first, root)
	require.NoError(t, err)
	require.NoError(t, db.SaveBlindedBlock(ctx, rob))

	second, err := util.NewBeaconBlockAltair(2, [32]byte{})
	require.NoError(t, err)
	rob, err = blocks.NewROBlockWithRoot(second, root)
	require.NoError(t, err)
	require.NoError(t, db.SaveBlindedBlock(ctx, rob))

	got, err := db.BlindedBlock(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, second.Block().Slot(), got.Block().Slot())
}
