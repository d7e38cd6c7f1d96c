// Package testing opens throwaway bolt databases for unit tests.
package testing

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/enginebridge/beacon-chain/db"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db/kv"
	"github.com/stretchr/testify/require"
)

// SetupDB opens a store under t.TempDir and closes it when the test ends.
func SetupDB(t testing.TB, opts ...kv.KVStoreOption) db.Database {
	store, err := kv.NewKVStore(context.Background(), t.TempDir(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close(), "could not close database")
	})
	return store
}
