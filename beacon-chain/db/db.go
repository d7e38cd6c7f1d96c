// Package db exposes the node's persistent store behind narrow interfaces.
package db

import (
	"context"

	"github.com/prysmaticlabs/enginebridge/beacon-chain/db/iface"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db/kv"
)

// ReadOnlyDatabase is what payload verification and proposal need.
type ReadOnlyDatabase = iface.ReadOnlyDatabase

type NoHeadAccessDatabase = iface.NoHeadAccessDatabase

// Database is the full store. Services should take one of the narrower views.
type Database = iface.Database

// NewDB opens the bolt backed store at dirPath.
func NewDB(ctx context.Context, dirPath string, opts ...kv.KVStoreOption) (Database, error) {
	return kv.NewKVStore(ctx, dirPath, opts...)
}
