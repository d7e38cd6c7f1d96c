package kv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// BlindedBlock retrieval by root. Returns nil with no error when the block is not stored.
func (s *Store) BlindedBlock(ctx context.Context, blockRoot [32]byte) (interfaces.ReadOnlySignedBeaconBlock, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.BlindedBlock")
	defer span.End()
	// Return block from cache if it exists.
	if v, ok := s.blockCache.Get(string(blockRoot[:])); v != nil && ok {
		return v.(interfaces.ReadOnlySignedBeaconBlock), nil
	}
	var blk interfaces.ReadOnlySignedBeaconBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(blocksBucket).Get(blockRoot[:])
		if enc == nil {
			return nil
		}
		var err error
		blk, err = decodeBlindedBlock(enc)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not read block %#x", blockRoot)
	}
	if blk != nil {
		s.blockCache.Set(string(blockRoot[:]), blk, int64(blockCacheCost))
	}
	return blk, nil
}

// HasBlock checks if a block by root exists in the db.
func (s *Store) HasBlock(ctx context.Context, blockRoot [32]byte) bool {
	_, span := trace.StartSpan(ctx, "BeaconDB.HasBlock")
	defer span.End()
	if v, ok := s.blockCache.Get(string(blockRoot[:])); v != nil && ok {
		return true
	}
	exists := false
	if err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(blocksBucket).Get(blockRoot[:]) != nil
		return nil
	}); err != nil { // This view never returns an error, but we'll handle anyway for sanity.
		panic(err) // lint:nopanic -- View never returns an error.
	}
	return exists
}

// DeleteBlock by block root.
func (s *Store) DeleteBlock(ctx context.Context, blockRoot [32]byte) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.DeleteBlock")
	defer span.End()
	return s.db.Update(func(tx *bolt.Tx) error {
		s.blockCache.Del(string(blockRoot[:]))
		return tx.Bucket(blocksBucket).Delete(blockRoot[:])
	})
}

// SaveBlindedBlock stores the block under its root. Full post-Bellatrix blocks are
// blinded first so that only the execution payload header is persisted.
func (s *Store) SaveBlindedBlock(ctx context.Context, blk blocks.ROBlock) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.SaveBlindedBlock")
	defer span.End()
	root := blk.Root()
	enc, err := encodeBlindedBlock(blk.ReadOnlySignedBeaconBlock)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(blocksBucket).Put(root[:], enc); err != nil {
			return err
		}
		s.blockCache.Del(string(root[:]))
		return nil
	})
}

// Blinded blocks are small and roughly the same size, so every entry is charged the same.
const blockCacheCost = 1 << 10
