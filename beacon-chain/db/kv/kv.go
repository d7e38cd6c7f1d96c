// Package kv defines a bolt-db, key-value store implementation
// of the node's Database interface.
package kv

import (
	"bytes"
	"context"
	"os"
	"path"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	prombolt "github.com/prysmaticlabs/prombbolt"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db/iface"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var _ iface.Database = (*Store)(nil)

var log = logrus.WithField("prefix", "db")

const (
	// BeaconNodeDbDirName is the name of the directory containing the beacon node database.
	BeaconNodeDbDirName = "beaconchaindata"
	// DatabaseFileName is the name of the beacon node database.
	DatabaseFileName = "beaconchain.db"

	boltAllocSize = 8 * 1024 * 1024
	// The size of hash length in bytes
	hashLength = 32
)

var (
	// Specifies the initial mmap size of bolt.
	mmapSize = 536870912
	// BlockCacheSize specifies 1000 slots worth of blocks cached, which
	// would be approximately 2MB
	BlockCacheSize = int64(1 << 21)
)

// Store defines an implementation of the Database interface
// using BoltDB as the underlying persistent kv-store for Ethereum Beacon Nodes.
type Store struct {
	db           *bolt.DB
	databasePath string
	blockCache   *ristretto.Cache
	ctx          context.Context
}

// StoreDatafilePath is the canonical construction of a full
// database file path from the directory path, so that code outside
// this package can find the full path in a consistent way.
func StoreDatafilePath(dirPath string) string {
	return path.Join(dirPath, DatabaseFileName)
}

// KVStoreOption is a functional option that modifies a kv.Store.
type KVStoreOption func(*Store)

// WithBlockCacheSize sets the maximum cost of the blinded block cache.
func WithBlockCacheSize(cost int64) KVStoreOption {
	return func(s *Store) {
		if s.blockCache != nil {
			s.blockCache.Close()
		}
		c, err := newBlockCache(cost)
		if err != nil {
			log.WithError(err).Error("Could not resize block cache, keeping the default")
			return
		}
		s.blockCache = c
	}
}

func newBlockCache(maxCost int64) (*ristretto.Cache, error) {
	return ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,    // number of keys to track frequency of (1000).
		MaxCost:     maxCost, // maximum cost of cache.
		BufferItems: 64,      // number of keys per Get buffer.
	})
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified, creates the kv-buckets based on the schema, and stores
// an open connection db object as a property of the Store struct.
func NewKVStore(ctx context.Context, dirPath string, opts ...KVStoreOption) (*Store, error) {
	hasDir, err := hasDir(dirPath)
	if err != nil {
		return nil, err
	}
	if !hasDir {
		if err := os.MkdirAll(dirPath, 0700); err != nil {
			return nil, err
		}
	}
	datafile := StoreDatafilePath(dirPath)
	log.WithField("path", datafile).Info("Opening Bolt DB")
	boltDB, err := bolt.Open(
		datafile,
		0600,
		&bolt.Options{
			Timeout:         1 * time.Second,
			InitialMmapSize: mmapSize,
		},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize
	blockCache, err := newBlockCache(BlockCacheSize)
	if err != nil {
		return nil, err
	}

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
		blockCache:   blockCache,
		ctx:          ctx,
	}
	for _, o := range opts {
		o(kv)
	}

	if err := kv.db.Update(func(tx *bolt.Tx) error {
		if err := createBuckets(
			tx,
			blocksBucket,
			feeRecipientBucket,
			registrationBucket,
			chainMetadataBucket,
		); err != nil {
			return err
		}
		return checkSchemaVersion(tx)
	}); err != nil {
		return nil, err
	}
	if err := prometheus.Register(createBoltCollector(kv.db)); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
	}
	return kv, nil
}

func createBoltCollector(db *bolt.DB) prometheus.Collector {
	return prombolt.New("boltDB", db)
}

// ClearDB removes the previously stored database in the data directory.
func (s *Store) ClearDB() error {
	if _, err := os.Stat(s.databasePath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(StoreDatafilePath(s.databasePath)); err != nil {
		return errors.Wrap(err, "could not remove database file")
	}
	return nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	prometheus.Unregister(createBoltCollector(s.db))
	s.blockCache.Close()
	return s.db.Close()
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

func checkSchemaVersion(tx *bolt.Tx) error {
	bkt := tx.Bucket(chainMetadataBucket)
	v := bkt.Get(databaseSchemaVersionKey)
	if v == nil {
		return bkt.Put(databaseSchemaVersionKey, currentDatabaseSchemaValue)
	}
	if !bytes.Equal(v, currentDatabaseSchemaValue) {
		return errors.Errorf("unsupported database schema version %#x", v)
	}
	return nil
}

func hasDir(dirPath string) (bool, error) {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
