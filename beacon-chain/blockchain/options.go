package blockchain

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/async"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice"
)

// Option for the blockchain service.
type Option func(s *Service) error

// WithExecutionEngineCaller to call execution engine.
func WithExecutionEngineCaller(c ExecutionEngineCaller) Option {
	return func(s *Service) error {
		s.cfg.ExecutionEngineCaller = c
		return nil
	}
}

// WithForkChoiceStore to update an optimistic fork choice representation.
func WithForkChoiceStore(f forkchoice.ForkChoicer) Option {
	return func(s *Service) error {
		s.cfg.ForkChoiceStore = f
		return nil
	}
}

// WithDatabase for block storage.
func WithDatabase(beaconDB db.ReadOnlyDatabase) Option {
	return func(s *Service) error {
		s.cfg.BeaconDB = beaconDB
		return nil
	}
}

// WithSlotClock for gossip timestamp checks.
func WithSlotClock(c SlotClock) Option {
	return func(s *Service) error {
		s.cfg.SlotClock = c
		return nil
	}
}

// WithExecutor runs payload production on a shared executor. The caller owns its lifetime.
func WithExecutor(e *async.Executor) Option {
	return func(s *Service) error {
		if e == nil {
			return errors.New("nil executor")
		}
		s.executor = e
		return nil
	}
}

// WithMaxBlockingTasks bounds the blocking pool of the executor created by the service.
func WithMaxBlockingTasks(n int64) Option {
	return func(s *Service) error {
		s.cfg.MaxBlockingTasks = n
		return nil
	}
}
