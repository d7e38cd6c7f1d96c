// Package blockchain defines the life-cycle of the execution payload checks run while importing and
// proposing beacon blocks. It verifies payloads with the execution engine, validates the merge
// transition block, screens gossip blocks and prepares payloads for local proposals.
package blockchain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/enginebridge/async"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice"
	doublylinkedtree "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/doubly-linked-tree"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
)

// ExecutionEngineCaller is the view of the execution engine needed to verify and build payloads.
type ExecutionEngineCaller interface {
	NotifyNewPayload(ctx context.Context, payload interfaces.ExecutionData) (*enginev1.PayloadStatus, error)
	// IsValidTerminalPowBlockHash returns (valid, known, err). valid is meaningless when known is false.
	IsValidTerminalPowBlockHash(ctx context.Context, hash common.Hash) (bool, bool, error)
	GetTerminalPowBlockHash(ctx context.Context) (common.Hash, bool, error)
	GetPayload(
		ctx context.Context,
		v int,
		parentHash [32]byte,
		timestamp uint64,
		prevRandao [32]byte,
		finalizedHash [32]byte,
		proposerIndex primitives.ValidatorIndex,
	) (interfaces.ExecutionData, error)
}

// SlotClock maps slots to their start time since the UNIX epoch.
type SlotClock interface {
	StartOf(slot primitives.Slot) (time.Duration, bool)
}

// config options for the service.
type config struct {
	ExecutionEngineCaller ExecutionEngineCaller
	ForkChoiceStore       forkchoice.ForkChoicer
	BeaconDB              db.ReadOnlyDatabase
	SlotClock             SlotClock
	MaxBlockingTasks      int64
}

// Service represents a service that handles the execution payload side of block import and
// block production.
type Service struct {
	ctx          context.Context
	cancel       context.CancelFunc
	cfg          *config
	executor     *async.Executor
	ownsExecutor bool
}

// NewService instantiates a new service instance that will
// be registered into a running beacon node.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	srv := &Service{
		ctx:    ctx,
		cancel: cancel,
		cfg:    &config{},
	}
	for _, opt := range opts {
		if err := opt(srv); err != nil {
			cancel()
			return nil, err
		}
	}
	if srv.cfg.ForkChoiceStore == nil {
		srv.cfg.ForkChoiceStore = doublylinkedtree.New()
	}
	if srv.executor == nil {
		srv.executor = async.NewExecutor(ctx, srv.cfg.MaxBlockingTasks)
		srv.ownsExecutor = true
	}
	return srv, nil
}

// Start the blockchain service.
func (s *Service) Start() {
	log.WithField("executionEngine", s.cfg.ExecutionEngineCaller != nil).Info("Starting blockchain service")
}

// Stop the blockchain service's main event loop and associated goroutines.
func (s *Service) Stop() error {
	defer s.cancel()
	if s.ownsExecutor {
		s.executor.Stop()
	}
	log.Info("Stopping blockchain service")
	return nil
}

// Status always returns nil unless there is an error condition that causes
// this service to be unhealthy.
func (s *Service) Status() error {
	if s.executor.IsStopped() {
		return ErrShuttingDown
	}
	return nil
}

// ForkChoicer returns the forkchoice interface.
func (s *Service) ForkChoicer() forkchoice.ForkChoicer {
	return s.cfg.ForkChoiceStore
}
