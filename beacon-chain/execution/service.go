// Package execution defines a runtime service which is tasked with
// communicating with an execution client over the engine API. It verifies
// execution payloads, locates the terminal proof-of-work block and builds
// new payloads for block proposals.
package execution

import (
	"context"
	"net/url"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/async"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db"
	"github.com/prysmaticlabs/enginebridge/config/params"
	pb "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/sirupsen/logrus"
)

const defaultUpcheckInterval = 12 * time.Second

// EngineStatus is the last observed health of the execution client.
type EngineStatus int

const (
	// EngineOffline means the last health check failed.
	EngineOffline EngineStatus = iota
	// EngineSyncing means the execution client answered but is still syncing.
	EngineSyncing
	// EngineOnline means the execution client answered and is synced.
	EngineOnline
)

func (e EngineStatus) String() string {
	switch e {
	case EngineOffline:
		return "offline"
	case EngineSyncing:
		return "syncing"
	case EngineOnline:
		return "online"
	default:
		return "unknown"
	}
}

// config defines a config struct for dependencies into the service.
type config struct {
	beaconDB               db.ReadOnlyDatabase
	currHttpEndpoint       string
	jwtSecret              []byte
	upcheckInterval        time.Duration
	payloadIDCacheSize     int
	executionEngineTimeout uint64
}

// payloadIDCacheKey identifies a payload build started by forkchoiceUpdated.
type payloadIDCacheKey struct {
	version      int
	parentHash   [32]byte
	timestamp    uint64
	prevRandao   [32]byte
	feeRecipient [20]byte
}

// Service fetches important information about the canonical
// execution chain via the engine API and drives payload production.
type Service struct {
	ctx            context.Context
	cancel         context.CancelFunc
	cfg            *config
	rpcClient      RPCClient
	payloadIDCache *lru.Cache[payloadIDCacheKey, pb.PayloadIDBytes]
	statusLock     sync.RWMutex
	engineStatus   EngineStatus
	lastErr        error
}

// NewService sets up a new instance with an ethclient when given a web3 endpoint as a string in the config.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:    ctx,
		cancel: cancel,
		cfg: &config{
			upcheckInterval:        defaultUpcheckInterval,
			payloadIDCacheSize:     params.BeaconConfig().PayloadIDCacheSize,
			executionEngineTimeout: params.BeaconConfig().ExecutionEngineTimeoutValue,
		},
		engineStatus: EngineOffline,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			cancel()
			return nil, err
		}
	}
	if s.cfg.payloadIDCacheSize <= 0 {
		cancel()
		return nil, errors.Errorf("payload id cache size must be positive, got %d", s.cfg.payloadIDCacheSize)
	}
	c, err := lru.New[payloadIDCacheKey, pb.PayloadIDBytes](s.cfg.payloadIDCacheSize)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "could not create payload id cache")
	}
	s.payloadIDCache = c
	return s, nil
}

// Start the execution service's main event loop.
func (s *Service) Start() {
	if s.rpcClient == nil {
		client, err := s.newRPCClientWithAuth(s.ctx, s.cfg.currHttpEndpoint)
		if err != nil {
			log.WithError(err).Error("Could not connect to execution endpoint")
			s.setStatus(EngineOffline, err)
			return
		}
		s.rpcClient = client
		log.WithField("endpoint", logEndpoint(s.cfg.currHttpEndpoint)).Info("Connected to execution client")
	}
	s.upcheck(s.ctx)
	async.RunEvery(s.ctx, s.cfg.upcheckInterval, s.upcheck)
}

// Stop the web3 service's main event loop and associated goroutines.
func (s *Service) Stop() error {
	if s.cancel != nil {
		defer s.cancel()
	}
	if s.rpcClient != nil {
		s.rpcClient.Close()
	}
	return nil
}

// Status is the service health, an error is returned while the execution client is unreachable.
func (s *Service) Status() error {
	s.statusLock.RLock()
	defer s.statusLock.RUnlock()
	if s.engineStatus == EngineOffline {
		if s.lastErr != nil {
			return errors.Wrap(s.lastErr, "execution client is offline")
		}
		return errors.New("execution client is offline")
	}
	return nil
}

// EngineStatus returns the last observed execution client status.
func (s *Service) EngineStatus() EngineStatus {
	s.statusLock.RLock()
	defer s.statusLock.RUnlock()
	return s.engineStatus
}

func (s *Service) upcheck(ctx context.Context) {
	syncing, err := s.IsSyncing(ctx)
	switch {
	case err != nil:
		s.setStatus(EngineOffline, err)
	case syncing:
		s.setStatus(EngineSyncing, nil)
	default:
		s.setStatus(EngineOnline, nil)
	}
}

func (s *Service) setStatus(status EngineStatus, err error) {
	s.statusLock.Lock()
	prev := s.engineStatus
	s.engineStatus = status
	s.lastErr = err
	s.statusLock.Unlock()
	engineStatusGauge.Set(float64(status))
	if prev == status {
		return
	}
	fields := logrus.Fields{
		"previous": prev.String(),
		"current":  status.String(),
	}
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("Execution client status changed")
		return
	}
	log.WithFields(fields).Info("Execution client status changed")
}

// logEndpoint strips credentials from urls before logging them.
func logEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.User == nil {
		return endpoint
	}
	u.User = nil
	return u.String()
}
