package execution

import (
	"time"

	"github.com/prysmaticlabs/enginebridge/beacon-chain/db"
)

// Option for the execution service.
type Option func(s *Service) error

// WithHttpEndpoint parse http endpoint for the execution service to use.
func WithHttpEndpoint(endpointString string) Option {
	return func(s *Service) error {
		s.cfg.currHttpEndpoint = endpointString
		return nil
	}
}

// WithJwtSecret sets the shared secret used to authenticate with the execution client.
func WithJwtSecret(secret []byte) Option {
	return func(s *Service) error {
		s.cfg.jwtSecret = secret
		return nil
	}
}

// WithDatabase for the beacon chain database, used to look up proposer fee recipients.
func WithDatabase(database db.ReadOnlyDatabase) Option {
	return func(s *Service) error {
		s.cfg.beaconDB = database
		return nil
	}
}

// WithRPCClient uses an already connected rpc client instead of dialing the endpoint.
func WithRPCClient(client RPCClient) Option {
	return func(s *Service) error {
		s.rpcClient = client
		return nil
	}
}

// WithUpcheckInterval sets how often the execution client health is polled.
func WithUpcheckInterval(interval time.Duration) Option {
	return func(s *Service) error {
		s.cfg.upcheckInterval = interval
		return nil
	}
}

// WithPayloadIDCacheSize bounds the number of payload ids remembered between builds.
func WithPayloadIDCacheSize(size int) Option {
	return func(s *Service) error {
		s.cfg.payloadIDCacheSize = size
		return nil
	}
}
