package node

import (
	"io"

	"github.com/prysmaticlabs/enginebridge/beacon-chain/blockchain"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/execution"
)

// Option adjusts a BeaconNode before its services are registered.
type Option func(bn *BeaconNode) error

// WithBlockchainFlagOptions prepends opts to the options New passes to the blockchain service.
func WithBlockchainFlagOptions(opts []blockchain.Option) Option {
	return func(bn *BeaconNode) error {
		bn.serviceFlagOpts.blockchainFlagOpts = opts
		return nil
	}
}

// WithExecutionChainOptions replaces the options otherwise parsed from the execution flags.
func WithExecutionChainOptions(opts []execution.Option) Option {
	return func(bn *BeaconNode) error {
		bn.serviceFlagOpts.executionChainFlagOpts = opts
		return nil
	}
}

// WithPrompt redirects the --clear-db confirmation prompt.
func WithPrompt(in io.Reader, out io.Writer) Option {
	return func(bn *BeaconNode) error {
		bn.stdin, bn.stdout = in, out
		return nil
	}
}
