// Package params defines important constants that are essential to the beacon node services.
package params

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
)

// BeaconChainConfig contains constant configs for node to participate in beacon chain.
type BeaconChainConfig struct {
	// Constants (non-configurable)
	FarFutureEpoch primitives.Epoch `yaml:"FAR_FUTURE_EPOCH"` // FarFutureEpoch represents a epoch extremely far away in the future used as the default penalization epoch for validators.
	ZeroHash       [32]byte         // ZeroHash is used to represent a zeroed out 32 byte array.

	// Config identity.
	PresetBase string `yaml:"PRESET_BASE" spec:"true"` // PresetBase represents the underlying spec preset this config is based on.
	ConfigName string `yaml:"CONFIG_NAME" spec:"true"` // ConfigName for allowing an easy human-readable way of knowing what chain is being used.

	// Time parameters constants.
	GenesisDelay              uint64           `yaml:"GENESIS_DELAY" spec:"true"`                // GenesisDelay is the minimum number of seconds to delay starting the Ethereum Beacon Chain genesis. Must be at least 1 second.
	SecondsPerSlot            uint64           `yaml:"SECONDS_PER_SLOT" spec:"true"`             // SecondsPerSlot is how many seconds are in a single slot.
	SlotsPerEpoch             primitives.Slot  `yaml:"SLOTS_PER_EPOCH" spec:"true"`              // SlotsPerEpoch is the number of slots in an epoch.
	EpochsPerHistoricalVector primitives.Epoch `yaml:"EPOCHS_PER_HISTORICAL_VECTOR" spec:"true"` // EpochsPerHistoricalVector defines max length in epoch to store old historical stats in beacon state.

	// Fork schedule.
	AltairForkEpoch    primitives.Epoch `yaml:"ALTAIR_FORK_EPOCH" spec:"true"`    // AltairForkEpoch is used to represent the assigned fork epoch for altair.
	BellatrixForkEpoch primitives.Epoch `yaml:"BELLATRIX_FORK_EPOCH" spec:"true"` // BellatrixForkEpoch is used to represent the assigned fork epoch for bellatrix.
	CapellaForkEpoch   primitives.Epoch `yaml:"CAPELLA_FORK_EPOCH" spec:"true"`   // CapellaForkEpoch is used to represent the assigned fork epoch for capella.

	// Merge transition.
	TerminalTotalDifficulty          string           `yaml:"TERMINAL_TOTAL_DIFFICULTY" spec:"true"`            // TerminalTotalDifficulty is part of the experimental Bellatrix spec. This value is type is currently TBD.
	TerminalBlockHash                common.Hash      `yaml:"TERMINAL_BLOCK_HASH" spec:"true"`                  // TerminalBlockHash of beacon chain.
	TerminalBlockHashActivationEpoch primitives.Epoch `yaml:"TERMINAL_BLOCK_HASH_ACTIVATION_EPOCH" spec:"true"` // TerminalBlockHashActivationEpoch of beacon chain.

	// Execution payload production.
	MaxExtraDataBytes           uint64         `yaml:"MAX_EXTRA_DATA_BYTES" spec:"true"` // MaxExtraDataBytes is the maximum size of the extra data field of an execution payload.
	DefaultFeeRecipient         common.Address // DefaultFeeRecipient where the transaction fee goes to.
	EthBurnAddressHex           string         // EthBurnAddressHex is the constant eth address written in hex format to burn fees in that network. the default is 0x0
	DefaultBuilderGasLimit      uint64         // DefaultBuilderGasLimit is the default used to set the gaslimit for the Builder APIs, typically at around 30M wei.
	ExecutionEngineTimeoutValue uint64         // ExecutionEngineTimeoutValue defines the seconds to wait before timing out engine endpoints with execution payload execution semantics (newPayload, forkchoiceUpdated).
	PayloadIDCacheSize          int            // PayloadIDCacheSize bounds the number of in-flight payload build processes remembered per node.
}

// SlotDuration returns the configured slot length as a time.Duration.
func (b *BeaconChainConfig) SlotDuration() time.Duration {
	return time.Duration(b.SecondsPerSlot) * time.Second
}
