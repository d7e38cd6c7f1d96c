package params

import (
	"math"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// MainnetName is the name of the mainnet config.
	MainnetName = "mainnet"
	// MinimalName is the name of the minimal preset config.
	MinimalName = "minimal"
	// DevnetName is the name used for config files that do not declare one.
	DevnetName = "devnet"
)

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig.Copy()
}

var mainnetBeaconConfig = &BeaconChainConfig{
	// Constants (Non-configurable)
	FarFutureEpoch: math.MaxUint64,
	ZeroHash:       [32]byte{},

	PresetBase: MainnetName,
	ConfigName: MainnetName,

	// Time parameter constants.
	GenesisDelay:              604800, // 1 week.
	SecondsPerSlot:            12,
	SlotsPerEpoch:             32,
	EpochsPerHistoricalVector: 65536,

	// Fork related values.
	AltairForkEpoch:    74240,
	BellatrixForkEpoch: 144896,
	CapellaForkEpoch:   194048,

	// Bellatrix
	TerminalTotalDifficulty:          "58750000000000000000000",
	TerminalBlockHash:                [32]byte{},
	TerminalBlockHashActivationEpoch: 18446744073709551615,
	MaxExtraDataBytes:                32,
	DefaultFeeRecipient:              common.Address{},
	EthBurnAddressHex:                "0x0000000000000000000000000000000000000000",
	DefaultBuilderGasLimit:           uint64(30000000),
	ExecutionEngineTimeoutValue:      8, // 8 seconds default based on: https://github.com/ethereum/execution-apis/blob/main/src/engine/specification.md#core
	PayloadIDCacheSize:               64,
}
