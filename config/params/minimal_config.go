package params

// MinimalSpecConfig retrieves the minimal preset, used by fast local tests.
func MinimalSpecConfig() *BeaconChainConfig {
	minimalConfig := mainnetBeaconConfig.Copy()
	minimalConfig.PresetBase = MinimalName
	minimalConfig.ConfigName = MinimalName

	// Time parameters
	minimalConfig.SecondsPerSlot = 6
	minimalConfig.SlotsPerEpoch = 8
	minimalConfig.EpochsPerHistoricalVector = 64
	minimalConfig.GenesisDelay = 300 // 5 minutes

	// Ethereum PoW parameters.
	minimalConfig.AltairForkEpoch = minimalConfig.FarFutureEpoch
	minimalConfig.BellatrixForkEpoch = minimalConfig.FarFutureEpoch
	minimalConfig.CapellaForkEpoch = minimalConfig.FarFutureEpoch
	minimalConfig.TerminalTotalDifficulty = "115792089237316195423570985008687907853269984665640564039457584007913129638912"
	minimalConfig.PayloadIDCacheSize = 8

	return minimalConfig
}
