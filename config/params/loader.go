package params

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// UnmarshalConfig decodes a chain config yaml document on top of the preset it declares.
// Documents without a PRESET_BASE of minimal start from the mainnet config.
func UnmarshalConfig(yamlFile []byte, conf *BeaconChainConfig) (*BeaconChainConfig, error) {
	// To track if config name is defined inside config file.
	hasConfigName := false
	lines := strings.Split(string(yamlFile), "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "CONFIG_NAME") {
			hasConfigName = true
		}
		if conf == nil && isMinimalPresetLine(line) {
			conf = MinimalSpecConfig()
		}
	}
	if conf == nil {
		// Default to using mainnet.
		conf = MainnetConfig()
	}
	if err := yaml.UnmarshalStrict(yamlFile, conf); err != nil {
		if _, ok := err.(*yaml.TypeError); !ok {
			return nil, errors.Wrap(err, "failed to parse chain config yaml")
		}
		log.WithError(err).Error("There were some issues parsing the config from a yaml file")
	}
	if !hasConfigName {
		conf.ConfigName = DevnetName
	}
	log.Debugf("Config file values: %+v", conf)
	return conf, nil
}

func isMinimalPresetLine(line string) bool {
	return strings.HasPrefix(line, "PRESET_BASE: 'minimal'") ||
		strings.HasPrefix(line, `PRESET_BASE: "minimal"`) ||
		strings.HasPrefix(line, "PRESET_BASE: minimal") ||
		strings.HasPrefix(line, "# Minimal preset")
}

// LoadChainConfigFile load, convert hex values into valid param yaml format,
// unmarshal, and apply beacon chain config file.
func LoadChainConfigFile(configFilePath string, conf *BeaconChainConfig) error {
	yamlFile, err := os.ReadFile(configFilePath) // #nosec G304
	if err != nil {
		return errors.Wrap(err, "failed to read chain config file")
	}
	conf, err = UnmarshalConfig(yamlFile, conf)
	if err != nil {
		return err
	}
	OverrideBeaconConfig(conf)
	return nil
}

// ConfigToYaml takes a provided config and outputs its contents
// in yaml. This allows custom configs to be read by other clients.
func ConfigToYaml(cfg *BeaconChainConfig) []byte {
	lines := []string{}
	lines = append(lines, fmt.Sprintf("PRESET_BASE: '%s'", cfg.PresetBase))
	lines = append(lines, fmt.Sprintf("CONFIG_NAME: '%s'", cfg.ConfigName))
	lines = append(lines, fmt.Sprintf("GENESIS_DELAY: %d", cfg.GenesisDelay))
	lines = append(lines, fmt.Sprintf("SECONDS_PER_SLOT: %d", cfg.SecondsPerSlot))
	lines = append(lines, fmt.Sprintf("SLOTS_PER_EPOCH: %d", cfg.SlotsPerEpoch))
	lines = append(lines, fmt.Sprintf("EPOCHS_PER_HISTORICAL_VECTOR: %d", cfg.EpochsPerHistoricalVector))
	lines = append(lines, fmt.Sprintf("ALTAIR_FORK_EPOCH: %d", cfg.AltairForkEpoch))
	lines = append(lines, fmt.Sprintf("BELLATRIX_FORK_EPOCH: %d", cfg.BellatrixForkEpoch))
	lines = append(lines, fmt.Sprintf("CAPELLA_FORK_EPOCH: %d", cfg.CapellaForkEpoch))
	lines = append(lines, fmt.Sprintf("TERMINAL_TOTAL_DIFFICULTY: %s", cfg.TerminalTotalDifficulty))
	lines = append(lines, fmt.Sprintf("TERMINAL_BLOCK_HASH: '%s'", cfg.TerminalBlockHash.Hex()))
	lines = append(lines, fmt.Sprintf("TERMINAL_BLOCK_HASH_ACTIVATION_EPOCH: %d", cfg.TerminalBlockHashActivationEpoch))
	lines = append(lines, fmt.Sprintf("MAX_EXTRA_DATA_BYTES: %d", cfg.MaxExtraDataBytes))

	yamlFile := []byte(strings.Join(lines, "\n"))
	return yamlFile
}
