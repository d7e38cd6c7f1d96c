package node

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/cmd"
	"github.com/prysmaticlabs/enginebridge/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/enginebridge/config/params"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func configureChainConfig(cliCtx *cli.Context) error {
	if cliCtx.IsSet(cmd.ChainConfigFileFlag.Name) {
		chainConfigFileName := cliCtx.String(cmd.ChainConfigFileFlag.Name)
		if err := params.LoadChainConfigFile(chainConfigFileName, nil); err != nil {
			return err
		}
	}
	return nil
}

func configureExecutionSetting(cliCtx *cli.Context) error {
	if cliCtx.IsSet(flags.TerminalTotalDifficultyOverride.Name) {
		ttd := cliCtx.String(flags.TerminalTotalDifficultyOverride.Name)
		if _, err := uint256.FromDecimal(ttd); err != nil {
			return errors.Wrapf(err, "invalid terminal total difficulty %q", ttd)
		}
		c := params.BeaconConfig()
		c.TerminalTotalDifficulty = ttd
		params.OverrideBeaconConfig(c)
	}
	if cliCtx.IsSet(flags.TerminalBlockHashOverride.Name) {
		hash := cliCtx.String(flags.TerminalBlockHashOverride.Name)
		if b, err := hexutil.Decode(hash); err != nil || len(b) != common.HashLength {
			return errors.Errorf("invalid terminal block hash %q", hash)
		}
		c := params.BeaconConfig()
		c.TerminalBlockHash = common.HexToHash(hash)
		params.OverrideBeaconConfig(c)
	}
	if cliCtx.IsSet(flags.TerminalBlockHashActivationEpochOverride.Name) {
		c := params.BeaconConfig()
		c.TerminalBlockHashActivationEpoch = primitives.Epoch(cliCtx.Uint64(flags.TerminalBlockHashActivationEpochOverride.Name))
		params.OverrideBeaconConfig(c)
	}

	if !cliCtx.IsSet(flags.SuggestedFeeRecipient.Name) {
		return nil
	}
	recipient := cliCtx.String(flags.SuggestedFeeRecipient.Name)
	if !common.IsHexAddress(recipient) {
		return errors.Errorf("%s is not a valid fee recipient address", recipient)
	}
	mixedcaseAddress, err := common.NewMixedcaseAddressFromString(recipient)
	if err != nil {
		return errors.Wrapf(err, "could not decode fee recipient %s", recipient)
	}
	checksumAddress := common.HexToAddress(recipient)
	if !mixedcaseAddress.ValidChecksum() {
		log.WithFields(logrus.Fields{
			"userInput":    recipient,
			"checksumAddr": checksumAddress.Hex(),
		}).Warn("Fee recipient is not a checksum Ethereum address. " +
			"The checksummed address is shown here; make sure it is the intended one")
	}
	c := params.BeaconConfig()
	c.DefaultFeeRecipient = checksumAddress
	params.OverrideBeaconConfig(c)
	return nil
}
