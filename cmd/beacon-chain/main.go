// Package main is the entry point of the beacon node binary.
package main

import (
	"fmt"
	"os"

	"github.com/prysmaticlabs/enginebridge/beacon-chain/node"
	"github.com/prysmaticlabs/enginebridge/cmd"
	"github.com/prysmaticlabs/enginebridge/cmd/beacon-chain/flags"
	jwtcommands "github.com/prysmaticlabs/enginebridge/cmd/beacon-chain/jwt"
	"github.com/prysmaticlabs/enginebridge/monitoring/prometheus"
	"github.com/prysmaticlabs/enginebridge/runtime/logging"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

var log = logrus.WithField("prefix", "main")

var appFlags = []cli.Flag{
	cmd.DataDirFlag,
	cmd.VerbosityFlag,
	cmd.LogFormat,
	cmd.LogFileName,
	cmd.ClearDB,
	cmd.ForceClearDB,
	cmd.ChainConfigFileFlag,
	flags.ExecutionEngineEndpoint,
	flags.ExecutionJWTSecretFlag,
	flags.EngineUpcheckIntervalFlag,
	flags.TerminalTotalDifficultyOverride,
	flags.TerminalBlockHashOverride,
	flags.TerminalBlockHashActivationEpochOverride,
	flags.SuggestedFeeRecipient,
	flags.GenesisTimeFlag,
	flags.MaxBlockingTasksFlag,
	flags.BlockCacheSizeFlag,
	flags.MonitoringHostFlag,
	flags.MonitoringPortFlag,
	flags.DisableMonitoringFlag,
}

func init() {
	appFlags = append(cmd.WrapFlags(appFlags), cmd.ConfigFileFlag)
}

func main() {
	app := cli.App{
		Name:     "beacon-chain",
		Usage:    "this is a beacon chain implementation for Ethereum",
		Action:   startNode,
		Flags:    appFlags,
		Commands: []*cli.Command{jwtcommands.Commands},
		Before:   before,
	}

	defer func() {
		if x := recover(); x != nil {
			log.Errorf("Runtime panic: %v", x)
			panic(x)
		}
	}()

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func before(ctx *cli.Context) error {
	if err := cmd.LoadFlagsFromConfig(ctx, appFlags); err != nil {
		return fmt.Errorf("failed to load flags from config file: %w", err)
	}
	if err := logging.Configure(
		ctx.String(cmd.LogFormat.Name),
		ctx.String(cmd.VerbosityFlag.Name),
		ctx.String(cmd.LogFileName.Name),
	); err != nil {
		return err
	}
	if !ctx.Bool(flags.DisableMonitoringFlag.Name) {
		logrus.AddHook(prometheus.NewLogrusCollector())
	}
	return nil
}

func startNode(ctx *cli.Context) error {
	beacon, err := node.New(ctx)
	if err != nil {
		return err
	}
	beacon.Start()
	return nil
}
