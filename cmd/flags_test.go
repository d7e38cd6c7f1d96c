package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestLoadFlagsFromConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("verbosity: debug\nlog-file: node.log\n"), 0600))

	var verbosity, logFile string
	app := cli.App{
		Flags: append(WrapFlags([]cli.Flag{VerbosityFlag, LogFileName}), ConfigFileFlag),
		Before: func(cliCtx *cli.Context) error {
			return LoadFlagsFromConfig(cliCtx, cliCtx.App.Flags)
		},
		Action: func(cliCtx *cli.Context) error {
			verbosity = cliCtx.String(VerbosityFlag.Name)
			logFile = cliCtx.String(LogFileName.Name)
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"test", "--config-file", configFile}))
	assert.Equal(t, "debug", verbosity)
	assert.Equal(t, "node.log", logFile)
}

func TestLoadFlagsFromConfig_CommandLineWins(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("verbosity: debug\n"), 0600))

	var verbosity string
	app := cli.App{
		Flags: append(WrapFlags([]cli.Flag{VerbosityFlag}), ConfigFileFlag),
		Before: func(cliCtx *cli.Context) error {
			return LoadFlagsFromConfig(cliCtx, cliCtx.App.Flags)
		},
		Action: func(cliCtx *cli.Context) error {
			verbosity = cliCtx.String(VerbosityFlag.Name)
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"test", "--config-file", configFile, "--verbosity", "warn"}))
	assert.Equal(t, "warn", verbosity)
}

func TestWrapFlags_Unsupported(t *testing.T) {
	assert.Panics(t, func() {
		WrapFlags([]cli.Flag{&cli.Float64SliceFlag{Name: "weights"}})
	})
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("HOME", "/home/operator")
	assert.Contains(t, DefaultDataDir(), "/home/operator")
}
