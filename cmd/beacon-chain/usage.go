package main

import (
	"io"
	"slices"
	"strings"

	"github.com/prysmaticlabs/enginebridge/cmd"
	"github.com/prysmaticlabs/enginebridge/cmd/beacon-chain/flags"
	"github.com/urfave/cli/v2"
)

// helpTemplate prints flags grouped by concern rather than as one long list.
const helpTemplate = `NAME:
   {{.App.Name}} - {{.App.Usage}}
USAGE:
   {{.App.HelpName}} [options]{{if .App.Commands}} command [command options]{{end}}
{{- if .App.Commands}}

COMMANDS:
{{- range .App.Commands}}
   {{join .Names ", "}}{{"\t"}}{{.Usage}}
{{- end}}{{end}}
{{- range .Groups}}

{{.Name}} OPTIONS:
{{- range .Flags}}
   {{.}}
{{- end}}{{end}}
{{- if .App.Version}}

VERSION:
   {{.App.Version}}
{{- end}}
`

type usageGroup struct {
	Name  string
	Flags []cli.Flag
}

var usageGroups = []usageGroup{
	{"cmd", []cli.Flag{
		cmd.DataDirFlag,
		cmd.VerbosityFlag,
		cmd.LogFormat,
		cmd.LogFileName,
		cmd.ClearDB,
		cmd.ForceClearDB,
		cmd.ConfigFileFlag,
		cmd.ChainConfigFileFlag,
	}},
	{"beacon-chain", []cli.Flag{
		flags.GenesisTimeFlag,
		flags.MaxBlockingTasksFlag,
		flags.BlockCacheSizeFlag,
		flags.MonitoringHostFlag,
		flags.MonitoringPortFlag,
		flags.DisableMonitoringFlag,
	}},
	{"execution", []cli.Flag{
		flags.ExecutionEngineEndpoint,
		flags.ExecutionJWTSecretFlag,
		flags.EngineUpcheckIntervalFlag,
		flags.SuggestedFeeRecipient,
	}},
	{"merge", []cli.Flag{
		flags.TerminalTotalDifficultyOverride,
		flags.TerminalBlockHashOverride,
		flags.TerminalBlockHashActivationEpochOverride,
	}},
}

func sortedUsageGroups() []usageGroup {
	out := make([]usageGroup, len(usageGroups))
	for i, g := range usageGroups {
		fs := slices.Clone(g.Flags)
		slices.SortFunc(fs, func(a, b cli.Flag) int {
			return strings.Compare(a.Names()[0], b.Names()[0])
		})
		out[i] = usageGroup{Name: g.Name, Flags: fs}
	}
	return out
}

func init() {
	cli.AppHelpTemplate = helpTemplate

	printHelp := cli.HelpPrinter
	cli.HelpPrinter = func(w io.Writer, tmpl string, data interface{}) {
		if tmpl != helpTemplate {
			printHelp(w, tmpl, data)
			return
		}
		printHelp(w, tmpl, struct {
			App    interface{}
			Groups []usageGroup
		}{data, sortedUsageGroups()})
	}
}
