package commands

import (
	"github.com/urfave/cli/v2"

	contextcmd "github.com/miaoxn/soliditytool/internal/commands/context"
	"github.com/miaoxn/soliditytool/internal/commands/contract"
	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	telemetrycmd "github.com/miaoxn/soliditytool/internal/commands/telemetry"
	"github.com/miaoxn/soliditytool/internal/hooks"
	"github.com/miaoxn/soliditytool/internal/version"
)

// App builds the soltool command line application.
func App() *cli.App {
	commands := []*cli.Command{
		contextcmd.Command(),
		contract.Command(),
		FunctionsCommand(),
		CallCommand(),
		ConvertCommand(),
		telemetrycmd.Command(),
		UICommand(),
		VersionCommand(),
	}

	actionChain := hooks.NewActionChain()
	actionChain.Use(hooks.WithMetricEmission)
	hooks.ApplyMiddleware(commands, actionChain)

	return &cli.App{
		Name:    "soltool",
		Usage:   "Inspect and call smart contracts from their ABI",
		Version: version.GetFullVersion(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured log output",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format (table, json, yaml)",
				Value:   "table",
			},
			&cli.StringFlag{
				Name:    "rpc-url",
				Usage:   "Override the RPC URL of the current context",
				EnvVars: []string{"SOLTOOL_RPC_URL"},
			},
			&cli.StringFlag{
				Name:  "private-key",
				Usage: "Override the signer of the current context with a hex private key",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep saved contracts in memory for this run only",
			},
		},
		Commands:       commands,
		Before:         middleware.StandardMiddlewareChain(),
		After:          middleware.StandardCleanupChain(),
		ExitErrHandler: middleware.ExitErrHandler,
	}
}
