package context

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/logger"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List all contexts",
		Action: contextListAction,
	}
}

func contextListAction(c *cli.Context) error {
	log := logger.FromContext(c.Context)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Debug("Listing contexts", zap.Int("count", len(cfg.Contexts)))

	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"CURRENT", "NAME", "RPC URL", "CONTRACT ADDRESS", "SIGNER"})

	for _, name := range cfg.ContextNames() {
		ctx := cfg.Contexts[name]
		current := ""
		if name == cfg.CurrentContext {
			current = "*"
		}

		table.Append([]string{
			current,
			name,
			orDash(ctx.RPCUrl),
			orDash(ctx.ContractAddress),
			fmt.Sprint(ctx.ToMap()["signer"]),
		})
	}

	table.Render()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
