package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/hooks"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/output"
	"github.com/miaoxn/soliditytool/internal/storage"
	"github.com/miaoxn/soliditytool/internal/value"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

func CallCommand() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Call a function once: reads are queried, writes are sent and awaited",
		ArgsUsage: "<function-name-or-signature>",
		Flags: append(sourceFlags(),
			&cli.StringFlag{
				Name:  "args",
				Usage: `Arguments as a JSON array, e.g. '["0xabc...", "1000"]'`,
				Value: "[]",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Give up waiting after this long (0 waits indefinitely)",
			},
		),
		Action: callAction,
	}
}

func callAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("function name required")
	}
	c.Context = logger.WithFields(c.Context, zap.String("function", c.Args().Get(0)))
	log := logger.FromContext(c.Context)

	client, err := middleware.GetChain(c)
	if err != nil {
		return err
	}

	var store storage.ContractStore
	if c.String("contract") != "" {
		if store, err = middleware.GetStore(c); err != nil {
			return err
		}
	}

	sink := logsink.Mirror(logsink.NewMemorySink(), log)
	wb := workbench.New(client, store, sink,
		workbench.WithLogger(log),
		workbench.WithOutcomeHook(hooks.DispatchMetrics(c.Context)),
	)
	if err := loadSource(c, wb); err != nil {
		return err
	}
	// loading a saved record logs "Loaded"; the call output starts clean
	wb.ClearLogs()

	panel, err := wb.Panel(c.Args().Get(0))
	if err != nil {
		return err
	}

	args, err := value.ArgsFromJSON(panel.Function().InputTypes(), json.RawMessage(strings.TrimSpace(c.String("args"))))
	if err != nil {
		return fmt.Errorf("invalid --args: %w", err)
	}
	panel.SetArgs(args)

	ctx := c.Context
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	outcome, err := panel.Run(ctx)
	if err != nil {
		return err
	}

	if err := output.NewFormatterWithWriter(c.String("output"), c.App.Writer).PrintLog(sink.Entries()); err != nil {
		return err
	}
	if outcome.State == dispatcher.Failed {
		return outcome.Err
	}
	return nil
}
