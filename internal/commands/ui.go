package commands

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/hooks"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/tui"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

func UICommand() *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Open the interactive debugger",
		Flags: append(sourceFlags(),
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Colour theme (dark, light, ocean); defaults to the context theme",
			},
		),
		Action: uiAction,
	}
}

func uiAction(c *cli.Context) error {
	// zap output would tear the full-screen UI; the execution log is shown
	// inside the program instead
	log := logger.NewNopLogger()

	store, err := middleware.GetStore(c)
	if err != nil {
		return err
	}

	// the UI stays usable offline; runs then fail with a log entry
	var ch dispatcher.Chain
	client, err := middleware.GetChain(c)
	if err != nil {
		middleware.GetLogger(c).Warn("Network client unavailable", zap.Error(err))
	} else {
		ch = client
	}

	theme := c.String("theme")
	if theme == "" {
		theme = config.DefaultTheme
		if current, err := middleware.CurrentContext(c); err == nil && current.Theme != "" {
			theme = current.Theme
		}
	}

	program := tui.New(tui.Options{
		Theme: theme,
		Store: store,
	})
	wb := workbench.New(ch, store, logsink.NewMemorySink(),
		workbench.WithLogger(log),
		workbench.WithStateObserver(program.ObserveState),
		workbench.WithOutcomeHook(hooks.DispatchMetrics(c.Context)),
	)

	if c.String("contract") != "" || c.String("abi") != "" {
		if err := loadSource(c, wb); err != nil {
			return err
		}
	} else if current, err := middleware.CurrentContext(c); err == nil && current.ContractAddress != "" {
		wb.SetAddress(current.ContractAddress)
	}

	return program.Run(c.Context, wb)
}
