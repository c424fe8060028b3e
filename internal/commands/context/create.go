package context

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/logger"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new context",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Name of the context",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "rpc-url",
				Usage: "JSON-RPC endpoint of the node",
				Value: config.DefaultRPCUrl,
			},
			&cli.BoolFlag{
				Name:  "use",
				Usage: "Set as current context",
				Value: true,
			},
		},
		Action: contextCreateAction,
	}
}

func contextCreateAction(c *cli.Context) error {
	log := logger.FromContext(c.Context)

	name := c.String("name")
	setCurrent := c.Bool("use")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, exists := cfg.Contexts[name]; exists {
		return fmt.Errorf("context '%s' already exists", name)
	}

	cfg.Contexts[name] = &config.Context{
		Name:   name,
		RPCUrl: c.String("rpc-url"),
		Theme:  config.DefaultTheme,
	}
	if setCurrent {
		cfg.CurrentContext = name
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	log.Info("Context created",
		zap.String("name", name),
		zap.Bool("current", setCurrent))

	fmt.Fprintf(c.App.Writer, "Context '%s' created successfully\n", name)
	if setCurrent {
		fmt.Fprintf(c.App.Writer, "Current context set to '%s'\n", name)
	}
	return nil
}
