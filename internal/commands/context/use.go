package context

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/output"
)

func useCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Switch to a different context",
		ArgsUsage: "[context-name]",
		Action:    contextUseAction,
	}
}

func contextUseAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("at most one context name expected")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	name := c.Args().Get(0)
	if name == "" {
		names := cfg.ContextNames()
		if len(names) == 0 {
			return fmt.Errorf("no contexts configured")
		}
		i, err := output.Select("Switch to context:", names)
		if err != nil {
			return err
		}
		name = names[i]
	}

	if _, exists := cfg.Contexts[name]; !exists {
		return fmt.Errorf("context '%s' not found", name)
	}

	cfg.CurrentContext = name
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	logger.FromContext(c.Context).Info("Switched context", zap.String("name", name))
	fmt.Fprintf(c.App.Writer, "Switched to context '%s'\n", name)
	return nil
}
