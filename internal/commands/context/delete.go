package context

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/output"
)

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a context",
		ArgsUsage: "<context-name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: contextDeleteAction,
	}
}

func contextDeleteAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("context name required")
	}
	name := c.Args().Get(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, exists := cfg.Contexts[name]; !exists {
		return fmt.Errorf("context '%s' not found", name)
	}
	if name == cfg.CurrentContext {
		return fmt.Errorf("cannot delete the current context '%s': switch to another one first", name)
	}

	if !c.Bool("force") {
		confirmed, err := output.Confirm(fmt.Sprintf("Delete context '%s'?", name))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(c.App.Writer, "Aborted")
			return nil
		}
	}

	delete(cfg.Contexts, name)
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	logger.FromContext(c.Context).Info("Context deleted", zap.String("name", name))
	fmt.Fprintf(c.App.Writer, "Context '%s' deleted\n", name)
	return nil
}
