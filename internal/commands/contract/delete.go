package contract

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/output"
)

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a saved contract",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: contractDeleteAction,
	}
}

func contractDeleteAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("contract id required")
	}
	id := c.Args().Get(0)

	store, err := middleware.GetStore(c)
	if err != nil {
		return err
	}

	record, err := store.GetContract(c.Context, id)
	if err != nil {
		return err
	}

	if !c.Bool("force") {
		confirmed, err := output.Confirm(fmt.Sprintf("Delete saved contract '%s' (%s)?", record.Name, record.Address))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(c.App.Writer, "Aborted")
			return nil
		}
	}

	if err := store.DeleteContract(c.Context, id); err != nil {
		return err
	}

	logger.FromContext(c.Context).Info("Contract deleted", zap.String("id", id), zap.String("name", record.Name))
	fmt.Fprintf(c.App.Writer, "Deleted: %s\n", record.Name)
	return nil
}
