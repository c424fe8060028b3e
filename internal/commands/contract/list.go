package contract

import (
	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/output"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List saved contracts, most recent first",
		Action: contractListAction,
	}
}

func contractListAction(c *cli.Context) error {
	store, err := middleware.GetStore(c)
	if err != nil {
		return err
	}

	contracts, err := store.ListContracts(c.Context)
	if err != nil {
		return err
	}

	return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).PrintContracts(contracts)
}
