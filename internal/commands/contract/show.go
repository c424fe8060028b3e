package contract

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/output"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/storage"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a saved contract and its functions",
		ArgsUsage: "<id>",
		Action:    contractShowAction,
	}
}

func contractShowAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("contract id required")
	}

	store, err := middleware.GetStore(c)
	if err != nil {
		return err
	}

	record, err := store.GetContract(c.Context, c.Args().Get(0))
	if err != nil {
		return err
	}

	f := output.NewFormatterWithWriter(c.String("output"), c.App.Writer)
	rows := output.NewFunctionRows(schema.Parse(record.ABI), record.Notes)

	if c.String("output") != output.FormatTable && c.String("output") != "" {
		return f.Print(map[string]interface{}{
			"contract":  record,
			"functions": rows,
		})
	}

	if err := f.PrintContracts([]*storage.SavedContract{record}); err != nil {
		return err
	}
	return f.PrintFunctions(rows)
}
