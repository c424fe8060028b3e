package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/output"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/storage"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

func FunctionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "functions",
		Usage: "List the functions of a contract interface",
		Flags: append(sourceFlags(),
			&cli.BoolFlag{
				Name:  "read",
				Usage: "Only pure and view functions",
			},
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Only state changing functions",
			},
		),
		Action: functionsAction,
	}
}

func functionsAction(c *cli.Context) error {
	var store storage.ContractStore
	if c.String("contract") != "" {
		s, err := middleware.GetStore(c)
		if err != nil {
			return err
		}
		store = s
	}

	wb := workbench.New(nil, store, logsink.NewMemorySink(), workbench.WithLogger(logger.FromContext(c.Context)))
	if err := loadSource(c, wb); err != nil {
		return err
	}

	var fns []schema.Function
	switch {
	case c.Bool("read") && !c.Bool("write"):
		fns = wb.ReadFunctions()
	case c.Bool("write") && !c.Bool("read"):
		fns = wb.WriteFunctions()
	default:
		fns = wb.Functions()
	}

	rows := output.NewFunctionRows(fns, wb.Notes())
	return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).PrintFunctions(rows)
}
