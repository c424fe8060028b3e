package contract

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

func saveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save a contract interface, or update a saved one with --id",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Update the saved record with this id",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Display name",
				Value: workbench.DefaultName,
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "Contract address (defaults to the context's contract address)",
			},
			&cli.StringFlag{
				Name:     "abi",
				Usage:    "Path to the ABI JSON (- for stdin)",
				Required: true,
			},
		},
		Action: contractSaveAction,
	}
}

func contractSaveAction(c *cli.Context) error {
	log := logger.FromContext(c.Context)

	store, err := middleware.GetStore(c)
	if err != nil {
		return err
	}

	abiText, err := readInput(c, c.String("abi"))
	if err != nil {
		return err
	}

	address := c.String("address")
	if address == "" {
		if current, err := middleware.CurrentContext(c); err == nil {
			address = current.ContractAddress
		}
	}

	// the network id is recorded when the node is reachable
	var ch dispatcher.Chain
	if client, err := middleware.GetChain(c); err == nil {
		ch = client
	} else {
		log.Debug("Saving without network id", zap.Error(err))
	}

	sink := logsink.Mirror(logsink.NewMemorySink(), log)
	wb := workbench.New(ch, store, sink, workbench.WithLogger(log))

	if id := c.String("id"); id != "" {
		if _, err := wb.Load(c.Context, id); err != nil {
			return err
		}
		sink.Clear()
	}

	name := c.String("name")
	if c.String("id") != "" && !c.IsSet("name") {
		name = wb.Name()
	}
	wb.SetName(name)
	if err := wb.Revise(address, string(abiText)); err != nil {
		return err
	}

	record, err := wb.Save(c.Context)
	if err != nil {
		_ = printLog(c, sink)
		return err
	}
	if err := printLog(c, sink); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "ID: %s\n", record.ID)
	return nil
}
