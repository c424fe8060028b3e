package contract

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/storage"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export saved contracts as a JSON array",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Output file (- for stdout)",
				Value:   "-",
			},
		},
		Action: contractExportAction,
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import saved contracts from a JSON array",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Input file (- for stdin)",
				Value:   "-",
			},
		},
		Action: contractImportAction,
	}
}

func contractExportAction(c *cli.Context) error {
	store, err := middleware.GetStore(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	if path == "-" {
		return storage.Export(c.Context, store, c.App.Writer)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := storage.Export(c.Context, store, f); err != nil {
		return err
	}
	logger.FromContext(c.Context).Info("Exported contracts", zap.String("file", path))
	return nil
}

func contractImportAction(c *cli.Context) error {
	store, err := middleware.GetStore(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	reader := c.App.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		reader = f
	}

	n, err := storage.Import(c.Context, store, reader)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Imported %d contracts\n", n)
	return nil
}
