package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "abi",
			Usage: "Path to the ABI JSON (- for stdin)",
		},
		&cli.StringFlag{
			Name:    "contract",
			Aliases: []string{"c"},
			Usage:   "Id of a saved contract to use instead of --abi",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "Target contract address (defaults to the saved or context address)",
		},
	}
}

// loadSource fills the workbench from --contract or --abi. An explicit
// --address wins over the saved and the context address.
func loadSource(c *cli.Context, wb *workbench.Workbench) error {
	address := c.String("address")

	switch {
	case c.String("contract") != "":
		if _, err := wb.Load(c.Context, c.String("contract")); err != nil {
			return err
		}
		if address != "" {
			return wb.Revise(address, wb.ABI())
		}
		return nil
	case c.String("abi") != "":
		abiText, err := readInput(c, c.String("abi"))
		if err != nil {
			return err
		}
		if address == "" {
			if current, err := middleware.CurrentContext(c); err == nil {
				address = current.ContractAddress
			}
		}
		return wb.Revise(address, string(abiText))
	default:
		return fmt.Errorf("either --abi or --contract is required")
	}
}

func readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.App.Reader)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
