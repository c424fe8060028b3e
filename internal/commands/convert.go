package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/units"
)

func ConvertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert amounts between ether and wei (18 decimals)",
		Subcommands: []*cli.Command{
			{
				Name:      "to-wei",
				Usage:     "Scale a decimal amount up to the smallest unit",
				ArgsUsage: "<amount>",
				Action:    convertAction(units.ToSmallestUnit),
			},
			{
				Name:      "to-eth",
				Usage:     "Scale an integer amount down to the display unit",
				ArgsUsage: "<amount>",
				Action:    convertAction(units.ToDisplayUnit),
			},
		},
	}
}

func convertAction(convert func(string) (string, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("exactly one amount required")
		}
		out, err := convert(c.Args().Get(0))
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, out)
		return nil
	}
}
