package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/version"
)

func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "soltool %s\n", version.GetFullVersion())
			return nil
		},
	}
}
