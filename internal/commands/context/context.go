package context

import (
	"github.com/urfave/cli/v2"
)

// Command returns the context command
func Command() *cli.Command {
	return &cli.Command{
		Name:  "context",
		Usage: "Manage named connection contexts",
		Subcommands: []*cli.Command{
			createCommand(),
			useCommand(),
			setCommand(),
			listCommand(),
			showCommand(),
			deleteCommand(),
		},
	}
}
