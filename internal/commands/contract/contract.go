package contract

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/output"
)

// Command returns the contract command
func Command() *cli.Command {
	return &cli.Command{
		Name:  "contract",
		Usage: "Manage saved contract interfaces",
		Subcommands: []*cli.Command{
			saveCommand(),
			listCommand(),
			showCommand(),
			deleteCommand(),
			noteCommand(),
			exportCommand(),
			importCommand(),
		},
	}
}

// readInput reads a file, or stdin when path is "-".
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

func printLog(c *cli.Context, sink logsink.Sink) error {
	return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).PrintLog(sink.Entries())
}
