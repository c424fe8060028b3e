package contract

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/commands/middleware"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

func noteCommand() *cli.Command {
	return &cli.Command{
		Name:      "note",
		Usage:     "Attach a note to a function of a saved contract (empty text removes it)",
		ArgsUsage: "<id> <function> [text...]",
		Action:    contractNoteAction,
	}
}

func contractNoteAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("contract id and function name required")
	}
	id, fn := c.Args().Get(0), c.Args().Get(1)
	text := strings.Join(c.Args().Slice()[2:], " ")

	store, err := middleware.GetStore(c)
	if err != nil {
		return err
	}

	log := logger.FromContext(c.Context)
	wb := workbench.New(nil, store, logsink.NewMemorySink(), workbench.WithLogger(log))
	if _, err := wb.Load(c.Context, id); err != nil {
		return err
	}
	if _, err := wb.Panel(fn); err != nil {
		return err
	}

	if err := wb.SetNote(c.Context, fn, text); err != nil {
		return err
	}

	if text == "" {
		fmt.Fprintf(c.App.Writer, "Note removed from %s\n", fn)
	} else {
		fmt.Fprintf(c.App.Writer, "Note saved on %s\n", fn)
	}
	return nil
}
