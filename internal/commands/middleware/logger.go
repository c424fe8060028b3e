package middleware

import (
	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/logger"
)

// LoggerBeforeFunc initializes the logger and stores it in the context
func LoggerBeforeFunc(c *cli.Context) error {
	log := GetLogger(c)
	logger.SetDefault(log)
	c.Context = logger.WithLogger(c.Context, log)
	return nil
}

// GetLogger builds a logger on the app's error writer, so command output on
// the regular writer stays machine readable.
func GetLogger(c *cli.Context) logger.Logger {
	return logger.New(logger.Options{
		Verbose: c.Bool("verbose"),
		Writer:  c.App.ErrWriter,
		NoColor: c.Bool("no-color"),
	})
}
