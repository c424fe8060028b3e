package middleware

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/hooks"
	"github.com/miaoxn/soliditytool/internal/logger"
)

// ChainBeforeFuncs chains multiple BeforeFuncs together
func ChainBeforeFuncs(funcs ...cli.BeforeFunc) cli.BeforeFunc {
	return func(c *cli.Context) error {
		for _, fn := range funcs {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// ChainAfterFuncs runs every AfterFunc and returns the first error
func ChainAfterFuncs(funcs ...cli.AfterFunc) cli.AfterFunc {
	return func(c *cli.Context) error {
		var first error
		for _, fn := range funcs {
			if err := fn(c); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
}

// StandardMiddlewareChain returns the Before chain: logger first, then the
// configuration, the secrets file (before anything builds a signer), the
// lazy network and store handles and the command metrics context.
func StandardMiddlewareChain() cli.BeforeFunc {
	return ChainBeforeFuncs(
		LoggerBeforeFunc,
		ConfigBeforeFunc,
		SecretsBeforeFunc,
		ChainBeforeFunc,
		StoreBeforeFunc,
		hooks.WithCommandMetricsContext,
	)
}

// StandardCleanupChain releases what the Before chain opened.
func StandardCleanupChain() cli.AfterFunc {
	return ChainAfterFuncs(
		CleanupChain,
		CleanupStore,
	)
}

// ExitErrHandler logs a command failure once.
func ExitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}

	var log logger.Logger
	if c != nil && c.App != nil {
		log = GetLogger(c)
	} else {
		log = logger.Default()
	}

	if c != nil && c.Command != nil {
		log.Error("Command execution failed",
			zap.String("command", c.Command.Name),
			zap.Error(err))
		return
	}
	log.Error("Command execution failed", zap.Error(err))
}
