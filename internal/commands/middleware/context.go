package middleware

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/config"
)

// ConfigBeforeFunc loads the configuration and the current context into
// the cli context. Global flags override the stored context for this run.
func ConfigBeforeFunc(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Context = context.WithValue(c.Context, config.ConfigKey, cfg)

	if cfg.CurrentContext == "" {
		return nil
	}
	stored, exists := cfg.Contexts[cfg.CurrentContext]
	if !exists {
		return fmt.Errorf("current context '%s' not found", cfg.CurrentContext)
	}

	// copy so overrides never reach SaveConfig
	current := *stored
	if url := c.String("rpc-url"); url != "" {
		current.RPCUrl = url
	}
	if key := c.String("private-key"); key != "" {
		current.Signer.PrivateKey = key
		current.Signer.KeystorePath = ""
	}
	c.Context = context.WithValue(c.Context, config.ContextKey, &current)
	return nil
}

// CurrentContext returns the context loaded by ConfigBeforeFunc.
func CurrentContext(c *cli.Context) (*config.Context, error) {
	current, ok := c.Context.Value(config.ContextKey).(*config.Context)
	if !ok || current == nil {
		return nil, fmt.Errorf("no context configured: run `soltool context create --name <name>`")
	}
	return current, nil
}
