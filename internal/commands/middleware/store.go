package middleware

import (
	"context"
	"fmt"
	"sync"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/storage"
	"github.com/miaoxn/soliditytool/internal/storage/badger"
	"github.com/miaoxn/soliditytool/internal/storage/memory"
)

type lazyStore struct {
	once  sync.Once
	store storage.ContractStore
	err   error
}

// StoreBeforeFunc registers the lazily opened contract store.
func StoreBeforeFunc(c *cli.Context) error {
	c.Context = context.WithValue(c.Context, config.StoreKey, &lazyStore{})
	return nil
}

// GetStore opens the saved-contract store: badger under the context's data
// directory, or an in-memory store with --ephemeral.
func GetStore(c *cli.Context) (storage.ContractStore, error) {
	ls, ok := c.Context.Value(config.StoreKey).(*lazyStore)
	if !ok || ls == nil {
		return nil, fmt.Errorf("contract store not initialized")
	}

	ls.once.Do(func() {
		ls.store, ls.err = openStore(c)
	})
	return ls.store, ls.err
}

func openStore(c *cli.Context) (storage.ContractStore, error) {
	log := GetLogger(c)

	if c.Bool("ephemeral") {
		log.Debug("Using in-memory contract store")
		return memory.NewInMemoryContractStore(), nil
	}

	dir := (&config.Context{}).DataDir()
	if current, err := CurrentContext(c); err == nil {
		dir = current.DataDir()
	}

	store, err := badger.NewBadgerContractStore(&badger.Config{Dir: dir})
	if err != nil {
		return nil, fmt.Errorf("failed to open contract store at %s: %w", dir, err)
	}
	log.Debug("Opened contract store", zap.String("dir", dir))
	return store, nil
}

// CleanupStore closes the store if it was opened
func CleanupStore(c *cli.Context) error {
	if ls, ok := c.Context.Value(config.StoreKey).(*lazyStore); ok && ls != nil && ls.store != nil {
		return ls.store.Close()
	}
	return nil
}
