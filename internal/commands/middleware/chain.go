package middleware

import (
	"context"
	"fmt"
	"sync"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/chain"
	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/signer"
)

// lazyChain dials the node on first use so commands that never touch the
// network do not need a reachable RPC endpoint.
type lazyChain struct {
	once   sync.Once
	client *chain.EthereumChain
	err    error
}

// ChainBeforeFunc registers the lazily dialed chain client.
func ChainBeforeFunc(c *cli.Context) error {
	c.Context = context.WithValue(c.Context, config.ChainKey, &lazyChain{})
	return nil
}

// GetChain dials the node of the current context, building the signer from
// the context's signer settings. Without a signer the client is read-only.
func GetChain(c *cli.Context) (*chain.EthereumChain, error) {
	lc, ok := c.Context.Value(config.ChainKey).(*lazyChain)
	if !ok || lc == nil {
		return nil, fmt.Errorf("chain client not initialized")
	}

	lc.once.Do(func() {
		lc.client, lc.err = dialChain(c)
	})
	return lc.client, lc.err
}

func dialChain(c *cli.Context) (*chain.EthereumChain, error) {
	log := GetLogger(c)

	current, err := CurrentContext(c)
	if err != nil {
		return nil, err
	}
	if current.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured: run `soltool context set --rpc-url <url>`")
	}

	s, err := signer.FromConfig(current.Signer, signer.DefaultPasswordProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to load signer: %w", err)
	}

	client, err := chain.Dial(c.Context, current.RPCUrl, s, log.Named("chain"))
	if err != nil {
		return nil, err
	}

	signerAddr, hasSigner := client.SignerAddress()
	log.Debug("Chain client initialized",
		zap.String("rpcUrl", current.RPCUrl),
		zap.String("chainId", client.ChainID()),
		zap.Bool("hasSigner", hasSigner),
		zap.String("signer", signerAddr),
	)
	if current.ChainID != 0 && fmt.Sprint(current.ChainID) != client.ChainID() {
		log.Warn("Node chain id differs from context",
			zap.Uint64("context", current.ChainID),
			zap.String("node", client.ChainID()))
	}
	return client, nil
}

// CleanupChain closes the chain client if it was dialed
func CleanupChain(c *cli.Context) error {
	if lc, ok := c.Context.Value(config.ChainKey).(*lazyChain); ok && lc != nil && lc.client != nil {
		lc.client.Close()
	}
	return nil
}
