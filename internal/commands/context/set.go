package context

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/tui"
)

func setCommand() *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Set properties of the current context",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rpc-url",
				Usage: "Set the JSON-RPC endpoint",
			},
			&cli.Uint64Flag{
				Name:  "chain-id",
				Usage: "Set the expected chain id",
			},
			&cli.StringFlag{
				Name:  "contract-address",
				Usage: "Set the default target contract address",
			},
			&cli.StringFlag{
				Name:  "private-key",
				Usage: "Set a hex private key used to sign transactions",
			},
			&cli.StringFlag{
				Name:  "keystore",
				Usage: "Set the path of an encrypted keystore used to sign transactions",
			},
			&cli.BoolFlag{
				Name:  "clear-signer",
				Usage: "Remove the signer settings (read-only mode)",
			},
			&cli.StringFlag{
				Name:  "env-secrets-path",
				Usage: "Set the path to environment secrets file",
			},
			&cli.StringFlag{
				Name:  "storage-dir",
				Usage: "Set the directory holding saved contracts",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Set the interactive UI theme (dark, light, ocean)",
			},
		},
		Action: contextSetAction,
	}
}

func contextSetAction(c *cli.Context) error {
	log := logger.FromContext(c.Context)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, err := cfg.Current()
	if err != nil {
		return err
	}

	updated := false

	if url := c.String("rpc-url"); url != "" {
		ctx.RPCUrl = url
		updated = true
		log.Info("Updated RPC URL", zap.String("url", url))
	}

	if c.IsSet("chain-id") {
		ctx.ChainID = c.Uint64("chain-id")
		updated = true
		log.Info("Updated chain ID", zap.Uint64("chainId", ctx.ChainID))
	}

	if addr := c.String("contract-address"); addr != "" {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid contract address %q", addr)
		}
		ctx.ContractAddress = addr
		updated = true
		log.Info("Updated contract address", zap.String("address", addr))
	}

	if c.Bool("clear-signer") {
		ctx.Signer.PrivateKey = ""
		ctx.Signer.KeystorePath = ""
		updated = true
		log.Info("Cleared signer")
	}

	if key := c.String("private-key"); key != "" {
		ctx.Signer.PrivateKey = key
		ctx.Signer.KeystorePath = ""
		updated = true
		log.Info("Updated signer", zap.String("source", "private-key"))
	}

	if path := c.String("keystore"); path != "" {
		ctx.Signer.KeystorePath = path
		ctx.Signer.PrivateKey = ""
		updated = true
		log.Info("Updated signer", zap.String("source", "keystore"), zap.String("path", path))
	}

	if path := c.String("env-secrets-path"); path != "" {
		ctx.EnvSecretsPath = path
		updated = true
		log.Info("Updated env secrets path", zap.String("path", path))
	}

	if dir := c.String("storage-dir"); dir != "" {
		ctx.StorageDir = dir
		updated = true
		log.Info("Updated storage directory", zap.String("dir", dir))
	}

	if theme := c.String("theme"); theme != "" {
		if _, ok := tui.Themes[theme]; !ok {
			return fmt.Errorf("unknown theme %q", theme)
		}
		ctx.Theme = theme
		updated = true
		log.Info("Updated theme", zap.String("theme", theme))
	}

	if !updated {
		return fmt.Errorf("no values provided to update")
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Context '%s' updated\n", cfg.CurrentContext)
	return nil
}
