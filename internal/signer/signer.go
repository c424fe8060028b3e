// Package signer provides the identities that sign write transactions.
package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// EnvPrivateKey holds a hex private key, read when the context has none.
	EnvPrivateKey = "PRIVATE_KEY"
	// EnvKeystorePassword unlocks a keystore without prompting.
	EnvKeystorePassword = "KEYSTORE_PASSWORD"
)

// Signer is an identity able to authorise transactions.
type Signer interface {
	Address() common.Address
	TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}

// PrivateKeySigner signs with an in-memory ECDSA key.
type PrivateKeySigner struct {
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
}

// NewPrivateKeySigner parses a hex private key, with or without 0x.
func NewPrivateKeySigner(privateKeyHex string) (*PrivateKeySigner, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return newFromKey(privateKey), nil
}

func newFromKey(privateKey *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{
		privateKey:  privateKey,
		fromAddress: crypto.PubkeyToAddress(privateKey.PublicKey),
	}
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.fromAddress
}

// TransactOpts returns options that sign for chainID and send immediately.
func (s *PrivateKeySigner) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// NewKeystoreSigner decrypts a go-ethereum keystore file.
func NewKeystoreSigner(keystorePath string, passwords PasswordProvider) (*PrivateKeySigner, error) {
	keystorePath = filepath.Clean(keystorePath)

	contents, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore at %s: %w", keystorePath, err)
	}

	password, err := passwords.GetPassword(filepath.Base(keystorePath))
	if err != nil {
		return nil, err
	}

	key, err := keystore.DecryptKey(contents, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	return newFromKey(key.PrivateKey), nil
}

// Config selects where the signing key comes from.
type Config struct {
	PrivateKey   string `yaml:"privateKey,omitempty"`
	KeystorePath string `yaml:"keystorePath,omitempty"`
}

// FromConfig builds the configured signer. The keystore wins over a private
// key; with neither, the PRIVATE_KEY environment variable is tried. A nil
// Signer with a nil error means read-only mode.
func FromConfig(cfg Config, passwords PasswordProvider) (Signer, error) {
	var (
		s   *PrivateKeySigner
		err error
	)
	switch {
	case cfg.KeystorePath != "":
		s, err = NewKeystoreSigner(expandHome(cfg.KeystorePath), passwords)
	case cfg.PrivateKey != "":
		s, err = NewPrivateKeySigner(cfg.PrivateKey)
	case os.Getenv(EnvPrivateKey) != "":
		s, err = NewPrivateKeySigner(os.Getenv(EnvPrivateKey))
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
