package signer

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrivateKeySigner(t *testing.T) {
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	privateKeyHex := "0x" + common.Bytes2Hex(crypto.FromECDSA(privateKey))

	s, err := NewPrivateKeySigner(privateKeyHex)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(privateKey.PublicKey), s.Address())

	_, err = NewPrivateKeySigner("invalid-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse private key")
}

func TestPrivateKeySigner_TransactOpts(t *testing.T) {
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := newFromKey(privateKey)

	ctx := context.Background()
	opts, err := s.TransactOpts(ctx, big.NewInt(31337))
	require.NoError(t, err)
	assert.Equal(t, s.Address(), opts.From)
	assert.False(t, opts.NoSend)
	assert.Equal(t, ctx, opts.Context)
}

func TestNewKeystoreSigner(t *testing.T) {
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	key := &keystore.Key{
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}
	encrypted, err := keystore.EncryptKey(key, "hunter2", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "deployer.json")
	require.NoError(t, os.WriteFile(path, encrypted, 0600))

	s, err := NewKeystoreSigner(path, StaticPasswordProvider("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, key.Address, s.Address())

	_, err = NewKeystoreSigner(path, StaticPasswordProvider("wrong"))
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	t.Setenv(EnvPrivateKey, "")

	s, err := FromConfig(Config{}, StaticPasswordProvider(""))
	require.NoError(t, err)
	assert.Nil(t, s)

	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	t.Setenv(EnvPrivateKey, common.Bytes2Hex(crypto.FromECDSA(privateKey)))

	s, err = FromConfig(Config{}, StaticPasswordProvider(""))
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, crypto.PubkeyToAddress(privateKey.PublicKey), s.Address())
}

func TestCombinedPasswordProvider(t *testing.T) {
	t.Setenv(EnvKeystorePassword, "from-env")
	pwd, err := CombinedPasswordProvider{EnvironmentPasswordProvider{}, StaticPasswordProvider("static")}.GetPassword("k")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pwd)

	_, err = CombinedPasswordProvider{}.GetPassword("k")
	assert.Error(t, err)
}
