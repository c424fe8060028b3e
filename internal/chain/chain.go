// Package chain implements the dispatcher's network collaborator on top of
// go-ethereum.
package chain

import (
	"bytes"
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/signer"
	"github.com/miaoxn/soliditytool/internal/value"
)

// Backend is everything bound contracts and receipt polling need.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// EthereumChain encodes calls with the function's ABI and executes them
// against a node.
type EthereumChain struct {
	backend Backend
	chainID *big.Int
	signer  signer.Signer
	logger  logger.Logger
	closer  func()

	mu      sync.Mutex
	pending map[common.Hash]*types.Transaction
}

var _ dispatcher.Chain = (*EthereumChain)(nil)

// Dial connects to rpcURL and reads its chain id. s may be nil for a
// read-only session.
func Dial(ctx context.Context, rpcURL string, s signer.Signer, l logger.Logger) (*EthereumChain, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", rpcURL)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to read chain id")
	}

	c := New(client, chainID, s, l)
	c.closer = client.Close

	l.Debug("Connected to node",
		zap.String("rpcUrl", rpcURL),
		zap.String("chainId", chainID.String()),
	)
	return c, nil
}

// New wraps an existing backend.
func New(backend Backend, chainID *big.Int, s signer.Signer, l logger.Logger) *EthereumChain {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &EthereumChain{
		backend: backend,
		chainID: chainID,
		signer:  s,
		logger:  l,
		pending: make(map[common.Hash]*types.Transaction),
	}
}

func (c *EthereumChain) ChainID() string {
	return c.chainID.String()
}

func (c *EthereumChain) SignerAddress() (string, bool) {
	if c.signer == nil {
		return "", false
	}
	return c.signer.Address().Hex(), true
}

// Query runs an eth_call. A single output is returned bare; several come
// back as a list in declaration order.
func (c *EthereumChain) Query(ctx context.Context, address string, fn schema.Function, args []value.Node) (any, error) {
	bound, goArgs, err := c.bind(address, fn, args)
	if err != nil {
		return nil, err
	}

	opts := &bind.CallOpts{Context: ctx}
	if c.signer != nil {
		opts.From = c.signer.Address()
	}

	var results []interface{}
	if err := bound.Call(opts, &results, fn.Name, goArgs...); err != nil {
		if errors.Is(err, bind.ErrNoCode) {
			return nil, newError("query", "no contract code at "+address, err)
		}
		return nil, classify("query", err)
	}

	c.logger.Debug("Query returned",
		zap.String("function", fn.Name),
		zap.Int("outputs", len(results)),
	)
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// Submit signs and sends a transaction and returns its hash.
func (c *EthereumChain) Submit(ctx context.Context, address string, fn schema.Function, args []value.Node) (dispatcher.SubmissionHandle, error) {
	if c.signer == nil {
		return "", dispatcher.ErrNoSigner
	}
	bound, goArgs, err := c.bind(address, fn, args)
	if err != nil {
		return "", err
	}

	opts, err := c.signer.TransactOpts(ctx, c.chainID)
	if err != nil {
		return "", newError("submit", "signer unavailable", err)
	}

	tx, err := bound.Transact(opts, fn.Name, goArgs...)
	if err != nil {
		return "", classify("submit", err)
	}

	c.mu.Lock()
	c.pending[tx.Hash()] = tx
	c.mu.Unlock()

	c.logger.Info("Transaction submitted",
		zap.String("function", fn.Name),
		zap.String("txHash", tx.Hash().Hex()),
	)
	return dispatcher.SubmissionHandle(tx.Hash().Hex()), nil
}

// AwaitConfirmation blocks until the transaction is mined or ctx ends.
func (c *EthereumChain) AwaitConfirmation(ctx context.Context, handle dispatcher.SubmissionHandle) (*dispatcher.Confirmation, error) {
	hash := common.HexToHash(string(handle))

	c.mu.Lock()
	tx, ok := c.pending[hash]
	c.mu.Unlock()
	if !ok {
		return nil, newError("confirm", "unknown transaction "+string(handle), nil)
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, classify("confirm", err)
	}

	c.mu.Lock()
	delete(c.pending, hash)
	c.mu.Unlock()

	status := dispatcher.StatusSuccess
	if receipt.Status == types.ReceiptStatusFailed {
		status = dispatcher.StatusReverted
	}
	c.logger.Info("Transaction mined",
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.String("status", string(status)),
		zap.Uint64("gasUsed", receipt.GasUsed),
	)

	block := ""
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.String()
	}
	return &dispatcher.Confirmation{
		Status: status,
		Block:  block,
		Hash:   dispatcher.SubmissionHandle(receipt.TxHash.Hex()),
	}, nil
}

// Close releases the node connection when Dial opened it.
func (c *EthereumChain) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *EthereumChain) bind(address string, fn schema.Function, args []value.Node) (*bind.BoundContract, []interface{}, error) {
	if !common.IsHexAddress(address) {
		return nil, nil, newError("encode", "invalid contract address "+address, nil)
	}
	parsed, err := abi.JSON(bytes.NewReader(fn.Descriptor()))
	if err != nil {
		return nil, nil, newError("encode", "invalid function descriptor", err)
	}
	method, ok := parsed.Methods[fn.Name]
	if !ok {
		return nil, nil, newError("encode", "function "+fn.Name+" not found in descriptor", nil)
	}
	goArgs, err := encodeArgs(method.Inputs, args)
	if err != nil {
		return nil, nil, newError("encode", err.Error(), err)
	}

	addr := common.HexToAddress(address)
	return bind.NewBoundContract(addr, parsed, c.backend, c.backend, c.backend), goArgs, nil
}
