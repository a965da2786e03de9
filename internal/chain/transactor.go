package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/soulbond/warpets-deployer/internal/logger"
)

const txTimeout = time.Minute

type (
	// TxOptions override gas settings. Zero values defer to the node.
	TxOptions struct {
		GasPrice *big.Int
		GasLimit uint64
	}

	// KeyedTransactor signs legacy transactions with a local private key.
	KeyedTransactor struct {
		backend Backend
		key     *ecdsa.PrivateKey
		from    common.Address
		chainID *big.Int
		opts    TxOptions
		logger  *slog.Logger
	}
)

// NewKeyedTransactor resolves the chain ID from backend.
func NewKeyedTransactor(ctx context.Context, backend Backend, key *ecdsa.PrivateKey, opts TxOptions) (*KeyedTransactor, error) {
	from, err := AddressFromKey(key)
	if err != nil {
		return nil, err
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &KeyedTransactor{
		backend: backend,
		key:     key,
		from:    from,
		chainID: chainID,
		opts:    opts,
		logger:  logger.Named("keyed_transactor").With("from", from.Hex()),
	}, nil
}

func (t *KeyedTransactor) From() common.Address {
	return t.from
}

func (t *KeyedTransactor) ChainID() *big.Int {
	return new(big.Int).Set(t.chainID)
}

func (t *KeyedTransactor) Backend() Backend {
	return t.backend
}

// WithOptions returns a copy of t using opts.
func (t *KeyedTransactor) WithOptions(opts TxOptions) *KeyedTransactor {
	cpy := *t
	cpy.opts = opts
	return &cpy
}

// TransactOpts builds bind options for contract deployment.
func (t *KeyedTransactor) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(t.key, t.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	auth.Context = ctx
	auth.GasPrice = t.opts.GasPrice
	auth.GasLimit = t.opts.GasLimit

	return auth, nil
}

// Transact signs and sends a call to `to` and waits until it is mined.
func (t *KeyedTransactor) Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	nonce, err := t.backend.PendingNonceAt(ctx, t.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending nonce: %w", err)
	}

	gasLimit := t.opts.GasLimit
	if gasLimit == 0 {
		gasLimit, err = t.backend.EstimateGas(ctx, ethereum.CallMsg{From: t.from, To: &to, Value: value, Data: data})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", DecodeRevert(err))
		}
	}

	gasPrice := t.opts.GasPrice
	if gasPrice == nil {
		if gasPrice, err = t.backend.SuggestGasPrice(ctx); err != nil {
			return nil, fmt.Errorf("failed to get gas price: %w", err)
		}
	}

	tx, err := types.SignTx(types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	}), types.LatestSignerForChainID(t.chainID), t.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := t.backend.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", DecodeRevert(err))
	}

	t.logger.With("tx_hash", tx.Hash().Hex()).With("to", to.Hex()).Debug("transaction sent")

	return WaitMined(ctx, t.backend, tx)
}

// WaitMined waits for tx and fails on a reverted receipt.
func WaitMined(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s (status %d)", ErrReceiptFailed, tx.Hash().Hex(), receipt.Status)
	}

	return receipt, nil
}
