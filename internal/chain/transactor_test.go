package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbond/warpets-deployer/internal/chain/chaintest"
)

func TestKeyedTransactorTransfersValue(t *testing.T) {
	sim := chaintest.New(t)
	ctx := context.Background()

	transactor, err := NewKeyedTransactor(ctx, sim.Client, sim.Key, TxOptions{})
	require.NoError(t, err)
	assert.Equal(t, sim.Address, transactor.From())
	assert.Equal(t, int64(1337), transactor.ChainID().Int64())

	recipient := common.HexToAddress("0x5b60c4D406F95bE4DA2d9f6b45e459F9F98d5Db4")
	value := big.NewInt(params.Ether)

	receipt, err := transactor.Transact(ctx, recipient, value, nil)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, uint64(params.TxGas), receipt.GasUsed)

	balance, err := sim.Client.BalanceAt(ctx, recipient, nil)
	require.NoError(t, err)
	assert.Equal(t, value, balance)
}

func TestKeyedTransactorFixedGasPrice(t *testing.T) {
	sim := chaintest.New(t)
	ctx := context.Background()

	gasPrice, err := ParseGwei("40")
	require.NoError(t, err)

	transactor, err := NewKeyedTransactor(ctx, sim.Client, sim.Key, TxOptions{GasPrice: gasPrice})
	require.NoError(t, err)

	receipt, err := transactor.Transact(ctx, common.HexToAddress("0x01"), big.NewInt(1), nil)
	require.NoError(t, err)

	tx, _, err := sim.Client.TransactionByHash(ctx, receipt.TxHash)
	require.NoError(t, err)
	assert.Equal(t, gasPrice, tx.GasPrice())
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
}

func TestKeyedTransactorDecodesRevert(t *testing.T) {
	sim := chaintest.New(t)
	ctx := context.Background()

	payload := errorPayload(t, "Sender is not a token owner")
	target := sim.DeployRaw(t, chaintest.InitCode(chaintest.RevertingRuntime(payload)))

	transactor, err := NewKeyedTransactor(ctx, sim.Client, sim.Key, TxOptions{})
	require.NoError(t, err)

	_, err = transactor.Transact(ctx, target, nil, []byte{0x12, 0x34, 0x56, 0x78})
	require.Error(t, err)
	assert.True(t, IsRevertedWith(err, "Sender is not a token owner"))
}

func TestKeyedTransactorReceiptFailure(t *testing.T) {
	sim := chaintest.New(t)
	ctx := context.Background()

	target := sim.DeployRaw(t, chaintest.InitCode(chaintest.RevertingRuntime(errorPayload(t, "nope"))))

	// A fixed gas limit skips estimation, so the revert only shows in the receipt.
	transactor, err := NewKeyedTransactor(ctx, sim.Client, sim.Key, TxOptions{GasLimit: 100_000})
	require.NoError(t, err)

	receipt, err := transactor.Transact(ctx, target, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReceiptFailed))
	require.NotNil(t, receipt)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
}

func TestTransactOpts(t *testing.T) {
	sim := chaintest.New(t)
	ctx := context.Background()

	transactor, err := NewKeyedTransactor(ctx, sim.Client, sim.Key, TxOptions{GasLimit: 5_000_000})
	require.NoError(t, err)

	opts, err := transactor.WithOptions(TxOptions{GasPrice: big.NewInt(7)}).TransactOpts(ctx)
	require.NoError(t, err)
	assert.Equal(t, sim.Address, opts.From)
	assert.Equal(t, big.NewInt(7), opts.GasPrice)
	assert.Zero(t, opts.GasLimit)
}
