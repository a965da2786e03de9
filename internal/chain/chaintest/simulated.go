// Package chaintest provides an in-memory chain for package tests.
package chaintest

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

const commitInterval = 50 * time.Millisecond

// Chain is a simulated backend that seals a block every 50ms so callers
// waiting for receipts make progress.
type Chain struct {
	Backend *simulated.Backend
	Client  simulated.Client
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// New starts a chain with one account funded with 1000 ether.
func New(t testing.TB, funded ...common.Address) *Chain {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(params.Ether))
	alloc := types.GenesisAlloc{address: {Balance: balance}}
	for _, addr := range funded {
		alloc[addr] = types.Account{Balance: balance}
	}

	backend := simulated.NewBackend(alloc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(commitInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = backend.Close()
	})

	return &Chain{
		Backend: backend,
		Client:  backend.Client(),
		Key:     key,
		Address: address,
	}
}

// DeployRaw sends a contract creation with initCode and returns the address.
func (c *Chain) DeployRaw(t testing.TB, initCode []byte) common.Address {
	t.Helper()
	ctx := context.Background()

	nonce, err := c.Client.PendingNonceAt(ctx, c.Address)
	require.NoError(t, err)
	chainID, err := c.Client.ChainID(ctx)
	require.NoError(t, err)
	gasPrice, err := c.Client.SuggestGasPrice(ctx)
	require.NoError(t, err)

	tx, err := types.SignTx(
		types.NewContractCreation(nonce, big.NewInt(0), 1_000_000, gasPrice, initCode),
		types.LatestSignerForChainID(chainID),
		c.Key,
	)
	require.NoError(t, err)
	require.NoError(t, c.Client.SendTransaction(ctx, tx))

	var receipt *types.Receipt
	require.Eventually(t, func() bool {
		receipt, err = c.Client.TransactionReceipt(ctx, tx.Hash())
		return err == nil && receipt != nil
	}, 10*time.Second, commitInterval)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	return receipt.ContractAddress
}

// InitCode wraps runtime in constructor code that returns it.
func InitCode(runtime []byte) []byte {
	size := byte(len(runtime))
	// PUSH1 size PUSH1 12 PUSH1 0 CODECOPY PUSH1 size PUSH1 0 RETURN
	prefix := []byte{0x60, size, 0x60, 0x0c, 0x60, 0x00, 0x39, 0x60, size, 0x60, 0x00, 0xf3}
	return append(prefix, runtime...)
}

// RevertingRuntime is code that reverts every call with payload.
func RevertingRuntime(payload []byte) []byte {
	size := byte(len(payload))
	// PUSH1 size PUSH1 12 PUSH1 0 CODECOPY PUSH1 size PUSH1 0 REVERT
	prefix := []byte{0x60, size, 0x60, 0x0c, 0x60, 0x00, 0x39, 0x60, size, 0x60, 0x00, 0xfd}
	return append(prefix, payload...)
}

// StopRuntime is a single STOP opcode: any call succeeds and returns nothing.
func StopRuntime() []byte {
	return []byte{0x00}
}
