package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is everything the deployer and transactors need from a node.
// Both *ethclient.Client and the simulated backend client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

const (
	defaultRPCAttempts = 120
	rpcPollInterval    = time.Second
)

// Dial connects to url and checks that the node answers.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	if _, err := client.ChainID(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID from %s: %w", url, err)
	}

	return client, nil
}

// WaitForRPC polls url until it serves eth_blockNumber. attempts <= 0 means
// the default of 120 one-second polls.
func WaitForRPC(ctx context.Context, url string, attempts int) error {
	if attempts <= 0 {
		attempts = defaultRPCAttempts
	}

	ticker := time.NewTicker(rpcPollInterval)
	defer ticker.Stop()

	for range attempts {
		if ready(ctx, url) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return fmt.Errorf("timed out waiting for RPC at %s", url)
}

func ready(ctx context.Context, url string) bool {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return false
	}
	defer client.Close()

	_, err = client.BlockNumber(ctx)
	return err == nil
}
