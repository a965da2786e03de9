// Package devnet drives the development methods of hardhat and anvil nodes.
package devnet

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/soulbond/warpets-deployer/internal/logger"
)

// Client wraps the hardhat_* and evm_* RPC methods. anvil serves them under
// the same names.
type Client struct {
	rpc    *rpc.Client
	logger *slog.Logger
}

func NewClient(c *rpc.Client) *Client {
	return &Client{
		rpc:    c,
		logger: logger.Named("devnet"),
	}
}

func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return NewClient(c), nil
}

func (c *Client) RPC() *rpc.Client {
	return c.rpc
}

func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) ImpersonateAccount(ctx context.Context, account common.Address) error {
	if err := c.rpc.CallContext(ctx, nil, "hardhat_impersonateAccount", account); err != nil {
		return fmt.Errorf("failed to impersonate %s: %w", account.Hex(), err)
	}
	c.logger.With("account", account.Hex()).Debug("impersonating account")
	return nil
}

func (c *Client) StopImpersonatingAccount(ctx context.Context, account common.Address) error {
	if err := c.rpc.CallContext(ctx, nil, "hardhat_stopImpersonatingAccount", account); err != nil {
		return fmt.Errorf("failed to stop impersonating %s: %w", account.Hex(), err)
	}
	return nil
}

// SetBalance overwrites the balance of account with wei.
func (c *Client) SetBalance(ctx context.Context, account common.Address, wei *big.Int) error {
	if err := c.rpc.CallContext(ctx, nil, "hardhat_setBalance", account, hexutil.EncodeBig(wei)); err != nil {
		return fmt.Errorf("failed to set balance of %s: %w", account.Hex(), err)
	}
	return nil
}

// SetStorageAt writes the 32-byte value to slot of contract.
func (c *Client) SetStorageAt(ctx context.Context, contract common.Address, slot, value common.Hash) error {
	if err := c.rpc.CallContext(ctx, nil, "hardhat_setStorageAt", contract, slotQuantity(slot), value); err != nil {
		return fmt.Errorf("failed to set storage %s of %s: %w", slot.Hex(), contract.Hex(), err)
	}
	c.logger.With("contract", contract.Hex()).With("slot", slot.Hex()).With("value", value.Hex()).Debug("storage written")
	return nil
}

// GetStorageAt reads slot of contract at the latest block.
func (c *Client) GetStorageAt(ctx context.Context, contract common.Address, slot common.Hash) (common.Hash, error) {
	var result hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &result, "eth_getStorageAt", contract, slotQuantity(slot), "latest"); err != nil {
		return common.Hash{}, fmt.Errorf("failed to get storage %s of %s: %w", slot.Hex(), contract.Hex(), err)
	}
	return common.BytesToHash(result), nil
}

// Snapshot saves the chain state and returns its id for Revert.
func (c *Client) Snapshot(ctx context.Context) (string, error) {
	var id string
	if err := c.rpc.CallContext(ctx, &id, "evm_snapshot"); err != nil {
		return "", fmt.Errorf("failed to take snapshot: %w", err)
	}
	return id, nil
}

// Revert restores snapshot id. A snapshot can be reverted to only once.
func (c *Client) Revert(ctx context.Context, id string) error {
	var ok bool
	if err := c.rpc.CallContext(ctx, &ok, "evm_revert", id); err != nil {
		return fmt.Errorf("failed to revert to snapshot %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("snapshot %s does not exist", id)
	}
	return nil
}

func (c *Client) Mine(ctx context.Context) error {
	if err := c.rpc.CallContext(ctx, nil, "evm_mine"); err != nil {
		return fmt.Errorf("failed to mine block: %w", err)
	}
	return nil
}

// slotQuantity encodes a storage key without leading zeros, as hardhat
// rejects zero-padded quantities.
func slotQuantity(slot common.Hash) string {
	return hexutil.EncodeBig(slot.Big())
}
