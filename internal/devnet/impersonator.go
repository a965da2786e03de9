package devnet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/soulbond/warpets-deployer/internal/chain"
)

const (
	txTimeout           = time.Minute
	receiptPollInterval = 100 * time.Millisecond
)

type (
	// Impersonator sends unsigned transactions from an impersonated account.
	Impersonator struct {
		client *Client
		from   common.Address
	}

	sendTxArgs struct {
		From  common.Address `json:"from"`
		To    common.Address `json:"to"`
		Value *hexutil.Big   `json:"value,omitempty"`
		Data  hexutil.Bytes  `json:"data"`
	}
)

// Impersonate starts impersonating account and returns a transactor for it.
func (c *Client) Impersonate(ctx context.Context, account common.Address) (*Impersonator, error) {
	if err := c.ImpersonateAccount(ctx, account); err != nil {
		return nil, err
	}
	return &Impersonator{client: c, from: account}, nil
}

func (i *Impersonator) From() common.Address {
	return i.from
}

// Transact sends through eth_sendTransaction and waits for the receipt.
func (i *Impersonator) Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	args := sendTxArgs{From: i.from, To: to, Data: data}
	if value != nil {
		args.Value = (*hexutil.Big)(value)
	}

	var hash common.Hash
	if err := i.client.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", chain.DecodeRevert(err))
	}

	i.client.logger.With("from", i.from.Hex()).With("tx_hash", hash.Hex()).Debug("transaction sent")

	receipt, err := i.waitReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s (status %d)", chain.ErrReceiptFailed, hash.Hex(), receipt.Status)
	}

	return receipt, nil
}

func (i *Impersonator) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		if err := i.client.rpc.CallContext(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
			return nil, fmt.Errorf("failed to get receipt of %s: %w", hash.Hex(), err)
		}
		if receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to wait for transaction %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Stop ends the impersonation.
func (i *Impersonator) Stop(ctx context.Context) error {
	return i.client.StopImpersonatingAccount(ctx, i.from)
}
