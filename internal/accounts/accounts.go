// Package accounts lists the signer accounts of the active network.
package accounts

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/chain"
	"github.com/soulbond/warpets-deployer/internal/session"
	"github.com/soulbond/warpets-deployer/internal/ux"
)

type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Addresses derives the address of every configured key of network.
func Addresses(network configs.Network) ([]common.Address, error) {
	keys, err := session.Keys(network)
	if err != nil {
		return nil, err
	}

	addresses := make([]common.Address, 0, len(keys))
	for _, key := range keys {
		address, err := chain.AddressFromKey(key)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

// Print writes one address per line.
func Print(w io.Writer, addresses []common.Address) {
	for _, address := range addresses {
		fmt.Fprintln(w, address.Hex())
	}
}

// PrintBalances renders the addresses with their balances in ether.
func PrintBalances(ctx context.Context, w io.Writer, reader BalanceReader, addresses []common.Address) error {
	t := ux.DefaultTable(w, "accounts", table.Row{"Address", "Balance (ETH)"})
	for _, address := range addresses {
		balance, err := reader.BalanceAt(ctx, address, nil)
		if err != nil {
			return fmt.Errorf("failed to get balance of %s: %w", address.Hex(), err)
		}
		t.AppendRow(table.Row{address.Hex(), chain.FormatEther(balance)})
	}
	t.Render()
	return nil
}
