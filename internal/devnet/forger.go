package devnet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Forger fabricates SBREN holdings by writing ERC721A storage directly.
type Forger struct {
	client *Client
}

func NewForger(client *Client) *Forger {
	return &Forger{client: client}
}

// ForgeTokenOwnership makes owner the holder of tokenID on contract since ts.
func (f *Forger) ForgeTokenOwnership(ctx context.Context, contract common.Address, tokenID *big.Int, owner common.Address, ts time.Time) error {
	slot := OwnershipSlot(tokenID, OwnershipsSlotIndex)
	value := PackOwnership(uint64(ts.Unix()), owner)

	if err := f.client.SetStorageAt(ctx, contract, slot, value); err != nil {
		return fmt.Errorf("failed to forge ownership of token %s: %w", tokenID, err)
	}

	f.client.logger.With("token_id", tokenID).With("owner", owner.Hex()).Info("token ownership forged")
	return nil
}

// ForgeAddressDataBalance sets the ERC721A balance of owner, keeping its
// minted count.
func (f *Forger) ForgeAddressDataBalance(ctx context.Context, contract, owner common.Address, balance *big.Int) error {
	if balance.Sign() < 0 || balance.BitLen() > 128 {
		return fmt.Errorf("balance %s does not fit in uint128", balance)
	}

	slot := AddressDataSlot(owner, AddressDataSlotIndex)
	current, err := f.client.GetStorageAt(ctx, contract, slot)
	if err != nil {
		return err
	}

	if err := f.client.SetStorageAt(ctx, contract, slot, PackAddressData(current, balance)); err != nil {
		return fmt.Errorf("failed to forge balance of %s: %w", owner.Hex(), err)
	}

	f.client.logger.With("owner", owner.Hex()).With("balance", balance).Info("address balance forged")
	return nil
}
