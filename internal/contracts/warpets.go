package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SoulbondWarPets is the ERC-1155 war pet collection. Each war pet id is
// bound to one nation (an SBREN-like ERC-721) whose holders can claim it.
type SoulbondWarPets struct {
	boundContract
}

func NewSoulbondWarPets(address common.Address, caller Caller) (*SoulbondWarPets, error) {
	bound, err := newBoundContract(ContractNameSoulbondWarPets, address, caller)
	if err != nil {
		return nil, err
	}
	return &SoulbondWarPets{bound}, nil
}

func (w *SoulbondWarPets) Address() common.Address {
	return w.address
}

// Connect returns a copy of w that sends transactions through t.
func (w *SoulbondWarPets) Connect(t Transactor) *SoulbondWarPets {
	cpy := *w
	cpy.transactor = t
	return &cpy
}

func (w *SoulbondWarPets) Name(ctx context.Context) (string, error) {
	return single[string](w.call(ctx, common.Address{}, "name"))
}

func (w *SoulbondWarPets) URI(ctx context.Context, id *big.Int) (string, error) {
	return single[string](w.call(ctx, common.Address{}, "uri", id))
}

func (w *SoulbondWarPets) WarPetID(ctx context.Context) (*big.Int, error) {
	return single[*big.Int](w.call(ctx, common.Address{}, "warPetId"))
}

func (w *SoulbondWarPets) WarPetNation(ctx context.Context, warPetID *big.Int) (common.Address, error) {
	return single[common.Address](w.call(ctx, common.Address{}, "warPetNation", warPetID))
}

func (w *SoulbondWarPets) TokenURIs(ctx context.Context, warPetID *big.Int) (string, error) {
	return single[string](w.call(ctx, common.Address{}, "tokenURIs", warPetID))
}

func (w *SoulbondWarPets) TokenClaims(ctx context.Context, warPetID, tokenID *big.Int) (bool, error) {
	return single[bool](w.call(ctx, common.Address{}, "tokenClaims", warPetID, tokenID))
}

func (w *SoulbondWarPets) HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	return single[bool](w.call(ctx, common.Address{}, "hasRole", role, account))
}

func (w *SoulbondWarPets) Paused(ctx context.Context) (bool, error) {
	return single[bool](w.call(ctx, common.Address{}, "paused"))
}

func (w *SoulbondWarPets) Owner(ctx context.Context) (common.Address, error) {
	return single[common.Address](w.call(ctx, common.Address{}, "owner"))
}

func (w *SoulbondWarPets) BalanceOf(ctx context.Context, account common.Address, id *big.Int) (*big.Int, error) {
	return single[*big.Int](w.call(ctx, common.Address{}, "balanceOf", account, id))
}

// GetTokenIds lists the nation token ids held by owner.
func (w *SoulbondWarPets) GetTokenIds(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	return single[[]*big.Int](w.call(ctx, common.Address{}, "getTokenIds", owner))
}

// GetFilteredTokenIds lists the nation token ids held by owner whose claim
// state for the active war pet equals minted.
func (w *SoulbondWarPets) GetFilteredTokenIds(ctx context.Context, minted bool, owner common.Address) ([]*big.Int, error) {
	return single[[]*big.Int](w.call(ctx, common.Address{}, "getFilteredTokenIds", minted, owner))
}

func (w *SoulbondWarPets) Mint(ctx context.Context, tokenIDs []*big.Int) (*types.Receipt, error) {
	return w.transact(ctx, nil, "mint", nonNil(tokenIDs))
}

func (w *SoulbondWarPets) Pause(ctx context.Context) (*types.Receipt, error) {
	return w.transact(ctx, nil, "pause")
}

func (w *SoulbondWarPets) Unpause(ctx context.Context) (*types.Receipt, error) {
	return w.transact(ctx, nil, "unpause")
}

func (w *SoulbondWarPets) SwitchNation(ctx context.Context, nation common.Address, warPetID *big.Int) (*types.Receipt, error) {
	return w.transact(ctx, nil, "switchNation", nation, warPetID)
}

func (w *SoulbondWarPets) SetTokenURI(ctx context.Context, warPetID *big.Int, uri string) (*types.Receipt, error) {
	return w.transact(ctx, nil, "setTokenURI", warPetID, uri)
}

func (w *SoulbondWarPets) SafeTransferFrom(ctx context.Context, from, to common.Address, id, amount *big.Int, data []byte) (*types.Receipt, error) {
	if data == nil {
		data = []byte{}
	}
	return w.transact(ctx, nil, "safeTransferFrom", from, to, id, amount, data)
}

func nonNil(ids []*big.Int) []*big.Int {
	if ids == nil {
		return []*big.Int{}
	}
	return ids
}
