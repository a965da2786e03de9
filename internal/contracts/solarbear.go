package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SolarBear is the ERC-1155 companion claimable once per SBREN token.
// Its token id queries use the caller's address, so they take from.
type SolarBear struct {
	boundContract
}

func NewSolarBear(address common.Address, caller Caller) (*SolarBear, error) {
	bound, err := newBoundContract(ContractNameSolarBear, address, caller)
	if err != nil {
		return nil, err
	}
	return &SolarBear{bound}, nil
}

func (b *SolarBear) Address() common.Address {
	return b.address
}

// Connect returns a copy of b that sends transactions through t.
func (b *SolarBear) Connect(t Transactor) *SolarBear {
	cpy := *b
	cpy.transactor = t
	return &cpy
}

// Name is only available on deployments built with a name.
func (b *SolarBear) Name(ctx context.Context) (string, error) {
	return single[string](b.call(ctx, common.Address{}, "name"))
}

// SolarBearID is the SOLAR_BEAR token id.
func (b *SolarBear) SolarBearID(ctx context.Context) (*big.Int, error) {
	return single[*big.Int](b.call(ctx, common.Address{}, "SOLAR_BEAR"))
}

func (b *SolarBear) SbrenContract(ctx context.Context) (common.Address, error) {
	return single[common.Address](b.call(ctx, common.Address{}, "sbrenContract"))
}

func (b *SolarBear) URI(ctx context.Context, id *big.Int) (string, error) {
	return single[string](b.call(ctx, common.Address{}, "uri", id))
}

func (b *SolarBear) HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	return single[bool](b.call(ctx, common.Address{}, "hasRole", role, account))
}

func (b *SolarBear) Paused(ctx context.Context) (bool, error) {
	return single[bool](b.call(ctx, common.Address{}, "paused"))
}

func (b *SolarBear) BalanceOf(ctx context.Context, account common.Address, id *big.Int) (*big.Int, error) {
	return single[*big.Int](b.call(ctx, common.Address{}, "balanceOf", account, id))
}

func (b *SolarBear) GetTokenIds(ctx context.Context, from common.Address) ([]*big.Int, error) {
	return single[[]*big.Int](b.call(ctx, from, "getTokenIds"))
}

func (b *SolarBear) GetFilteredTokenIds(ctx context.Context, from common.Address, minted bool) ([]*big.Int, error) {
	return single[[]*big.Int](b.call(ctx, from, "getFilteredTokenIds", minted))
}

func (b *SolarBear) Mint(ctx context.Context, tokenIDs []*big.Int) (*types.Receipt, error) {
	return b.transact(ctx, nil, "mint", nonNil(tokenIDs))
}

func (b *SolarBear) SetURI(ctx context.Context, uri string) (*types.Receipt, error) {
	return b.transact(ctx, nil, "setURI", uri)
}

func (b *SolarBear) Pause(ctx context.Context) (*types.Receipt, error) {
	return b.transact(ctx, nil, "pause")
}

func (b *SolarBear) Unpause(ctx context.Context) (*types.Receipt, error) {
	return b.transact(ctx, nil, "unpause")
}
