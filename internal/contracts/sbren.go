package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Sbren is the SBREN ERC-721A collection.
type Sbren struct {
	boundContract
}

func NewSbren(address common.Address, caller Caller) (*Sbren, error) {
	bound, err := newBoundContract(ContractNameSbren, address, caller)
	if err != nil {
		return nil, err
	}
	return &Sbren{bound}, nil
}

func (s *Sbren) Address() common.Address {
	return s.address
}

// Connect returns a copy of s that sends transactions through t.
func (s *Sbren) Connect(t Transactor) *Sbren {
	cpy := *s
	cpy.transactor = t
	return &cpy
}

func (s *Sbren) Name(ctx context.Context) (string, error) {
	return single[string](s.call(ctx, common.Address{}, "name"))
}

func (s *Sbren) Symbol(ctx context.Context) (string, error) {
	return single[string](s.call(ctx, common.Address{}, "symbol"))
}

func (s *Sbren) TotalSupply(ctx context.Context) (*big.Int, error) {
	return single[*big.Int](s.call(ctx, common.Address{}, "totalSupply"))
}

func (s *Sbren) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return single[*big.Int](s.call(ctx, common.Address{}, "balanceOf", owner))
}

func (s *Sbren) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	return single[common.Address](s.call(ctx, common.Address{}, "ownerOf", tokenID))
}

func (s *Sbren) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	return single[*big.Int](s.call(ctx, common.Address{}, "tokenOfOwnerByIndex", owner, index))
}

// Pause sets the paused state; SBREN takes the state as an argument.
func (s *Sbren) Pause(ctx context.Context, state bool) (*types.Receipt, error) {
	return s.transact(ctx, nil, "pause", state)
}

func (s *Sbren) WhiteListUserArrayWithIdList1(ctx context.Context, users []common.Address) (*types.Receipt, error) {
	return s.transact(ctx, nil, "whiteListUserArrayWithIdList1", users)
}

func (s *Sbren) Mint(ctx context.Context, amount *big.Int, value *big.Int) (*types.Receipt, error) {
	return s.transact(ctx, value, "mint", amount)
}
