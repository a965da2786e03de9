// Package holdings lists the SBREN tokens of an account and their war pet
// claim state.
package holdings

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/logger"
)

const maxPrealloc = 1024

// Scanner walks SBREN ownership with view calls only.
type Scanner struct {
	sbren    *contracts.Sbren
	warPets  *contracts.SoulbondWarPets
	warPetID *big.Int
	logger   *slog.Logger
}

func NewScanner(sbren *contracts.Sbren, warPets *contracts.SoulbondWarPets, warPetID *big.Int) *Scanner {
	return &Scanner{
		sbren:    sbren,
		warPets:  warPets,
		warPetID: new(big.Int).Set(warPetID),
		logger:   logger.Named("holdings"),
	}
}

// TokenIDs returns the SBREN ids of owner in enumeration order.
func (s *Scanner) TokenIDs(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	balance, err := s.sbren.BalanceOf(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", owner.Hex(), err)
	}

	s.logger.With("owner", owner.Hex()).With("balance", balance).Debug("enumerating tokens")

	if !balance.IsInt64() {
		return nil, fmt.Errorf("balance %s of %s is out of range", balance, owner.Hex())
	}

	ids := make([]*big.Int, 0, min(balance.Int64(), maxPrealloc))
	for i := new(big.Int); i.Cmp(balance) < 0; i.Add(i, common.Big1) {
		id, err := s.sbren.TokenOfOwnerByIndex(ctx, owner, new(big.Int).Set(i))
		if err != nil {
			return nil, fmt.Errorf("failed to get token %s of %s: %w", i, owner.Hex(), err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// FilteredTokenIDs returns the ids of owner whose claim state for the
// scanner's war pet equals minted.
func (s *Scanner) FilteredTokenIDs(ctx context.Context, minted bool, owner common.Address) ([]*big.Int, error) {
	ids, err := s.TokenIDs(ctx, owner)
	if err != nil {
		return nil, err
	}

	filtered := make([]*big.Int, 0, len(ids))
	for _, id := range ids {
		claimed, err := s.warPets.TokenClaims(ctx, s.warPetID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get claim of token %s: %w", id, err)
		}
		if claimed == minted {
			filtered = append(filtered, id)
		}
	}

	return filtered, nil
}
