// Package pets operates a deployed SoulbondWarPets contract.
package pets

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/logger"
)

type (
	Status struct {
		Address  common.Address
		Name     string
		WarPetID *big.Int
		Nation   common.Address
		TokenURI string
		Paused   bool
		Owner    common.Address
		// Operator reports whether the queried account holds OPERATOR_ROLE.
		Operator bool
	}

	Service struct {
		warPets *contracts.SoulbondWarPets
		logger  *slog.Logger
	}
)

// NewService operates warPets. State-changing calls need a connected binding.
func NewService(warPets *contracts.SoulbondWarPets) *Service {
	return &Service{
		warPets: warPets,
		logger:  logger.Named("pets").With("contract", warPets.Address().Hex()),
	}
}

// Status reads the active war pet and the nation and URI of warPetID.
// A nil warPetID means the active one.
func (s *Service) Status(ctx context.Context, warPetID *big.Int, account common.Address) (Status, error) {
	status := Status{Address: s.warPets.Address()}

	var err error
	if status.Name, err = s.warPets.Name(ctx); err != nil {
		return Status{}, err
	}
	if warPetID == nil {
		if warPetID, err = s.warPets.WarPetID(ctx); err != nil {
			return Status{}, err
		}
	}
	status.WarPetID = warPetID

	if status.Nation, err = s.warPets.WarPetNation(ctx, warPetID); err != nil {
		return Status{}, err
	}
	if status.TokenURI, err = s.warPets.TokenURIs(ctx, warPetID); err != nil {
		return Status{}, err
	}
	if status.Paused, err = s.warPets.Paused(ctx); err != nil {
		return Status{}, err
	}
	if status.Owner, err = s.warPets.Owner(ctx); err != nil {
		return Status{}, err
	}
	if account != (common.Address{}) {
		if status.Operator, err = s.warPets.HasRole(ctx, contracts.OperatorRole, account); err != nil {
			return Status{}, err
		}
	}

	return status, nil
}

func (s *Service) Pause(ctx context.Context) (*types.Receipt, error) {
	receipt, err := s.warPets.Pause(ctx)
	if err != nil {
		return receipt, err
	}
	s.logger.With("tx_hash", receipt.TxHash.Hex()).Info("contract paused")
	return receipt, nil
}

func (s *Service) Unpause(ctx context.Context) (*types.Receipt, error) {
	receipt, err := s.warPets.Unpause(ctx)
	if err != nil {
		return receipt, err
	}
	s.logger.With("tx_hash", receipt.TxHash.Hex()).Info("contract unpaused")
	return receipt, nil
}

// SwitchNation binds warPetID to nation and makes it the active war pet.
func (s *Service) SwitchNation(ctx context.Context, nation common.Address, warPetID *big.Int) (*types.Receipt, error) {
	if nation == (common.Address{}) {
		return nil, fmt.Errorf("nation address is required")
	}

	receipt, err := s.warPets.SwitchNation(ctx, nation, warPetID)
	if err != nil {
		return receipt, err
	}
	s.logger.With("nation", nation.Hex()).With("war_pet_id", warPetID).Info("nation switched")
	return receipt, nil
}

func (s *Service) SetTokenURI(ctx context.Context, warPetID *big.Int, uri string) (*types.Receipt, error) {
	receipt, err := s.warPets.SetTokenURI(ctx, warPetID, uri)
	if err != nil {
		return receipt, err
	}
	s.logger.With("war_pet_id", warPetID).With("uri", uri).Info("token URI set")
	return receipt, nil
}
