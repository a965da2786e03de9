package deployment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soulbond/warpets-deployer/internal/chain"
	"github.com/soulbond/warpets-deployer/internal/logger"
)

// Service runs deployment scripts and logs the deployer's balance around them.
type Service struct {
	deployer *Deployer
	logger   *slog.Logger
}

func NewService(deployer *Deployer) *Service {
	return &Service{
		deployer: deployer,
		logger:   logger.Named("deployment_service"),
	}
}

// Run executes script. Any failure aborts the sequence.
func (s *Service) Run(ctx context.Context, script Script) (Addresses, error) {
	log := s.logger.With("script", script.Name).With("account", s.deployer.Account().Hex())

	log.Info("deploying contracts with the account")
	if err := s.logBalance(ctx, log); err != nil {
		return nil, err
	}

	addresses, err := script.Run(ctx, s.deployer)
	if err != nil {
		log.With("err", err.Error()).Error("deployment script failed")
		return nil, fmt.Errorf("script %s failed: %w", script.Name, err)
	}

	for name, address := range addresses {
		log.With("contract", name).With("address", address.Hex()).Info("contract address")
	}

	if err := s.logBalance(ctx, log); err != nil {
		return nil, err
	}

	return addresses, nil
}

func (s *Service) logBalance(ctx context.Context, log *slog.Logger) error {
	balance, err := s.deployer.Backend().BalanceAt(ctx, s.deployer.Account(), nil)
	if err != nil {
		return fmt.Errorf("failed to get deployer balance: %w", err)
	}

	log.With("balance_wei", balance.String()).With("balance_eth", chain.FormatEther(balance)).Info("account balance")
	return nil
}
