// Package session opens the active network for CLI commands.
package session

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/chain"
	"github.com/soulbond/warpets-deployer/internal/logger"
)

var ErrNoAccounts = errors.New("no private keys configured for network")

type Session struct {
	Name    configs.NetworkName
	Network configs.Network
	Client  *ethclient.Client
	ChainID *big.Int
	Keys    []*ecdsa.PrivateKey
	logger  *slog.Logger
}

// Keys parses the private keys of network.
func Keys(network configs.Network) ([]*ecdsa.PrivateKey, error) {
	keys := make([]*ecdsa.PrivateKey, 0, len(network.PrivateKeys))
	for i, raw := range network.PrivateKeys {
		key, err := chain.ParsePrivateKey(raw)
		if err != nil {
			return nil, fmt.Errorf("private key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Open dials the active network of cfg and parses its keys.
func Open(ctx context.Context, cfg *configs.Config) (*Session, error) {
	network, err := cfg.ActiveNetwork()
	if err != nil {
		return nil, err
	}

	keys, err := Keys(network)
	if err != nil {
		return nil, fmt.Errorf("network %s: %w", cfg.Network, err)
	}

	log := logger.Named("session").With("network", cfg.Network).With("url", network.URL)
	log.Debug("dialing the network RPC")

	client, err := chain.Dial(ctx, network.URL)
	if err != nil {
		return nil, err
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if network.ChainID != 0 && chainID.Int64() != int64(network.ChainID) {
		log.With("configured", network.ChainID).With("actual", chainID).Warn("chain ID differs from configuration")
	}

	log.With("chain_id", chainID).Debug("connected")

	return &Session{
		Name:    cfg.Network,
		Network: network,
		Client:  client,
		ChainID: chainID,
		Keys:    keys,
		logger:  log,
	}, nil
}

// Transactor signs with the first configured key.
func (s *Session) Transactor(ctx context.Context, opts chain.TxOptions) (*chain.KeyedTransactor, error) {
	if len(s.Keys) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoAccounts, s.Name)
	}
	return chain.NewKeyedTransactor(ctx, s.Client, s.Keys[0], opts)
}

func (s *Session) Close() {
	s.Client.Close()
}

// TxOptions converts the deployment gas settings.
func TxOptions(cfg configs.Deployment) (chain.TxOptions, error) {
	gasPrice, err := chain.ParseGwei(cfg.GasPriceGwei)
	if err != nil {
		return chain.TxOptions{}, fmt.Errorf("deployment.gas-price-gwei: %w", err)
	}

	return chain.TxOptions{GasPrice: gasPrice, GasLimit: cfg.GasLimit}, nil
}
