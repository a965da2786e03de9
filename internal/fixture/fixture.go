// Package fixture prepares a dev chain for contract tests: impersonated and
// funded holders, forged SBREN ownership and per-test snapshots.
package fixture

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/chain"
	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/deployment"
	"github.com/soulbond/warpets-deployer/internal/devnet"
	"github.com/soulbond/warpets-deployer/internal/logger"
)

// Accounts of the forked mainnet used as token holders.
var (
	TokenOwner    = common.HexToAddress("0xa54d3c09e34ac96807c1cc397404bf2b98dc4efb")
	NonTokenOwner = common.HexToAddress("0xab5801a7d398351b8be11c439e05c5b3259aec9b")
	RandomAddress = common.HexToAddress("0x5b60c4D406F95bE4DA2d9f6b45e459F9F98d5Db4")
)

const fundedEther = 100

type (
	Options struct {
		RPCURL       string
		ArtifactsDir string
		DeployerKey  string
		// SbrenAddress defaults to the mainnet SBREN.
		SbrenAddress common.Address
		Deployment   configs.Deployment
		TxOptions    chain.TxOptions
	}

	Fixture struct {
		Eth      *ethclient.Client
		Devnet   *devnet.Client
		Forger   *devnet.Forger
		Deployer *deployment.Deployer
		Sbren    *contracts.Sbren

		// Owner holds SBREN token 0. NonOwner holds nothing.
		Owner    *devnet.Impersonator
		NonOwner *devnet.Impersonator

		snapshot string
		logger   *slog.Logger
	}
)

// OptionsFromConfig targets the hardhat network of cfg.
func OptionsFromConfig(cfg configs.Config) (Options, error) {
	network, ok := cfg.Networks[configs.NetworkNameHardhat]
	if !ok {
		return Options{}, fmt.Errorf("network %q is not configured", configs.NetworkNameHardhat)
	}
	if len(network.PrivateKeys) == 0 {
		return Options{}, fmt.Errorf("network %q has no private keys", configs.NetworkNameHardhat)
	}

	opts := Options{
		RPCURL:       network.URL,
		ArtifactsDir: cfg.Contracts.ArtifactsDir,
		DeployerKey:  network.PrivateKeys[0],
		Deployment:   cfg.Deployment,
	}
	if cfg.Contracts.SbrenAddress != "" {
		opts.SbrenAddress = common.HexToAddress(cfg.Contracts.SbrenAddress)
	}

	return opts, nil
}

func (o Options) Validate() error {
	var errs []error
	if o.RPCURL == "" {
		errs = append(errs, errors.New("rpc url is required"))
	}
	if o.ArtifactsDir == "" {
		errs = append(errs, errors.New("artifacts dir is required"))
	}
	if o.DeployerKey == "" {
		errs = append(errs, errors.New("deployer key is required"))
	}
	return errors.Join(errs...)
}

// New connects to a dev node and prepares the holders: both are impersonated
// and funded with 100 ether, and TokenOwner is forged as the owner of SBREN
// token 0 with a balance of 1.
func New(ctx context.Context, opts Options) (*Fixture, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	artifacts, err := contracts.LoadArtifacts(opts.ArtifactsDir,
		contracts.ContractNameSbren,
		contracts.ContractNameSoulbondWarPets,
		contracts.ContractNameSolarBear,
	)
	if err != nil {
		return nil, err
	}

	key, err := chain.ParsePrivateKey(opts.DeployerKey)
	if err != nil {
		return nil, err
	}

	rpcClient, err := rpc.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.RPCURL, err)
	}

	f := &Fixture{
		Eth:    ethclient.NewClient(rpcClient),
		Devnet: devnet.NewClient(rpcClient),
		logger: logger.Named("fixture"),
	}
	f.Forger = devnet.NewForger(f.Devnet)

	if err := f.setup(ctx, key, artifacts, opts); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func (f *Fixture) setup(ctx context.Context, key *ecdsa.PrivateKey, artifacts map[contracts.ContractName]contracts.Artifact, opts Options) error {
	transactor, err := chain.NewKeyedTransactor(ctx, f.Eth, key, opts.TxOptions)
	if err != nil {
		return err
	}

	f.Deployer = deployment.NewDeployer(transactor, deployment.Params{
		Artifacts:    artifacts,
		Deployment:   opts.Deployment,
		SbrenAddress: opts.SbrenAddress,
	})
	if f.Sbren, err = f.Deployer.GetSbrenContract(common.Address{}); err != nil {
		return err
	}

	if f.Owner, err = f.fund(ctx, TokenOwner); err != nil {
		return err
	}
	if f.NonOwner, err = f.fund(ctx, NonTokenOwner); err != nil {
		return err
	}

	if err := f.ForgeTokenOwnership(ctx, big.NewInt(0)); err != nil {
		return err
	}
	if err := f.ForgeBalance(ctx, 1); err != nil {
		return err
	}

	f.logger.With("sbren", f.Sbren.Address().Hex()).With("deployer", f.Deployer.Account().Hex()).Info("fixture ready")
	return nil
}

func (f *Fixture) fund(ctx context.Context, account common.Address) (*devnet.Impersonator, error) {
	impersonator, err := f.Devnet.Impersonate(ctx, account)
	if err != nil {
		return nil, err
	}

	balance := new(big.Int).Mul(big.NewInt(fundedEther), big.NewInt(params.Ether))
	if err := f.Devnet.SetBalance(ctx, account, balance); err != nil {
		return nil, err
	}

	return impersonator, nil
}

// ForgeTokenOwnership makes TokenOwner the owner of SBREN tokenID.
func (f *Fixture) ForgeTokenOwnership(ctx context.Context, tokenID *big.Int) error {
	return f.Forger.ForgeTokenOwnership(ctx, f.Sbren.Address(), tokenID, TokenOwner, time.Now())
}

// ForgeBalance sets the SBREN balance of TokenOwner.
func (f *Fixture) ForgeBalance(ctx context.Context, balance int64) error {
	return f.Forger.ForgeAddressDataBalance(ctx, f.Sbren.Address(), TokenOwner, big.NewInt(balance))
}

// DeploySoulbondWarPets deploys a fresh SoulbondWarPets bound to the fixture
// SBREN with the legacy gas price.
func (f *Fixture) DeploySoulbondWarPets(ctx context.Context) (*contracts.SoulbondWarPets, error) {
	return f.Deployer.
		WithOptions(chain.TxOptions{GasPrice: configs.GasPrice()}).
		DeploySoulbondWarPets(ctx, "", f.Sbren.Address())
}

func (f *Fixture) DeploySolarBear(ctx context.Context) (*contracts.SolarBear, error) {
	return f.Deployer.DeploySolarBear(ctx, "", f.Sbren.Address())
}

// DeploySbren deploys another SBREN with the deployer in every role.
func (f *Fixture) DeploySbren(ctx context.Context) (*contracts.Sbren, error) {
	return f.Deployer.DeploySbren(ctx, f.Deployer.Account())
}

// Snapshot saves the chain state for Revert.
func (f *Fixture) Snapshot(ctx context.Context) error {
	id, err := f.Devnet.Snapshot(ctx)
	if err != nil {
		return err
	}
	f.snapshot = id
	return nil
}

// Revert restores the last snapshot.
func (f *Fixture) Revert(ctx context.Context) error {
	if f.snapshot == "" {
		return errors.New("no snapshot taken")
	}
	id := f.snapshot
	f.snapshot = ""
	return f.Devnet.Revert(ctx, id)
}

func (f *Fixture) Close() {
	f.Eth.Close()
}

// MissingRoleMessage is the AccessControl revert reason for account lacking
// role.
func MissingRoleMessage(account common.Address, role common.Hash) string {
	return fmt.Sprintf("AccessControl: account %s is missing role %s", strings.ToLower(account.Hex()), role.Hex())
}
