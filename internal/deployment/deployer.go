package deployment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/chain"
	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/logger"
)

const deployTimeout = time.Minute

var ErrNoCode = errors.New("no contract code at deployed address")

type (
	// GasRecorder is notified of every mined deployment.
	GasRecorder interface {
		RecordDeployment(name contracts.ContractName, address common.Address, receipt *types.Receipt)
	}

	// Params configure a Deployer.
	Params struct {
		Artifacts  map[contracts.ContractName]contracts.Artifact
		Deployment configs.Deployment
		// SbrenAddress is the SBREN used when none is given. Zero means the
		// mainnet deployment.
		SbrenAddress common.Address
		Recorder     GasRecorder
	}

	// SbrenArgs are the SBREN constructor arguments in order.
	SbrenArgs struct {
		Name           string
		Symbol         string
		BaseURI        string
		NotRevealedURI string
		Owner          common.Address
		Admin          common.Address
		SysAdmin       common.Address
	}

	// Deployer deploys the Soulbond contracts with a single signer.
	Deployer struct {
		backend    chain.Backend
		transactor *chain.KeyedTransactor
		params     Params
		logger     *slog.Logger
	}
)

func NewDeployer(transactor *chain.KeyedTransactor, params Params) *Deployer {
	if params.SbrenAddress == (common.Address{}) {
		params.SbrenAddress = configs.SbrenContractAddress
	}

	return &Deployer{
		backend:    transactor.Backend(),
		transactor: transactor,
		params:     params,
		logger:     logger.Named("deployer"),
	}
}

// WithOptions returns a copy of d that deploys with opts.
func (d *Deployer) WithOptions(opts chain.TxOptions) *Deployer {
	cpy := *d
	cpy.transactor = d.transactor.WithOptions(opts)
	return &cpy
}

func (d *Deployer) Account() common.Address {
	return d.transactor.From()
}

func (d *Deployer) Backend() chain.Backend {
	return d.backend
}

func (d *Deployer) Transactor() *chain.KeyedTransactor {
	return d.transactor
}

// NewSbrenArgs builds constructor arguments from cfg. Roles left empty in cfg
// are filled with roleAddress.
func NewSbrenArgs(cfg configs.Sbren, roleAddress common.Address) SbrenArgs {
	role := func(configured string) common.Address {
		if configured == "" {
			return roleAddress
		}
		return common.HexToAddress(configured)
	}

	return SbrenArgs{
		Name:           cfg.Name,
		Symbol:         cfg.Symbol,
		BaseURI:        cfg.BaseURI,
		NotRevealedURI: cfg.NotRevealedURI,
		Owner:          role(cfg.Owner),
		Admin:          role(cfg.Admin),
		SysAdmin:       role(cfg.SysAdmin),
	}
}

// DeploySbren deploys SBREN with the configured metadata and roleAddress in
// every role the configuration leaves empty.
func (d *Deployer) DeploySbren(ctx context.Context, roleAddress common.Address) (*contracts.Sbren, error) {
	return d.DeploySbrenWithArgs(ctx, NewSbrenArgs(d.params.Deployment.Sbren, roleAddress))
}

func (d *Deployer) DeploySbrenWithArgs(ctx context.Context, args SbrenArgs) (*contracts.Sbren, error) {
	address, err := d.deploy(ctx, contracts.ContractNameSbren,
		args.Name,
		args.Symbol,
		args.BaseURI,
		args.NotRevealedURI,
		args.Owner,
		args.Admin,
		args.SysAdmin,
	)
	if err != nil {
		return nil, err
	}

	sbren, err := contracts.NewSbren(address, d.backend)
	if err != nil {
		return nil, err
	}
	return sbren.Connect(d.transactor), nil
}

// DeploySoulbondWarPets deploys SoulbondWarPets bound to sbren with the
// configured token URI and war pet id.
func (d *Deployer) DeploySoulbondWarPets(ctx context.Context, name string, sbren common.Address) (*contracts.SoulbondWarPets, error) {
	cfg := d.params.Deployment.WarPets
	if name == "" {
		name = cfg.Name
	}

	address, err := d.deploy(ctx, contracts.ContractNameSoulbondWarPets,
		name,
		cfg.TokenURI,
		sbren,
		big.NewInt(cfg.WarPetID),
	)
	if err != nil {
		return nil, err
	}

	warPets, err := contracts.NewSoulbondWarPets(address, d.backend)
	if err != nil {
		return nil, err
	}
	return warPets.Connect(d.transactor), nil
}

// DeploySolarBear deploys SolarBear bound to sbren. Artifacts whose
// constructor takes only (uri, sbren) are deployed without the name and
// active war pet id.
func (d *Deployer) DeploySolarBear(ctx context.Context, name string, sbren common.Address) (*contracts.SolarBear, error) {
	artifact, err := d.artifact(contracts.ContractNameSolarBear)
	if err != nil {
		return nil, err
	}

	cfg := d.params.Deployment.SolarBear
	if name == "" {
		name = cfg.Name
	}

	var args []any
	switch inputs := len(artifact.ABI.Constructor.Inputs); inputs {
	case 2:
		args = []any{cfg.TokenURI, sbren}
	case 4:
		args = []any{name, cfg.TokenURI, sbren, big.NewInt(cfg.ActiveWarPetID)}
	default:
		return nil, fmt.Errorf("unsupported SolarBear constructor with %d inputs", inputs)
	}

	address, err := d.deploy(ctx, contracts.ContractNameSolarBear, args...)
	if err != nil {
		return nil, err
	}

	solarBear, err := contracts.NewSolarBear(address, d.backend)
	if err != nil {
		return nil, err
	}
	return solarBear.Connect(d.transactor), nil
}

// GetSbrenContract binds the SBREN at address, or the configured SBREN when
// address is zero.
func (d *Deployer) GetSbrenContract(address common.Address) (*contracts.Sbren, error) {
	if address == (common.Address{}) {
		address = d.params.SbrenAddress
	}

	sbren, err := contracts.NewSbren(address, d.backend)
	if err != nil {
		return nil, err
	}
	return sbren.Connect(d.transactor), nil
}

func (d *Deployer) artifact(name contracts.ContractName) (contracts.Artifact, error) {
	artifact, ok := d.params.Artifacts[name]
	if !ok {
		return contracts.Artifact{}, fmt.Errorf("artifact for %s is not loaded", name)
	}
	return artifact, nil
}

func (d *Deployer) deploy(ctx context.Context, name contracts.ContractName, args ...any) (common.Address, error) {
	artifact, err := d.artifact(name)
	if err != nil {
		return common.Address{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, deployTimeout)
	defer cancel()

	auth, err := d.transactor.TransactOpts(ctx)
	if err != nil {
		return common.Address{}, err
	}

	address, tx, _, err := bind.DeployContract(auth, artifact.ABI, artifact.Bytecode, d.backend, args...)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy %s: %w", name, chain.DecodeRevert(err))
	}

	log := d.logger.With("contract", name).With("address", address.Hex())
	log.With("tx_hash", tx.Hash().Hex()).Info("contract deployment transaction sent")

	receipt, err := chain.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy %s: %w", name, err)
	}

	code, err := d.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get code of %s: %w", name, err)
	}
	if len(code) == 0 {
		return common.Address{}, fmt.Errorf("%s at %s: %w", name, address.Hex(), ErrNoCode)
	}

	if d.params.Recorder != nil {
		d.params.Recorder.RecordDeployment(name, address, receipt)
	}

	log.With("gas_used", receipt.GasUsed).Info("deployed")

	return address, nil
}
