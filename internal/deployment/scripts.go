package deployment

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/contracts"
)

const (
	ScriptSbrenSolarBear configs.ScriptName = "sbren-solarbear"
	ScriptSbrenWarPets   configs.ScriptName = "sbren-warpets"
	ScriptSolarBear      configs.ScriptName = "solarbear"
	ScriptWarPets        configs.ScriptName = "warpets"
)

type (
	// Addresses maps deployed or referenced contracts to their address.
	Addresses map[contracts.ContractName]common.Address

	// Script is one linear deployment sequence.
	Script struct {
		Name        configs.ScriptName
		Description string
		// Artifacts are the contracts the script deploys.
		Artifacts []contracts.ContractName
		Run       func(ctx context.Context, d *Deployer) (Addresses, error)
	}
)

var scripts = map[configs.ScriptName]Script{
	ScriptSbrenSolarBear: {
		Name:        ScriptSbrenSolarBear,
		Description: "deploy SBREN and a SolarBear bound to it",
		Artifacts:   []contracts.ContractName{contracts.ContractNameSbren, contracts.ContractNameSolarBear},
		Run: func(ctx context.Context, d *Deployer) (Addresses, error) {
			sbren, err := d.DeploySbren(ctx, d.Account())
			if err != nil {
				return nil, err
			}

			solarBear, err := d.DeploySolarBear(ctx, "", sbren.Address())
			if err != nil {
				return nil, err
			}

			return Addresses{
				contracts.ContractNameSbren:     sbren.Address(),
				contracts.ContractNameSolarBear: solarBear.Address(),
			}, nil
		},
	},
	ScriptSbrenWarPets: {
		Name:        ScriptSbrenWarPets,
		Description: "deploy SBREN and a SoulbondWarPets bound to it",
		Artifacts:   []contracts.ContractName{contracts.ContractNameSbren, contracts.ContractNameSoulbondWarPets},
		Run: func(ctx context.Context, d *Deployer) (Addresses, error) {
			sbren, err := d.DeploySbren(ctx, d.Account())
			if err != nil {
				return nil, err
			}

			warPets, err := d.DeploySoulbondWarPets(ctx, "", sbren.Address())
			if err != nil {
				return nil, err
			}

			return Addresses{
				contracts.ContractNameSbren:           sbren.Address(),
				contracts.ContractNameSoulbondWarPets: warPets.Address(),
			}, nil
		},
	},
	ScriptSolarBear: {
		Name:        ScriptSolarBear,
		Description: "deploy SolarBear against an existing SBREN",
		Artifacts:   []contracts.ContractName{contracts.ContractNameSolarBear},
		Run: func(ctx context.Context, d *Deployer) (Addresses, error) {
			sbren, err := d.GetSbrenContract(common.Address{})
			if err != nil {
				return nil, err
			}
			d.logger.With("address", sbren.Address().Hex()).Info("SBREN at")

			solarBear, err := d.DeploySolarBear(ctx, "", sbren.Address())
			if err != nil {
				return nil, err
			}

			return Addresses{
				contracts.ContractNameSbren:     sbren.Address(),
				contracts.ContractNameSolarBear: solarBear.Address(),
			}, nil
		},
	},
	ScriptWarPets: {
		Name:        ScriptWarPets,
		Description: "deploy SoulbondWarPets against an existing SBREN",
		Artifacts:   []contracts.ContractName{contracts.ContractNameSoulbondWarPets},
		Run: func(ctx context.Context, d *Deployer) (Addresses, error) {
			sbren, err := d.GetSbrenContract(common.Address{})
			if err != nil {
				return nil, err
			}
			d.logger.With("address", sbren.Address().Hex()).Info("SBREN at")

			warPets, err := d.DeploySoulbondWarPets(ctx, configs.SoulbondWarPetsName, sbren.Address())
			if err != nil {
				return nil, err
			}

			return Addresses{
				contracts.ContractNameSbren:           sbren.Address(),
				contracts.ContractNameSoulbondWarPets: warPets.Address(),
			}, nil
		},
	},
}

// LookupScript returns the script registered under name.
func LookupScript(name configs.ScriptName) (Script, error) {
	script, ok := scripts[name]
	if !ok {
		return Script{}, fmt.Errorf("unknown deployment script %q (available: %v)", name, ScriptNames())
	}
	return script, nil
}

// ScriptNames lists the registered scripts in name order.
func ScriptNames() []configs.ScriptName {
	names := make([]configs.ScriptName, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
