package contracts

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type (
	ContractName string

	// Artifact is a compiled contract ready for deployment.
	Artifact struct {
		Name     ContractName
		ABI      abi.ABI
		RawABI   string
		Bytecode []byte
	}
)

const (
	ContractNameSbren           ContractName = "SBREN"
	ContractNameSoulbondWarPets ContractName = "SoulbondWarPets"
	ContractNameSolarBear       ContractName = "SolarBear"
)

var Contracts = map[ContractName]struct{}{
	ContractNameSbren:           {},
	ContractNameSoulbondWarPets: {},
	ContractNameSolarBear:       {},
}

// Access control roles shared by SoulbondWarPets and SolarBear.
var (
	OperatorRole     = crypto.Keccak256Hash([]byte("OPERATOR_ROLE"))
	DefaultAdminRole = common.Hash{}
)
