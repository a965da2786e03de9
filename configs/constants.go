package configs

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// Mainnet deployments.
var (
	SbrenContractAddress   = common.HexToAddress("0xaCc2Fcc87F57C52F945E3F373B32264E76DcFF84")
	WarPetsContractAddress = common.HexToAddress("0xeBd7d4184C7Cc0982165BE74AF3ad94486eBDbf2")
)

const (
	WarPetID            int64 = 0
	ActiveWarPetTokenID int64 = 0

	SoulbondWarPetsName     = "Soulbond - War Pets"
	SoulbondWarPetsTokenURI = "https://token-cdn-domain/{id}.json"
	SolarBearTokenURI       = "https://token-cdn-domain/{id}.json"

	gasPriceGwei = 40
)

// GasPrice is the legacy gas price used by the deployment scripts.
func GasPrice() *big.Int {
	return new(big.Int).Mul(big.NewInt(gasPriceGwei), big.NewInt(params.GWei))
}
