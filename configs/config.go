package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var Values Config

type (
	NetworkName string
	ScriptName  string

	Config struct {
		Network     NetworkName             `mapstructure:"network"`
		Networks    map[NetworkName]Network `mapstructure:"networks"`
		Log         Log                     `mapstructure:"log"`
		Contracts   Contracts               `mapstructure:"contracts"`
		Deployment  Deployment              `mapstructure:"deployment"`
		GasReporter GasReporter             `mapstructure:"gas-reporter"`
		Node        Node                    `mapstructure:"node"`
		Etherscan   Etherscan               `mapstructure:"etherscan"`
	}

	Network struct {
		URL         string   `mapstructure:"url"`
		ChainID     int      `mapstructure:"chain-id"`
		PrivateKeys []string `mapstructure:"private-keys"`
		ForkURL     string   `mapstructure:"fork-url"`
		// Dev networks accept hardhat_* and evm_* RPC methods.
		Dev bool `mapstructure:"dev"`
	}

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	}

	Contracts struct {
		ArtifactsDir     string `mapstructure:"artifacts-dir"`
		SbrenAddress     string `mapstructure:"sbren-address"`
		WarPetsAddress   string `mapstructure:"war-pets-address"`
		SolarBearAddress string `mapstructure:"solar-bear-address"`
	}

	Deployment struct {
		GasPriceGwei string    `mapstructure:"gas-price-gwei"`
		GasLimit     uint64    `mapstructure:"gas-limit"`
		OutputDir    string    `mapstructure:"output-dir"`
		Sbren        Sbren     `mapstructure:"sbren"`
		WarPets      WarPets   `mapstructure:"war-pets"`
		SolarBear    SolarBear `mapstructure:"solar-bear"`
	}

	Sbren struct {
		Name           string `mapstructure:"name"`
		Symbol         string `mapstructure:"symbol"`
		BaseURI        string `mapstructure:"base-uri"`
		NotRevealedURI string `mapstructure:"not-revealed-uri"`
		Owner          string `mapstructure:"owner"`
		Admin          string `mapstructure:"admin"`
		SysAdmin       string `mapstructure:"sys-admin"`
	}

	WarPets struct {
		Name     string `mapstructure:"name"`
		TokenURI string `mapstructure:"token-uri"`
		WarPetID int64  `mapstructure:"war-pet-id"`
	}

	SolarBear struct {
		Name           string `mapstructure:"name"`
		TokenURI       string `mapstructure:"token-uri"`
		ActiveWarPetID int64  `mapstructure:"active-war-pet-id"`
	}

	GasReporter struct {
		Enabled             bool   `mapstructure:"enabled"`
		Currency            string `mapstructure:"currency"`
		Token               string `mapstructure:"token"`
		GasPriceAPI         string `mapstructure:"gas-price-api"`
		CoinmarketcapAPIKey string `mapstructure:"coinmarketcap-api-key"`
	}

	Node struct {
		Image           string `mapstructure:"image"`
		ContainerName   string `mapstructure:"container-name"`
		Port            int    `mapstructure:"port"`
		ChainID         int    `mapstructure:"chain-id"`
		ForkURL         string `mapstructure:"fork-url"`
		ForkBlockNumber uint64 `mapstructure:"fork-block-number"`
	}

	Etherscan struct {
		APIKey string `mapstructure:"api-key"`
	}
)

const (
	NetworkNameHardhat NetworkName = "hardhat"
	NetworkNameRinkeby NetworkName = "rinkeby"
	NetworkNameMainnet NetworkName = "mainnet"
)

// ActiveNetwork returns the network selected by Config.Network with
// environment references expanded.
func (c *Config) ActiveNetwork() (Network, error) {
	network, ok := c.Networks[c.Network]
	if !ok {
		return Network{}, fmt.Errorf("network %q is not configured", c.Network)
	}

	network.URL = os.ExpandEnv(network.URL)
	network.ForkURL = os.ExpandEnv(network.ForkURL)

	keys := make([]string, 0, len(network.PrivateKeys))
	for _, key := range network.PrivateKeys {
		key = strings.TrimSpace(os.ExpandEnv(key))
		if key != "" {
			keys = append(keys, key)
		}
	}
	network.PrivateKeys = keys

	return network, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Network == "" {
		errs = append(errs, errors.New("network is required"))
	} else if _, ok := c.Networks[c.Network]; !ok {
		errs = append(errs, fmt.Errorf("networks.%s is required", c.Network))
	}

	for name, network := range c.Networks {
		if network.URL == "" {
			errs = append(errs, fmt.Errorf("networks.%s.url is required", name))
		}
	}

	switch c.Log.Format {
	case "", "json", "text":
	default:
		errs = append(errs, errors.New("log.format must be either 'json' or 'text'"))
	}

	for key, value := range map[string]string{
		"contracts.sbren-address":      c.Contracts.SbrenAddress,
		"contracts.war-pets-address":   c.Contracts.WarPetsAddress,
		"contracts.solar-bear-address": c.Contracts.SolarBearAddress,
	} {
		if value != "" && !common.IsHexAddress(value) {
			errs = append(errs, fmt.Errorf("%s is not a valid address: %q", key, value))
		}
	}

	if err := c.Deployment.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (d *Deployment) Validate() error {
	var errs []error

	if d.OutputDir == "" {
		errs = append(errs, errors.New("deployment.output-dir is required"))
	}
	if d.Sbren.Name == "" {
		errs = append(errs, errors.New("deployment.sbren.name is required"))
	}
	if d.Sbren.Symbol == "" {
		errs = append(errs, errors.New("deployment.sbren.symbol is required"))
	}
	for key, value := range map[string]string{
		"deployment.sbren.owner":     d.Sbren.Owner,
		"deployment.sbren.admin":     d.Sbren.Admin,
		"deployment.sbren.sys-admin": d.Sbren.SysAdmin,
	} {
		if value != "" && !common.IsHexAddress(value) {
			errs = append(errs, fmt.Errorf("%s is not a valid address: %q", key, value))
		}
	}
	if d.WarPets.Name == "" {
		errs = append(errs, errors.New("deployment.war-pets.name is required"))
	}
	if d.WarPets.WarPetID < 0 {
		errs = append(errs, errors.New("deployment.war-pets.war-pet-id must not be negative"))
	}
	if d.SolarBear.ActiveWarPetID < 0 {
		errs = append(errs, errors.New("deployment.solar-bear.active-war-pet-id must not be negative"))
	}

	return errors.Join(errs...)
}
