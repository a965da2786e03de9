package configs

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

//go:embed config.example.yaml
var defaultConfigYAML string

// embeddedDefaults is config.example.yaml parsed once. It is only read.
var embeddedDefaults = sync.OnceValues(func() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("failed to read embedded config.example.yaml: %w", err)
	}
	return v, nil
})

// legacyEnv binds the .env variable names used by the hardhat project to config keys.
var legacyEnv = map[string]string{
	"networks.rinkeby.url":               "RINKEBY_URL",
	"etherscan.api-key":                  "ETHERSCAN_API_KEY",
	"gas-reporter.coinmarketcap-api-key": "COINMARKETCAP_API_KEY",
	"gas-reporter.enabled":               "REPORT_GAS",
	"contracts.artifacts-dir":            "WARPETS_ARTIFACTS_DIR",
	"network":                            "WARPETS_NETWORK",
}

// DefaultConfig decodes the embedded defaults into a fresh Config, so callers
// may mutate its maps.
func DefaultConfig() (Config, error) {
	defaults, err := embeddedDefaults()
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := defaults.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode embedded config.example.yaml: %w", err)
	}

	return cfg, nil
}

// MustDefaultConfig returns embedded defaults or panics if they cannot be loaded.
func MustDefaultConfig() Config {
	cfg, err := DefaultConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// SetDefaults seeds v with the embedded example config and binds the legacy
// environment variables. Values from a config file, flags or env override them.
func SetDefaults(v *viper.Viper) error {
	defaults, err := embeddedDefaults()
	if err != nil {
		return err
	}

	for _, key := range defaults.AllKeys() {
		v.SetDefault(key, defaults.Get(key))
	}

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", env, key, err)
		}
	}

	return nil
}
