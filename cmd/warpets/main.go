package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/accounts"
	"github.com/soulbond/warpets-deployer/internal/cli"
	"github.com/soulbond/warpets-deployer/internal/deployment"
	"github.com/soulbond/warpets-deployer/internal/holdings"
	"github.com/soulbond/warpets-deployer/internal/logger"
	"github.com/soulbond/warpets-deployer/internal/node"
	"github.com/soulbond/warpets-deployer/internal/pets"
)

const appName = "warpets"

var configFile string

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Deploy and operate the Soulbond SBREN, SolarBear and SoulbondWarPets contracts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		if err := configs.SetDefaults(viper.GetViper()); err != nil {
			return err
		}

		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")

			if execPath, err := os.Executable(); err == nil {
				viper.AddConfigPath(filepath.Dir(execPath))
			}
			viper.AddConfigPath(".")
			viper.AddConfigPath("./configs")
		}

		// A config file is optional: the embedded defaults, env and flags
		// are enough for the hardhat network.
		configErr := viper.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if configErr != nil && !errors.As(configErr, &notFound) {
			return errors.Join(configErr, errors.New("error reading config file"))
		}

		if err := viper.Unmarshal(&configs.Values); err != nil {
			return errors.Join(err, errors.New("unable to decode application config"))
		}

		level, err := logger.ParseLevel(configs.Values.Log.Level)
		if err != nil {
			return err
		}
		logger.Initialize(level, configs.Values.Log.Format)

		if configErr != nil {
			slog.Debug("no config file found, relying on defaults, env and flags")
		} else {
			slog.With("config_file", viper.ConfigFileUsed()).Debug("config file loaded")
		}

		if err := configs.Values.Validate(); err != nil {
			return err
		}

		slog.With("network", configs.Values.Network).Debug("configuration loaded")

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./config.yaml or ./configs/config.yaml)")

	cli.MustDeclareFlags(rootCmd, []cli.FlagDef[string]{
		{Name: "network", ViperKey: "network", Description: "Network to use (hardhat, rinkeby, mainnet)"},
		{Name: "log-level", ViperKey: "log.level", Description: "Log level (debug, info, warn, error)"},
		{Name: "log-format", ViperKey: "log.format", Description: "Log format (json, text)"},
		{Name: "artifacts-dir", ViperKey: "contracts.artifacts-dir", Description: "Hardhat artifacts directory"},
		{Name: "output-dir", ViperKey: "deployment.output-dir", Description: "Directory for deployment records"},
		{Name: "gas-price-gwei", ViperKey: "deployment.gas-price-gwei", Description: "Legacy gas price in gwei (empty: node suggestion)"},
	})
	cli.MustDeclareFlags(rootCmd, []cli.FlagDef[bool]{
		{Name: "report-gas", ViperKey: "gas-reporter.enabled", Description: "Print a gas usage report after sending transactions"},
	})

	rootCmd.AddCommand(
		accounts.CMD,
		deployment.CMD,
		holdings.CMD,
		node.CMD,
		pets.CMD,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.With("err", err.Error()).Error("failed to execute command")
		os.Exit(1)
	}
}
