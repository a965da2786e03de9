package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FlagDef defines a command-line flag bound to a viper configuration key.
type (
	FlagType interface {
		string | int | bool
	}

	FlagDef[T FlagType] struct {
		Name         string
		ViperKey     string
		DefaultValue T
		Description  string
	}
)

// DeclareFlags declares multiple flags on cmd and binds them to viper configuration keys.
func DeclareFlags[T FlagType](cmd *cobra.Command, flags []FlagDef[T]) error {
	for _, flag := range flags {
		if err := DeclareFlag(cmd, flag); err != nil {
			return err
		}
	}
	return nil
}

// DeclareFlag declares a single flag and binds it to a viper configuration key.
// The type parameter T determines the flag type (string, int, or bool).
// Persistent flags are used so subcommands inherit them.
func DeclareFlag[T FlagType](cmd *cobra.Command, flag FlagDef[T]) error {
	flags := cmd.PersistentFlags()

	switch v := any(flag.DefaultValue).(type) {
	case string:
		flags.String(flag.Name, v, flag.Description)
	case int:
		flags.Int(flag.Name, v, flag.Description)
	case bool:
		flags.Bool(flag.Name, v, flag.Description)
	}

	if flag.ViperKey == "" {
		return nil
	}

	if err := viper.BindPFlag(flag.ViperKey, flags.Lookup(flag.Name)); err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
	}

	return nil
}

// MustDeclareFlags panics when a flag cannot be declared; for use in init.
func MustDeclareFlags[T FlagType](cmd *cobra.Command, flags []FlagDef[T]) {
	if err := DeclareFlags(cmd, flags); err != nil {
		panic(err)
	}
}
