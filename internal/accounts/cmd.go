package accounts

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/session"
)

var CMD = &cobra.Command{
	Use:   "accounts",
	Short: "Prints the list of accounts",
	RunE:  runAccounts,
}

var flagBalances bool

func init() {
	CMD.Flags().BoolVar(&flagBalances, "balances", false, "Query the network for each account's balance")
}

func runAccounts(cmd *cobra.Command, _ []string) error {
	cfg := configs.Values

	network, err := cfg.ActiveNetwork()
	if err != nil {
		return err
	}

	addresses, err := Addresses(network)
	if err != nil {
		return err
	}

	if !flagBalances {
		Print(os.Stdout, addresses)
		return nil
	}

	sess, err := session.Open(cmd.Context(), &cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	return PrintBalances(cmd.Context(), os.Stdout, sess.Client, addresses)
}
