package node

import (
	"github.com/spf13/cobra"

	"github.com/soulbond/warpets-deployer/configs"
)

var CMD = &cobra.Command{
	Use:   "node",
	Short: "Run a local anvil node in docker",
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the node, forking node.fork-url when set",
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop and remove the node container",
	RunE:  runStop,
}

var flagNoFork bool

func init() {
	startCmd.Flags().BoolVar(&flagNoFork, "no-fork", false, "Start an empty chain instead of forking")

	CMD.AddCommand(startCmd, stopCmd)
}

func runStart(cmd *cobra.Command, _ []string) error {
	opts := OptionsFromConfig(configs.Values.Node)
	if flagNoFork {
		opts.ForkURL = ""
		opts.ForkBlockNumber = 0
	}

	service, err := NewService()
	if err != nil {
		return err
	}
	defer service.Close()

	return service.Start(cmd.Context(), opts)
}

func runStop(cmd *cobra.Command, _ []string) error {
	service, err := NewService()
	if err != nil {
		return err
	}
	defer service.Close()

	return service.Stop(cmd.Context(), configs.Values.Node.ContainerName)
}
