package deployment

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/gasreport"
	"github.com/soulbond/warpets-deployer/internal/session"
)

var CMD = &cobra.Command{
	Use:   "deploy <script>",
	Short: "Deploy the Soulbond contracts",
	Long: "Run a deployment script against the active network.\n\nScripts:\n" + scriptHelp() +
		"\nDeployed addresses are written to <output-dir>/<network>.json and .yaml.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: scriptArgs(),
	RunE:      runDeploy,
}

func scriptArgs() []string {
	names := ScriptNames()
	args := make([]string, 0, len(names))
	for _, name := range names {
		args = append(args, string(name))
	}
	return args
}

func scriptHelp() string {
	var b strings.Builder
	for _, name := range ScriptNames() {
		fmt.Fprintf(&b, "  %-16s %s\n", name, scripts[name].Description)
	}
	return b.String()
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := configs.Values

	script, err := LookupScript(configs.ScriptName(args[0]))
	if err != nil {
		return err
	}

	artifacts, err := contracts.LoadArtifacts(cfg.Contracts.ArtifactsDir, script.Artifacts...)
	if err != nil {
		return fmt.Errorf("failed to load artifacts: %w", err)
	}

	sess, err := session.Open(ctx, &cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts, err := session.TxOptions(cfg.Deployment)
	if err != nil {
		return err
	}

	transactor, err := sess.Transactor(ctx, opts)
	if err != nil {
		return err
	}

	var recorder *gasreport.Recorder
	params := Params{
		Artifacts:  artifacts,
		Deployment: cfg.Deployment,
	}
	if cfg.Contracts.SbrenAddress != "" {
		params.SbrenAddress, err = ResolveAddress(ctx, sess.Client, cfg.Deployment.OutputDir, cfg.Network, contracts.ContractNameSbren, cfg.Contracts.SbrenAddress)
		if err != nil {
			return err
		}
	}
	if cfg.GasReporter.Enabled {
		recorder = gasreport.NewRecorder()
		params.Recorder = recorder
	}

	addresses, err := NewService(NewDeployer(transactor, params)).Run(ctx, script)
	if err != nil {
		return err
	}

	record, err := WriteRecord(cfg.Deployment.OutputDir, cfg.Network, sess.ChainID.Uint64(), addresses)
	if err != nil {
		return fmt.Errorf("failed to write deployment record: %w", err)
	}
	if err := WriteManifest(cfg.Deployment.OutputDir, cfg.Network, sess.Network.URL, record, artifacts); err != nil {
		return err
	}

	slog.With("path", RecordPath(cfg.Deployment.OutputDir, cfg.Network)).Info("deployment record written")

	if recorder != nil {
		gasPrice := opts.GasPrice
		if gasPrice == nil {
			if gasPrice, err = sess.Client.SuggestGasPrice(ctx); err != nil {
				return fmt.Errorf("failed to get gas price: %w", err)
			}
		}
		prices := gasreport.NewPriceSource(cfg.GasReporter, cfg.Etherscan.APIKey).Prices(ctx, gasPrice)
		gasreport.Render(os.Stdout, recorder.Entries(), prices)
	}

	return nil
}
