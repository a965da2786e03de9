package pets

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/deployment"
	"github.com/soulbond/warpets-deployer/internal/gasreport"
	"github.com/soulbond/warpets-deployer/internal/session"
	"github.com/soulbond/warpets-deployer/internal/ux"
)

var CMD = &cobra.Command{
	Use:   "pets",
	Short: "Inspect and operate the SoulbondWarPets contract",
}

var (
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the active war pet, its nation and the contract state",
		RunE:  runStatus,
	}
	pauseCmd = &cobra.Command{
		Use:   "pause",
		Short: "Pause minting and transfers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOperator(cmd.Context(), func(ctx context.Context, s *Service) (*types.Receipt, error) {
				return s.Pause(ctx)
			})
		},
	}
	unpauseCmd = &cobra.Command{
		Use:   "unpause",
		Short: "Resume minting and transfers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOperator(cmd.Context(), func(ctx context.Context, s *Service) (*types.Receipt, error) {
				return s.Unpause(ctx)
			})
		},
	}
	switchNationCmd = &cobra.Command{
		Use:   "switch-nation",
		Short: "Bind a war pet id to a nation contract and activate it",
		RunE:  runSwitchNation,
	}
	setTokenURICmd = &cobra.Command{
		Use:   "set-token-uri",
		Short: "Set the metadata URI of a war pet id",
		RunE:  runSetTokenURI,
	}
)

var (
	flagStatusWarPetID int64
	flagWarPetID       int64
	flagNation         string
	flagURI            string
	flagAccount        string
)

func init() {
	statusCmd.Flags().Int64Var(&flagStatusWarPetID, "war-pet-id", -1, "War pet id to show (default: the active one)")
	statusCmd.Flags().StringVar(&flagAccount, "account", "", "Also report whether this account is an operator")

	switchNationCmd.Flags().StringVar(&flagNation, "nation", "", "Nation contract address (required)")
	switchNationCmd.Flags().Int64Var(&flagWarPetID, "war-pet-id", configs.WarPetID, "War pet id")
	_ = switchNationCmd.MarkFlagRequired("nation")

	setTokenURICmd.Flags().Int64Var(&flagWarPetID, "war-pet-id", configs.WarPetID, "War pet id")
	setTokenURICmd.Flags().StringVar(&flagURI, "uri", "", "Metadata URI (required)")
	_ = setTokenURICmd.MarkFlagRequired("uri")

	CMD.AddCommand(statusCmd, pauseCmd, unpauseCmd, switchNationCmd, setTokenURICmd)
}

func warPetsAddress(ctx context.Context, sess *session.Session, cfg configs.Config) (common.Address, error) {
	return deployment.ResolveAddress(ctx, sess.Client, cfg.Deployment.OutputDir, cfg.Network, contracts.ContractNameSoulbondWarPets, cfg.Contracts.WarPetsAddress)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := configs.Values

	var account common.Address
	if flagAccount != "" {
		if !common.IsHexAddress(flagAccount) {
			return fmt.Errorf("invalid account address %q", flagAccount)
		}
		account = common.HexToAddress(flagAccount)
	}

	sess, err := session.Open(ctx, &cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	address, err := warPetsAddress(ctx, sess, cfg)
	if err != nil {
		return err
	}

	warPets, err := contracts.NewSoulbondWarPets(address, sess.Client)
	if err != nil {
		return err
	}

	status, err := NewService(warPets).Status(ctx, statusWarPetID(flagStatusWarPetID), account)
	if err != nil {
		return err
	}

	ux.KeyValueTable(os.Stdout, string(contracts.ContractNameSoulbondWarPets), statusRows(status, account))
	return nil
}

// statusWarPetID maps a negative id to nil, which selects the active war pet.
func statusWarPetID(id int64) *big.Int {
	if id < 0 {
		return nil
	}
	return big.NewInt(id)
}

func statusRows(status Status, account common.Address) [][2]any {
	rows := [][2]any{
		{"Address", status.Address.Hex()},
		{"Name", status.Name},
		{"War pet ID", status.WarPetID.String()},
		{"Nation", status.Nation.Hex()},
		{"Token URI", status.TokenURI},
		{"Paused", status.Paused},
		{"Owner", status.Owner.Hex()},
	}
	if account != (common.Address{}) {
		rows = append(rows, [2]any{"Operator " + account.Hex(), status.Operator})
	}
	return rows
}

func runSwitchNation(cmd *cobra.Command, _ []string) error {
	if !common.IsHexAddress(flagNation) {
		return fmt.Errorf("invalid nation address %q", flagNation)
	}
	nation := common.HexToAddress(flagNation)

	return withOperator(cmd.Context(), func(ctx context.Context, s *Service) (*types.Receipt, error) {
		return s.SwitchNation(ctx, nation, big.NewInt(flagWarPetID))
	})
}

func runSetTokenURI(cmd *cobra.Command, _ []string) error {
	return withOperator(cmd.Context(), func(ctx context.Context, s *Service) (*types.Receipt, error) {
		return s.SetTokenURI(ctx, big.NewInt(flagWarPetID), flagURI)
	})
}

// withOperator runs send with a service signing through the first network
// key and prints a gas report when the reporter is enabled.
func withOperator(ctx context.Context, send func(context.Context, *Service) (*types.Receipt, error)) error {
	cfg := configs.Values

	sess, err := session.Open(ctx, &cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	address, err := warPetsAddress(ctx, sess, cfg)
	if err != nil {
		return err
	}

	opts, err := session.TxOptions(cfg.Deployment)
	if err != nil {
		return err
	}
	keyed, err := sess.Transactor(ctx, opts)
	if err != nil {
		return err
	}

	var (
		transactor contracts.Transactor = keyed
		recorder   *gasreport.Recorder
	)
	if cfg.GasReporter.Enabled {
		recorder = gasreport.NewRecorder()
		if err := recorder.Track(contracts.ContractNameSoulbondWarPets, address); err != nil {
			return err
		}
		transactor = recorder.Wrap(keyed)
	}

	warPets, err := contracts.NewSoulbondWarPets(address, sess.Client)
	if err != nil {
		return err
	}

	if _, err := send(ctx, NewService(warPets.Connect(transactor))); err != nil {
		return err
	}

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
