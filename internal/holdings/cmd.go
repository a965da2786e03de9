package holdings

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/deployment"
	"github.com/soulbond/warpets-deployer/internal/session"
	"github.com/soulbond/warpets-deployer/internal/ux"
)

var CMD = &cobra.Command{
	Use:   "tokens",
	Short: "List the SBREN tokens of an owner and their war pet claim state",
	RunE:  runTokens,
}

var (
	flagOwner    string
	flagMinted   bool
	flagAll      bool
	flagWarPetID int64
)

func init() {
	CMD.Flags().StringVar(&flagOwner, "owner", "", "Token owner address (required)")
	CMD.Flags().BoolVar(&flagMinted, "minted", true, "List tokens whose war pet was claimed (false for unclaimed)")
	CMD.Flags().BoolVar(&flagAll, "all", false, "List every token regardless of claim state")
	CMD.Flags().Int64Var(&flagWarPetID, "war-pet-id", configs.WarPetID, "War pet id used for the claim lookup")
	_ = CMD.MarkFlagRequired("owner")
}

func runTokens(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := configs.Values

	if !common.IsHexAddress(flagOwner) {
		return fmt.Errorf("invalid owner address %q", flagOwner)
	}
	owner := common.HexToAddress(flagOwner)

	sess, err := session.Open(ctx, &cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	sbrenAddress, err := deployment.ResolveAddress(ctx, sess.Client, cfg.Deployment.OutputDir, cfg.Network, contracts.ContractNameSbren, cfg.Contracts.SbrenAddress)
	if err != nil {
		return err
	}
	warPetsAddress, err := deployment.ResolveAddress(ctx, sess.Client, cfg.Deployment.OutputDir, cfg.Network, contracts.ContractNameSoulbondWarPets, cfg.Contracts.WarPetsAddress)
	if err != nil {
		return err
	}

	sbren, err := contracts.NewSbren(sbrenAddress, sess.Client)
	if err != nil {
		return err
	}
	warPets, err := contracts.NewSoulbondWarPets(warPetsAddress, sess.Client)
	if err != nil {
		return err
	}

	scanner := NewScanner(sbren, warPets, big.NewInt(flagWarPetID))

	var ids []*big.Int
	if flagAll {
		ids, err = scanner.TokenIDs(ctx, owner)
	} else {
		ids, err = scanner.FilteredTokenIDs(ctx, flagMinted, owner)
	}
	if err != nil {
		return err
	}

	title := "tokenIds"
	if !flagAll {
		title = "filteredTokenIds"
	}
	Render(os.Stdout, title, owner, ids)

	return nil
}

// Render prints ids as a one-column table titled with owner.
func Render(w io.Writer, title string, owner common.Address, ids []*big.Int) {
	t := ux.DefaultTable(w, fmt.Sprintf("%s of %s", title, owner.Hex()), table.Row{"#", "Token ID"})
	for i, id := range ids {
		t.AppendRow(table.Row{i, id.String()})
	}
	t.AppendFooter(table.Row{"Total", len(ids)})
	t.Render()
}
