package gasreport

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/soulbond/warpets-deployer/internal/ux"
)

// Render writes entries as a table with the average cost of each method.
func Render(w io.Writer, entries []Entry, prices Prices) {
	gasPriceGwei := "-"
	if prices.GasPrice != nil {
		gasPriceGwei = formatUnits(prices.GasPrice, params.GWei, 2)
	}

	header := table.Row{"Contract", "Method", "Min", "Max", "Avg", "# calls", fmt.Sprintf("%s (avg)", prices.Token)}
	if prices.TokenPrice > 0 {
		header = append(header, fmt.Sprintf("%s (avg)", prices.Currency))
	}

	t := ux.DefaultTable(w, fmt.Sprintf("Gas usage @ %s gwei/gas", gasPriceGwei), header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	for _, entry := range entries {
		minGas, maxGas := fmt.Sprint(entry.Min), fmt.Sprint(entry.Max)
		// a single call has no spread
		if entry.Calls == 1 {
			minGas, maxGas = "-", "-"
		}

		row := table.Row{entry.Contract, entry.Method, minGas, maxGas, entry.Avg(), entry.Calls}

		cost := Cost(entry.Avg(), prices.GasPrice)
		if cost == nil {
			row = append(row, "-")
		} else {
			row = append(row, formatUnits(cost, params.Ether, 5))
		}
		if prices.TokenPrice > 0 {
			row = append(row, fmt.Sprintf("%.2f", FiatCost(cost, prices.TokenPrice)))
		}

		t.AppendRow(row)
	}

	t.Render()
}

// Cost is gas * gasPrice in wei, or nil when the gas price is unknown.
func Cost(gas uint64, gasPrice *big.Int) *big.Int {
	if gasPrice == nil {
		return nil
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
}

// FiatCost converts a wei cost using the price of one whole token.
func FiatCost(cost *big.Int, tokenPrice float64) float64 {
	if cost == nil {
		return 0
	}

	tokens := new(big.Float).Quo(new(big.Float).SetInt(cost), big.NewFloat(params.Ether))
	fiat, _ := tokens.Mul(tokens, big.NewFloat(tokenPrice)).Float64()
	return fiat
}

func formatUnits(amount *big.Int, unit int64, decimals int) string {
	value := new(big.Float).Quo(new(big.Float).SetInt(amount), big.NewFloat(float64(unit)))
	return value.Text('f', decimals)
}
