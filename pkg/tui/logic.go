package tui

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"holdersnap/pkg/loader"
	"holdersnap/pkg/models"
	"holdersnap/pkg/utils"

	tea "github.com/charmbracelet/bubbletea"
)

// maxGraphPoints caps how many holders the distribution graph plots.
const maxGraphPoints = 120

// query builds the coordinator query from the current form values.
func (m model) query() models.Query {
	return models.Query{
		Chain:   m.activeChain().ID,
		Address: m.addressInput.Value(),
		TokenID: strings.TrimSpace(m.tokenInput.Value()),
	}
}

// tokenFieldVisible reports whether the token ID input is shown: when a token
// ID has been typed, or when the loaded contract is an ERC1155.
func tokenFieldVisible(tokenID string, st loader.State) bool {
	if strings.TrimSpace(tokenID) != "" {
		return true
	}
	ok, isOk := st.(loader.Ok)
	return isOk && ok.ContractInfo.Type == "ERC1155"
}

// tokenIDProblem returns the inline validation text for a token ID. An
// invalid ID only disables filtering; it never blocks the contract load.
func tokenIDProblem(tokenID string) string {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" || utils.IsValidTokenID(tokenID) {
		return ""
	}
	return "Token ID must be a whole number without leading zeros or sign"
}

func errorMessage(st loader.State) string {
	if e, isErr := st.(loader.Error); isErr {
		return e.Message
	}
	return ""
}

func holders(st loader.State) []models.Balance {
	if ok, isOk := st.(loader.Ok); isOk {
		return ok.Balances
	}
	return nil
}

func canDownload(st loader.State) bool {
	return len(holders(st)) > 0
}

// decimalsOf prefers the token's own decimals over the contract's.
func decimalsOf(ok loader.Ok) int {
	if ok.TokenInfo != nil && ok.TokenInfo.Decimals != nil {
		return *ok.TokenInfo.Decimals
	}
	if ok.ContractInfo.Decimals != nil {
		return *ok.ContractInfo.Decimals
	}
	return 0
}

// formatBalance scales a raw balance for display, falling back to the raw
// text when it is not an integer.
func formatBalance(raw string, decimals int) string {
	f := utils.ScaleBalance(raw, decimals)
	if f == nil {
		return raw
	}
	shown := decimals
	if shown > 6 {
		shown = 6
	}
	return utils.FormatBigFloat(f, shown)
}

// holderTable renders one line per holder for the scrollable viewport.
func holderTable(ok loader.Ok) string {
	if len(ok.Balances) == 0 {
		return "No holders found."
	}
	decimals := decimalsOf(ok)
	showToken := ok.Query.TokenID == "" && ok.ContractInfo.Type == "ERC1155"

	var sb strings.Builder
	for i, b := range ok.Balances {
		line := fmt.Sprintf("%5d  %-42s  %24s", i+1, utils.ChecksumAddress(b.AccountAddress), formatBalance(b.Balance, decimals))
		if showToken {
			line += fmt.Sprintf("  #%s", utils.TruncateString(b.TokenID, 20))
		}
		sb.WriteString(line)
		if i < len(ok.Balances)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// distribution returns the largest scaled balances in descending order, for
// plotting.
func distribution(ok loader.Ok) []float64 {
	decimals := decimalsOf(ok)
	values := make([]float64, 0, len(ok.Balances))
	for _, b := range ok.Balances {
		f := utils.ScaleBalance(b.Balance, decimals)
		if f == nil {
			continue
		}
		values = append(values, utils.BigFloatToFloat64(f))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	if len(values) > maxGraphPoints {
		values = values[:maxGraphPoints]
	}
	return values
}

// totalSupplyHeld sums every listed balance.
func totalSupplyHeld(ok loader.Ok) *big.Float {
	total := new(big.Float)
	decimals := decimalsOf(ok)
	for _, b := range ok.Balances {
		if f := utils.ScaleBalance(b.Balance, decimals); f != nil {
			total.Add(total, f)
		}
	}
	return total
}

func listenForState(sub loader.Subscriber) tea.Cmd {
	return func() tea.Msg {
		ev, open := <-sub
		if !open {
			return nil
		}
		return ev
	}
}
