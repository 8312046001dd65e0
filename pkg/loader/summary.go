package loader

import (
	"fmt"

	"holdersnap/pkg/chains"
)

// Summary holds the pieces of the one-line description of an Ok state so
// front-ends can style them individually.
type Summary struct {
	Type     string
	Contract string
	Chain    string
	Holders  int
	// Token is empty unless the holders were filtered by token ID.
	Token string
}

// Summarize describes a completed load.
func Summarize(s Ok) Summary {
	sum := Summary{
		Type:     s.ContractInfo.Type,
		Contract: s.ContractInfo.Name,
		Holders:  len(s.Balances),
	}
	if sum.Type == "" {
		sum.Type = "Unknown ERC token type"
	}
	if sum.Contract == "" {
		sum.Contract = s.ContractInfo.Address
	}
	if sum.Contract == "" {
		sum.Contract = s.Query.Address
	}
	if c, ok := chains.ByID(s.Query.Chain); ok {
		sum.Chain = c.Name
	} else {
		sum.Chain = chainLabel(s.Query.Chain)
	}
	if s.Query.HasTokenFilter() {
		sum.Token = s.Query.TokenID
		if s.TokenInfo != nil && s.TokenInfo.Name != "" {
			sum.Token = s.TokenInfo.Name
		}
	}
	return sum
}

// HolderNoun is "holder" or "holders" depending on the count.
func (s Summary) HolderNoun() string {
	if s.Holders == 1 {
		return "holder"
	}
	return "holders"
}

func (s Summary) String() string {
	out := fmt.Sprintf("%s contract %s on %s has %d unique %s", s.Type, s.Contract, s.Chain, s.Holders, s.HolderNoun())
	if s.Token != "" {
		out += " of token " + s.Token
	}
	return out + "."
}
