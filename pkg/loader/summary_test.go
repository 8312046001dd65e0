package loader

import (
	"testing"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		ok   Ok
		want string
	}{
		{
			name: "named contract",
			ok: Ok{
				Query:        models.Query{Chain: chains.Polygon, Address: "0xc0ffee"},
				ContractInfo: models.ContractInfo{Type: "ERC20", Name: "USD Coin", Address: "0xc0ffee"},
				Balances:     []models.Balance{{}, {}},
			},
			want: "ERC20 contract USD Coin on Polygon has 2 unique holders.",
		},
		{
			name: "unknown type falls back to address",
			ok: Ok{
				Query:        models.Query{Chain: chains.Gnosis, Address: "0xc0ffee"},
				ContractInfo: models.ContractInfo{Address: "0xC0FFEE"},
				Balances:     []models.Balance{{}},
			},
			want: "Unknown ERC token type contract 0xC0FFEE on Gnosis has 1 unique holder.",
		},
		{
			name: "token name",
			ok: Ok{
				Query:        models.Query{Chain: chains.Polygon, Address: "0xc0ffee", TokenID: "7"},
				ContractInfo: models.ContractInfo{Type: "ERC1155", Name: "Skyweaver"},
				TokenInfo:    &models.TokenMetadata{Name: "Golden Card"},
			},
			want: "ERC1155 contract Skyweaver on Polygon has 0 unique holders of token Golden Card.",
		},
		{
			name: "token id without metadata",
			ok: Ok{
				Query:        models.Query{Chain: chains.Mainnet, Address: "0xc0ffee", TokenID: "65590"},
				ContractInfo: models.ContractInfo{Type: "ERC1155", Name: "Skyweaver"},
				Balances:     []models.Balance{{}, {}, {}},
			},
			want: "ERC1155 contract Skyweaver on Ethereum has 3 unique holders of token 65590.",
		},
		{
			name: "invalid token id is not claimed",
			ok: Ok{
				Query:        models.Query{Chain: chains.Mainnet, Address: "0xc0ffee", TokenID: "01"},
				ContractInfo: models.ContractInfo{Type: "ERC1155", Name: "Skyweaver"},
				Balances:     []models.Balance{{}, {}, {}},
			},
			want: "ERC1155 contract Skyweaver on Ethereum has 3 unique holders.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.ok).String())
		})
	}
}
