package chains

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is an EVM chain identifier.
type ID int64

const (
	Mainnet      ID = 1
	Optimism     ID = 10
	BSC          ID = 56
	Gnosis       ID = 100
	Polygon      ID = 137
	Arbitrum     ID = 42161
	ArbitrumNova ID = 42170
	Avalanche    ID = 43114
)

// Default is the chain selected when nothing else is configured.
const Default = Polygon

// Color holds the display colour of a network for both themes.
type Color struct {
	Light string
	Dark  string
}

// Chain describes one supported network.
type Chain struct {
	ID         ID
	Name       string
	IndexerURL string
	Color      Color
}

func (c Chain) String() string {
	return c.Name
}

var (
	ethereumColor  = Color{Light: "#627EEA", Dark: "#8EA2F2"}
	polygonColor   = Color{Light: "#8247E5", Dark: "#A77CF0"}
	bscColor       = Color{Light: "#C99400", Dark: "#F3BA2F"}
	arbitrumColor  = Color{Light: "#1B4ADD", Dark: "#28A0F0"}
	avalancheColor = Color{Light: "#E84142", Dark: "#F06B6C"}
	gnosisColor    = Color{Light: "#04795B", Dark: "#3E9C7E"}
)

// supported is ordered the way the selector lists networks.
var supported = []Chain{
	{ID: Mainnet, Name: "Ethereum", IndexerURL: "https://mainnet-indexer.sequence.app", Color: ethereumColor},
	{ID: Polygon, Name: "Polygon", IndexerURL: "https://polygon-indexer.sequence.app", Color: polygonColor},
	{ID: BSC, Name: "BSC", IndexerURL: "https://bsc-indexer.sequence.app", Color: bscColor},
	{ID: Optimism, Name: "Optimism", IndexerURL: "https://optimism-indexer.sequence.app", Color: ethereumColor},
	{ID: Arbitrum, Name: "Arbitrum", IndexerURL: "https://arbitrum-indexer.sequence.app", Color: arbitrumColor},
	{ID: ArbitrumNova, Name: "Arbitrum Nova", IndexerURL: "https://arbitrum-nova-indexer.sequence.app", Color: arbitrumColor},
	{ID: Avalanche, Name: "Avalanche", IndexerURL: "https://avalanche-indexer.sequence.app", Color: avalancheColor},
	{ID: Gnosis, Name: "Gnosis", IndexerURL: "https://gnosis-indexer.sequence.app", Color: gnosisColor},
}

// All returns the supported chains in display order.
func All() []Chain {
	out := make([]Chain, len(supported))
	copy(out, supported)
	return out
}

// ByID looks up a supported chain.
func ByID(id ID) (Chain, bool) {
	for _, c := range supported {
		if c.ID == id {
			return c, true
		}
	}
	return Chain{}, false
}

// Index returns the position of id in All(), or -1.
func Index(id ID) int {
	for i, c := range supported {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Parse accepts either a numeric chain ID or a case-insensitive chain name.
func Parse(s string) (Chain, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		c, _ := ByID(Default)
		return c, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if c, ok := ByID(ID(n)); ok {
			return c, nil
		}
		return Chain{}, fmt.Errorf("unsupported chain id %d", n)
	}
	for _, c := range supported {
		if strings.EqualFold(c.Name, s) || strings.EqualFold(strings.ReplaceAll(c.Name, " ", "-"), s) {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("unsupported chain %q", s)
}
