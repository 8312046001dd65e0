package models

import (
	"holdersnap/pkg/chains"
	"holdersnap/pkg/utils"
)

// Balance is one holder entry as reported by the indexer.
type Balance struct {
	ContractType    string `json:"contractType,omitempty"`
	ContractAddress string `json:"contractAddress,omitempty"`
	AccountAddress  string `json:"accountAddress"`
	TokenID         string `json:"tokenID"`
	Balance         string `json:"balance"`
	BlockHash       string `json:"blockHash,omitempty"`
	BlockNumber     uint64 `json:"blockNumber,omitempty"`
	ChainID         int64  `json:"chainId,omitempty"`
}

// ContractInfo describes a token contract.
type ContractInfo struct {
	ChainID  int64  `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Symbol   string `json:"symbol"`
	Decimals *int   `json:"decimals,omitempty"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// TokenMetadata describes a single token ID of a contract.
type TokenMetadata struct {
	TokenID     string `json:"tokenId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Decimals    *int   `json:"decimals,omitempty"`
}

// Query is what the user asked for: a contract on a chain, optionally
// narrowed to one token ID.
type Query struct {
	Chain   chains.ID `json:"chainId"`
	Address string    `json:"address"`
	TokenID string    `json:"tokenId,omitempty"`
}

// Normalized trims the query and prefixes the address with 0x.
func (q Query) Normalized() Query {
	q.Address = utils.NormalizeAddress(q.Address)
	return q
}

// HasTokenFilter reports whether the token ID is present and well-formed.
func (q Query) HasTokenFilter() bool {
	return q.TokenID != "" && utils.IsValidTokenID(q.TokenID)
}

// ServiceResult holds the result of a health check against one endpoint.
type ServiceResult struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error,omitempty"`
}

// RPCResult holds test results for a specific RPC URL.
type RPCResult struct {
	URL         string `json:"url"`
	Status      string `json:"status"` // "ok" or "error"
	ChainID     int64  `json:"chain_id,omitempty"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	LatencyMS   int64  `json:"latency_ms,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ChainResult holds test results for a specific chain.
type ChainResult struct {
	Name    string        `json:"name"`
	ChainID int64         `json:"chain_id"`
	Indexer ServiceResult `json:"indexer"`
	RPCs    []RPCResult   `json:"rpcs,omitempty"`
}

// TestReport holds the results of the configuration test.
type TestReport struct {
	ConfigPath      string        `json:"config_path"`
	ValidStructure  bool          `json:"valid_structure"`
	StructureErrors []string      `json:"structure_errors,omitempty"`
	Metadata        ServiceResult `json:"metadata"`
	Chains          []ChainResult `json:"chains,omitempty"`
	Healthy         bool          `json:"healthy"`
}
