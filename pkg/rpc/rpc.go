// Package rpc verifies the optional JSON-RPC endpoints configured per chain.
package rpc

import (
	"context"
	"fmt"
	"time"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/models"

	"github.com/ethereum/go-ethereum/ethclient"
)

var CheckTimeout = 10 * time.Second

// CheckRPC dials url, asks for its chain ID and latest header, and reports an
// error when the node belongs to a different chain than expected.
func CheckRPC(ctx context.Context, url string, expected chains.ID) models.RPCResult {
	res := models.RPCResult{URL: url, Status: "error"}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		res.Error = fmt.Sprintf("eth_chainId: %v", err)
		return res
	}
	res.ChainID = chainID.Int64()
	if chains.ID(res.ChainID) != expected {
		res.Error = fmt.Sprintf("chain ID mismatch: expected %d, got %d", expected, res.ChainID)
		return res
	}

	start := time.Now()
	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		res.Error = fmt.Sprintf("eth_getBlockByNumber: %v", err)
		return res
	}
	res.LatencyMS = time.Since(start).Milliseconds()
	res.BlockNumber = header.Number.Uint64()
	res.Status = "ok"
	return res
}
