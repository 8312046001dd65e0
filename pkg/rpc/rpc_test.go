package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"holdersnap/pkg/chains"

	"github.com/stretchr/testify/assert"
)

func newNode(t *testing.T, chainID string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var result interface{}
		switch req.Method {
		case "eth_chainId":
			result = chainID
		case "eth_getBlockByNumber":
			result = map[string]interface{}{
				"number":           "0x1000",
				"hash":             "0x0000000000000000000000000000000000000000000000000000000000000001",
				"parentHash":       "0x0000000000000000000000000000000000000000000000000000000000000002",
				"sha3Uncles":       "0x1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347",
				"timestamp":        "0x5f5e1000",
				"miner":            "0x0000000000000000000000000000000000000000",
				"gasLimit":         "0x1",
				"gasUsed":          "0x0",
				"difficulty":       "0x0",
				"extraData":        "0x",
				"mixHash":          "0x0000000000000000000000000000000000000000000000000000000000000000",
				"nonce":            "0x0000000000000000",
				"stateRoot":        "0x0000000000000000000000000000000000000000000000000000000000000000",
				"receiptsRoot":     "0x0000000000000000000000000000000000000000000000000000000000000000",
				"transactionsRoot": "0x0000000000000000000000000000000000000000000000000000000000000001",
				"logsBloom":        "0x" + strings.Repeat("00", 256),
			}
		default:
			result = "0x0"
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckRPC(t *testing.T) {
	node := newNode(t, "0x89")

	res := CheckRPC(context.Background(), node.URL, chains.Polygon)
	assert.Equal(t, "ok", res.Status, res.Error)
	assert.Equal(t, int64(137), res.ChainID)
	assert.Equal(t, uint64(0x1000), res.BlockNumber)
	assert.Empty(t, res.Error)
}

func TestCheckRPCChainMismatch(t *testing.T) {
	node := newNode(t, "0x1")

	res := CheckRPC(context.Background(), node.URL, chains.Polygon)
	assert.Equal(t, "error", res.Status)
	assert.Equal(t, int64(1), res.ChainID)
	assert.Contains(t, res.Error, "chain ID mismatch")
}

func TestCheckRPCUnreachable(t *testing.T) {
	node := newNode(t, "0x89")
	url := node.URL
	node.Close()

	res := CheckRPC(context.Background(), url, chains.Polygon)
	assert.Equal(t, "error", res.Status)
	assert.NotEmpty(t, res.Error)
}
