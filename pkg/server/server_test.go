package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/export"
	"holdersnap/pkg/loader"
	"holdersnap/pkg/models"
	"holdersnap/pkg/paging"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource answers every contract with the same two holders.
type stubSource struct{}

func (stubSource) ContractInfo(ctx context.Context, chain chains.ID, address string) (models.ContractInfo, error) {
	return models.ContractInfo{Address: address, Name: "Stub", Type: "ERC20"}, nil
}

func (stubSource) TokenMetadata(ctx context.Context, chain chains.ID, address, tokenID string) (*models.TokenMetadata, error) {
	return nil, nil
}

func (stubSource) TokenBalances(ctx context.Context, chain chains.ID, address string, page int) (paging.PageInfo, []models.Balance, error) {
	return paging.PageInfo{}, []models.Balance{
		{AccountAddress: "0xAAA", Balance: "10"},
		{AccountAddress: "0xBBB", Balance: "5"},
	}, nil
}

func newTestServer(t *testing.T) (*Server, *loader.Coordinator) {
	t.Helper()
	coord := loader.NewCoordinator(stubSource{}, 0, nil)
	return NewServer(context.Background(), coord, time.Minute, nil), coord
}

func serve(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer(t)

	rr := serve(s, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "empty", resp["state"])
	assert.NotContains(t, resp, "balances")
}

func TestQueryThenExport(t *testing.T) {
	s, coord := newTestServer(t)

	rr := serve(s, http.MethodPost, "/api/query", `{"chain":"bsc","contract":"c0ffee"}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	coord.Wait()

	rr = serve(s, http.MethodGet, "/api/status", "")
	var view stateView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "ok", view.State)
	assert.Equal(t, "ERC20 contract Stub on BSC has 2 unique holders.", view.Summary)
	assert.Len(t, view.Balances, 2)

	rr = serve(s, http.MethodGet, "/api/export.csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, export.MIMEType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "holders-bsc-0xc0ffee.csv")
	assert.Equal(t, "address,balance\n0xAAA,10\n0xBBB,5", rr.Body.String())
}

func TestExportWithoutLoad(t *testing.T) {
	s, _ := newTestServer(t)
	rr := serve(s, http.MethodGet, "/api/export.csv", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestExportFromSnapshotCache(t *testing.T) {
	s, coord := newTestServer(t)
	go s.listen()

	coord.SetQuery(context.Background(), models.Query{Chain: chains.Polygon, Address: "0xc0ffee"})
	coord.Wait()
	coord.SetQuery(context.Background(), models.Query{Chain: chains.Polygon, Address: ""})

	require.Eventually(t, func() bool {
		_, found := s.cache.Get(snapshotKey(models.Query{Chain: chains.Polygon, Address: "0xc0ffee"}))
		return found
	}, time.Second, 5*time.Millisecond)

	rr := serve(s, http.MethodGet, "/api/export.csv?chain=137&contract=C0FFEE", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "address,balance\n0xAAA,10\n0xBBB,5", rr.Body.String())

	rr = serve(s, http.MethodGet, "/api/export.csv?chain=137&contract=0xdead", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleQueryRejectsBadInput(t *testing.T) {
	s, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, serve(s, http.MethodPost, "/api/query", `{"chain":"ropsten","contract":"0x1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(s, http.MethodPost, "/api/query", `{`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(s, http.MethodGet, "/api/query", "").Code)
}

func TestHandleRefresh(t *testing.T) {
	s, coord := newTestServer(t)
	coord.SetQuery(context.Background(), models.Query{Chain: chains.Polygon, Address: "0xc0ffee"})
	coord.Wait()

	rr := serve(s, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusAccepted, rr.Code)
	coord.Wait()
	assert.Equal(t, uint64(2), coord.Generation())
}

func TestMetricsEndpoint(t *testing.T) {
	s, coord := newTestServer(t)
	coord.SetQuery(context.Background(), models.Query{Chain: chains.Polygon, Address: "0xc0ffee"})
	coord.Wait()

	rr := serve(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "holdersnap_loader_loads_started_total")
}

func TestHandleWS(t *testing.T) {
	s, coord := newTestServer(t)
	go s.listen()
	server := httptest.NewServer(s.mux)
	defer server.Close()

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	var msg wsMessage
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, "initial", msg.Type)
	assert.Equal(t, "empty", msg.Data.State)

	coord.SetQuery(context.Background(), models.Query{Chain: chains.Polygon, Address: "0xc0ffee"})

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, string(loader.EventStateChanged), msg.Type)
	assert.Equal(t, "fetching", msg.Data.State)

	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, "ok", msg.Data.State)
	assert.Equal(t, uint64(1), msg.Data.Generation)
	assert.Len(t, msg.Data.Balances, 2)
}
