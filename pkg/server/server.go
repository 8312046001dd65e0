// Package server exposes the coordinator over HTTP and a websocket stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/export"
	"holdersnap/pkg/loader"
	"holdersnap/pkg/metrics"
	"holdersnap/pkg/models"

	"github.com/gorilla/websocket"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	coord  *loader.Coordinator
	ctx    context.Context
	cache  *gocache.Cache
	logger *zap.Logger
	sub    loader.Subscriber

	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	mux     *http.ServeMux
}

// NewServer subscribes to coord right away so no state change is missed
// before Run starts forwarding them. Loads triggered over HTTP run under ctx.
// Completed holder lists are kept for snapshotTTL for CSV downloads.
func NewServer(ctx context.Context, coord *loader.Coordinator, snapshotTTL time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if snapshotTTL <= 0 {
		snapshotTTL = gocache.NoExpiration
	}
	s := &Server{
		coord:   coord,
		ctx:     ctx,
		cache:   gocache.New(snapshotTTL, 2*snapshotTTL),
		logger:  logger.Named("Server"),
		sub:     coord.Subscribe(),
		clients: make(map[*websocket.Conn]bool),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/query", s.handleQuery)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)
	s.mux.HandleFunc("/api/export.csv", s.handleExport)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on port until ctx is canceled.
func (s *Server) Run(ctx context.Context, port int) error {
	go s.listen()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("API server listening", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.coord.Unsubscribe(s.sub)
	return nil
}

// stateView is the JSON form of a coordinator state.
type stateView struct {
	State        string                `json:"state"`
	Generation   uint64                `json:"generation"`
	Query        *models.Query         `json:"query,omitempty"`
	Summary      string                `json:"summary,omitempty"`
	ContractInfo *models.ContractInfo  `json:"contractInfo,omitempty"`
	TokenInfo    *models.TokenMetadata `json:"tokenInfo,omitempty"`
	Balances     []models.Balance      `json:"balances,omitempty"`
	Error        string                `json:"error,omitempty"`
}

func newStateView(gen uint64, st loader.State) stateView {
	v := stateView{State: st.Kind(), Generation: gen}
	switch st := st.(type) {
	case loader.Fetching:
		v.Query = &st.Query
	case loader.Ok:
		v.Query = &st.Query
		v.Summary = loader.Summarize(st).String()
		v.ContractInfo = &st.ContractInfo
		v.TokenInfo = st.TokenInfo
		v.Balances = st.Balances
	case loader.Error:
		v.Query = &st.Query
		v.Error = st.Message
	}
	return v
}

type queryRequest struct {
	Chain    string `json:"chain"`
	Contract string `json:"contract"`
	TokenID  string `json:"token_id"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, newStateView(s.coord.Generation(), s.coord.State()))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	chain, err := chains.Parse(req.Chain)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	changed := s.coord.SetQuery(s.ctx, models.Query{Chain: chain.ID, Address: req.Contract, TokenID: req.TokenID})
	s.logger.Debug("Query received", zap.String("chain", chain.Name), zap.String("contract", req.Contract), zap.Bool("changed", changed))
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"changed":    changed,
		"generation": s.coord.Generation(),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.coord.Refresh(s.ctx)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"generation": s.coord.Generation()})
}

// handleExport serves the current holder list, or a cached one when the
// request names a chain and contract.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		ok     loader.Ok
		source string
	)
	params := r.URL.Query()
	if params.Get("contract") != "" {
		chain, err := chains.Parse(params.Get("chain"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		q := models.Query{Chain: chain.ID, Address: params.Get("contract"), TokenID: params.Get("token_id")}.Normalized()
		cached, found := s.cache.Get(snapshotKey(q))
		if !found {
			writeError(w, http.StatusNotFound, "no snapshot for this contract")
			return
		}
		ok, source = cached.(loader.Ok), "cache"
	} else {
		current, isOk := s.coord.State().(loader.Ok)
		if !isOk {
			writeError(w, http.StatusConflict, "no completed load to export")
			return
		}
		ok, source = current, "current"
	}

	if len(ok.Balances) == 0 {
		writeError(w, http.StatusNotFound, "contract has no holders")
		return
	}

	chain, _ := chains.ByID(ok.Query.Chain)
	metrics.SnapshotDownloads.WithLabelValues(source).Inc()
	w.Header().Set("Content-Type", export.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(chain, ok.Query)))
	_, _ = w.Write([]byte(export.CSV(ok.Balances)))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	s.mu.Lock()
	err = conn.WriteJSON(wsMessage{
		Type: "initial",
		Data: newStateView(s.coord.Generation(), s.coord.State()),
	})
	if err == nil {
		s.clients[conn] = true
	}
	s.mu.Unlock()
	if err != nil {
		return
	}

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

type wsMessage struct {
	Type string    `json:"type"`
	Data stateView `json:"data"`
}

func (s *Server) listen() {
	for event := range s.sub {
		if ok, isOk := event.State.(loader.Ok); isOk {
			s.cache.SetDefault(snapshotKey(ok.Query), ok)
		}
		s.broadcast(event)
	}
}

func (s *Server) broadcast(event loader.Event) {
	msg := wsMessage{Type: string(event.Type), Data: newStateView(event.Generation, event.State)}

	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(msg); err != nil {
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}

func snapshotKey(q models.Query) string {
	return fmt.Sprintf("%d:%s:%s", q.Chain, strings.ToLower(q.Address), q.TokenID)
}
