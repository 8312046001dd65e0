package loader

import (
	"context"
	"strconv"
	"sync"
	"time"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/metrics"
	"holdersnap/pkg/models"
	"holdersnap/pkg/paging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DataSource defines the interface for fetching data.
type DataSource interface {
	ContractInfo(ctx context.Context, chain chains.ID, address string) (models.ContractInfo, error)
	TokenMetadata(ctx context.Context, chain chains.ID, address, tokenID string) (*models.TokenMetadata, error)
	TokenBalances(ctx context.Context, chain chains.ID, address string, page int) (paging.PageInfo, []models.Balance, error)
}

// Coordinator turns query changes into state transitions. Every change bumps
// a generation counter; a load may only commit its result while the
// generation it started under is still current, so a superseded load can
// never overwrite the state of a newer query.
type Coordinator struct {
	source   DataSource
	maxPages int
	logger   *zap.Logger

	mu          sync.RWMutex
	generation  uint64
	query       models.Query
	state       State
	subscribers []Subscriber

	inflight sync.WaitGroup
}

// NewCoordinator creates a coordinator in the Empty state. maxPages caps the
// number of balance pages requested per load; zero means no cap.
func NewCoordinator(source DataSource, maxPages int, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		source:   source,
		maxPages: maxPages,
		logger:   logger.Named("Coordinator"),
		state:    Empty{},
	}
}

// Subscribe adds a new subscriber and returns a channel to receive events.
func (c *Coordinator) Subscribe() Subscriber {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(Subscriber, 100)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (c *Coordinator) Unsubscribe(ch Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Query returns the query the current state belongs to.
func (c *Coordinator) Query() models.Query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// Generation returns the current query generation.
func (c *Coordinator) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Snapshot returns the current generation and state together.
func (c *Coordinator) Snapshot() (uint64, State) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation, c.state
}

// SetQuery normalizes q and, if it differs from the current query, starts a
// new load for it. It reports whether a new generation was started. ctx
// bounds the network calls of the load and must outlive the caller when the
// caller is a short-lived request.
func (c *Coordinator) SetQuery(ctx context.Context, q models.Query) bool {
	q = q.Normalized()

	c.mu.Lock()
	defer c.mu.Unlock()
	if q == c.query {
		return false
	}
	c.start(ctx, q)
	return true
}

// Refresh reloads the current query under a new generation.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start(ctx, c.query)
}

// Wait blocks until every load started so far has either committed or been
// discarded.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

// start must be called with c.mu held.
func (c *Coordinator) start(ctx context.Context, q models.Query) {
	c.generation++
	gen := c.generation
	c.query = q

	c.logger.Debug("Query changed",
		zap.Uint64("generation", gen),
		zap.Int64("chainID", int64(q.Chain)),
		zap.String("address", q.Address),
		zap.String("tokenID", q.TokenID),
	)

	if q.Address == "" {
		c.commitLocked(gen, Empty{})
		return
	}

	c.commitLocked(gen, Fetching{Query: q})
	metrics.LoadsStarted.WithLabelValues(chainLabel(q.Chain)).Inc()

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.load(ctx, gen, q)
	}()
}

func (c *Coordinator) load(ctx context.Context, gen uint64, q models.Query) {
	start := time.Now()
	st := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	label := chainLabel(q.Chain)
	if gen != c.generation {
		metrics.LoadsSuperseded.WithLabelValues(label).Inc()
		c.logger.Debug("Discarding superseded result",
			zap.Uint64("generation", gen),
			zap.Uint64("current", c.generation),
			zap.String("outcome", st.Kind()),
		)
		return
	}

	c.commitLocked(gen, st)
	metrics.LoadLatency.WithLabelValues(label).Observe(time.Since(start).Seconds())
	metrics.LoadsCompleted.WithLabelValues(label, st.Kind()).Inc()

	switch s := st.(type) {
	case Ok:
		metrics.HoldersReturned.WithLabelValues(label).Set(float64(len(s.Balances)))
		c.logger.Info("Holders loaded",
			zap.Uint64("generation", gen),
			zap.String("address", q.Address),
			zap.Int("holders", len(s.Balances)),
			zap.Duration("took", time.Since(start)),
		)
	case Error:
		c.logger.Warn("Load failed",
			zap.Uint64("generation", gen),
			zap.String("address", q.Address),
			zap.String("error", s.Message),
		)
	}
}

// fetch issues the contract info, token metadata and balance requests
// together. It returns as soon as one of them fails; the others are left to
// finish on their own.
func (c *Coordinator) fetch(ctx context.Context, q models.Query) State {
	var (
		info      models.ContractInfo
		tokenInfo *models.TokenMetadata
		balances  []models.Balance
	)
	filter := q.HasTokenFilter()

	g, gctx := errgroup.WithContext(ctx)
	failed := make(chan error, 3)
	run := func(f func() error) {
		g.Go(func() error {
			err := f()
			if err != nil {
				failed <- err
			}
			return err
		})
	}

	run(func() error {
		var err error
		info, err = c.source.ContractInfo(gctx, q.Chain, q.Address)
		return err
	})
	if filter {
		run(func() error {
			var err error
			tokenInfo, err = c.source.TokenMetadata(gctx, q.Chain, q.Address, q.TokenID)
			return err
		})
	}
	run(func() error {
		var err error
		balances, err = paging.FetchAll(gctx, func(ctx context.Context, page int) (paging.PageInfo, []models.Balance, error) {
			return c.source.TokenBalances(ctx, q.Chain, q.Address, page)
		}, c.maxPages)
		return err
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-failed:
		return Error{Query: q, Message: ErrorMessage(err)}
	case err := <-done:
		if err != nil {
			return Error{Query: q, Message: ErrorMessage(err)}
		}
	}

	if filter {
		balances = FilterByTokenID(balances, q.TokenID)
	}
	return Ok{Query: q, Balances: balances, ContractInfo: info, TokenInfo: tokenInfo}
}

// commitLocked must be called with c.mu held.
func (c *Coordinator) commitLocked(gen uint64, st State) {
	c.state = st
	event := Event{Type: EventStateChanged, Generation: gen, State: st}
	for _, sub := range c.subscribers {
		select {
		case sub <- event:
		default:
			c.logger.Warn("Subscriber is slow, dropping event", zap.String("state", st.Kind()))
		}
	}
}

func chainLabel(id chains.ID) string {
	if c, ok := chains.ByID(id); ok {
		return c.Name
	}
	return strconv.FormatInt(int64(id), 10)
}
