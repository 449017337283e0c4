package server

import (
	"context"
	"sync"

	"github.com/teemow/contactstore/internal/people"
	"github.com/teemow/contactstore/internal/toolstore"
)

// ServerContext holds the shared state of the MCP server: the Tool Store
// client, the metrics registry, and the shutdown lifecycle.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	store    *toolstore.Client
	metrics  *Metrics
	mu       sync.RWMutex
	shutdown bool

	// newPeopleClient builds a People client from an access token.
	// Overridable in tests.
	newPeopleClient func(ctx context.Context, token string) *people.Client
}

// NewServerContext creates a new server context around a Tool Store client.
func NewServerContext(ctx context.Context, store *toolstore.Client) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		store:   store,
		metrics: NewMetrics(),
		newPeopleClient: func(ctx context.Context, token string) *people.Client {
			return people.NewClient(ctx, token)
		},
	}
}

// Context returns the server lifecycle context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Store returns the Tool Store client.
func (sc *ServerContext) Store() *toolstore.Client {
	return sc.store
}

// Metrics returns the server's metrics collectors.
func (sc *ServerContext) Metrics() *Metrics {
	return sc.metrics
}

// PeopleClient returns a People API client carrying a currently valid
// access token. Tokens are short-lived, so a fresh client is resolved per
// operation instead of being cached; the Tool Store client handles refresh
// and reuse of still-valid tokens underneath.
func (sc *ServerContext) PeopleClient(ctx context.Context) (*people.Client, error) {
	token, err := sc.store.AccessToken(ctx, "google")
	if err != nil {
		return nil, err
	}
	sc.mu.RLock()
	build := sc.newPeopleClient
	sc.mu.RUnlock()
	return build(ctx, token), nil
}

// SetPeopleClientFactory overrides how People clients are built. Used in
// tests.
func (sc *ServerContext) SetPeopleClientFactory(build func(ctx context.Context, token string) *people.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.newPeopleClient = build
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()
	return nil
}
