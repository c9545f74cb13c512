// Package http exposes the JSON API: account, transaction and
// obligation CRUD, the outstanding schedule, and the balance forecast.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bilancio/internal/amqp"
	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/metrics"
)

// Store is the persistence surface the handlers need; implemented by
// *storage.Repository.
type Store interface {
	Ping(ctx context.Context) error

	CreateAccount(ctx context.Context, a core.Account) (int64, error)
	GetAccount(ctx context.Context, id int64) (*core.Account, error)
	ListAccounts(ctx context.Context, onlyActive bool) ([]core.Account, error)
	SetAccountActive(ctx context.Context, id int64, active bool) error

	ListSubCategories(ctx context.Context) ([]core.SubCategory, error)

	CreateObligation(ctx context.Context, ob core.RecurringObligation) (int64, error)
	UpdateObligation(ctx context.Context, ob core.RecurringObligation) error
	SetObligationActive(ctx context.Context, id int64, active bool) error
	GetObligation(ctx context.Context, id int64) (*core.RecurringObligation, error)
	ListObligations(ctx context.Context, accountID int64, onlyActive bool) ([]core.RecurringObligation, error)

	CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	ListTransactions(ctx context.Context, accountID int64) ([]core.Transaction, error)

	LoadSnapshot(ctx context.Context, accountID int64, today core.Date) (forecast.Snapshot, error)
}

// EventPublisher pushes account-change events toward the forecast
// worker; implemented by *amqp.Client. Nil when AMQP is not configured.
type EventPublisher interface {
	PublishAccountChanged(ctx context.Context, msg *amqp.AccountChangedMessage) error
}

type cachedForecast struct {
	date   string
	result forecast.Result
}

type Server struct {
	http.Server

	store   Store
	events  EventPublisher
	metrics *metrics.Metrics

	forecastCache *cache.LRU[cachedForecast]
	cacheManager  *cache.Manager

	// now is injected so tests control "today".
	now func() time.Time
}

// Options tune the server beyond its dependencies.
type Options struct {
	CacheTTL  time.Duration
	CacheSize int
	Now       func() time.Time
}

func NewServer(addr string, store Store, events EventPublisher, m *metrics.Metrics, opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		store:         store,
		events:        events,
		metrics:       m,
		forecastCache: cache.NewLRU[cachedForecast](opts.CacheSize, opts.CacheTTL),
		cacheManager:  cache.NewManager(),
		now:           opts.Now,
	}
	s.cacheManager.Register(s.forecastCache)
	s.cacheManager.StartCleanup(time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if m != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("GET /api/subcategories", s.handleListSubCategories)

	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeactivateAccount)

	mux.HandleFunc("POST /api/accounts/{id}/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/accounts/{id}/transactions", s.handleListTransactions)
	mux.HandleFunc("PUT /api/accounts/{id}/transactions/{txId}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/accounts/{id}/transactions/{txId}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/accounts/{id}/obligations", s.handleCreateObligation)
	mux.HandleFunc("GET /api/accounts/{id}/obligations", s.handleListObligations)
	mux.HandleFunc("PUT /api/obligations/{id}", s.handleUpdateObligation)
	mux.HandleFunc("DELETE /api/obligations/{id}", s.handleDeactivateObligation)

	mux.HandleFunc("GET /api/accounts/{id}/schedule", s.handleSchedule)
	mux.HandleFunc("GET /api/accounts/{id}/forecast", s.handleForecast)

	mux.HandleFunc("POST /api/split", s.handleSplit)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.withMiddleware(mux),
	}
	return s
}

// Shutdown stops the cache cleanup goroutine and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cacheManager.StopCleanup()
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Health check database ping failed", "error", err)
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// publishAccountChanged tells the worker this account's forecast is
// stale and drops the local cache entry. Best effort: a publish failure
// is logged, never surfaced to the user.
func (s *Server) publishAccountChanged(ctx context.Context, accountID int64, reason string) {
	s.forecastCache.Delete(cacheKey(accountID))

	if s.events == nil {
		return
	}
	msg := amqp.NewAccountChangedMessage(accountID, reason)
	if err := s.events.PublishAccountChanged(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish account change",
			"account_id", accountID,
			"reason", reason,
			"error", err)
	}
}
