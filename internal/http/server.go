package http

import (
	"container/list"
	"context"
	"net/http"
	"sync"
	"time"

	"patrimonio/internal/core"
	"patrimonio/internal/services"
)

// lruCache with TTL and size-based eviction, used for the dashboard
// aggregation endpoints.
type lruCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func newLRUCache[T any](maxSize int, ttl time.Duration) *lruCache[T] {
	return &lruCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *lruCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if time.Now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *lruCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Clear drops every entry. Called after any ledger mutation so the
// aggregation endpoints never serve stale totals.
func (c *lruCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

func (c *lruCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

type Server struct {
	http.Server

	// TrendDefaultDays is the trend window served when the request
	// carries no days parameter. ListLimit caps transaction listings
	// without an explicit limit. Both overridable from configuration
	// after construction.
	TrendDefaultDays int
	ListLimit        int

	categories *services.CategoryService
	ledger     *services.LedgerService
	journal    *services.JournalService
	snapshots  *services.SnapshotService

	rateLimiter *rateLimiter

	summaryCache *lruCache[core.AssetSummary]
	trendCache   *lruCache[[]core.TrendPoint]

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter for mutating requests.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Up to 60 mutating requests per minute per client.
	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

// invalidateAggregates drops cached dashboard aggregations. Every
// handler that changes a balance calls this after a successful write.
func (s *Server) invalidateAggregates() {
	s.summaryCache.Clear()
	s.trendCache.Clear()
}

// Shutdown stops the rate limiter cleanup goroutine along with the
// HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// NewServer wires every API route and returns a ready-to-run server.
func NewServer(addr string, categories *services.CategoryService, ledger *services.LedgerService, journal *services.JournalService, snapshots *services.SnapshotService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		TrendDefaultDays: 30,
		ListLimit:        100,
		categories:       categories,
		ledger:           ledger,
		journal:          journal,
		snapshots:        snapshots,
		rateLimiter:      newRateLimiter(),
		summaryCache:     newLRUCache[core.AssetSummary](16, time.Minute),
		trendCache:       newLRUCache[[]core.TrendPoint](32, time.Minute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/accounts", s.withMiddleware(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withMiddleware(s.handleCreateAccount))
	mux.HandleFunc("GET /api/accounts/by-type", s.withMiddleware(s.handleAccountsByType))
	mux.HandleFunc("GET /api/accounts/{id}", s.withMiddleware(s.handleGetAccount))
	mux.HandleFunc("PUT /api/accounts/{id}", s.withMiddleware(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.withMiddleware(s.handleDeactivateAccount))
	mux.HandleFunc("POST /api/accounts/{id}/activate", s.withMiddleware(s.handleActivateAccount))
	mux.HandleFunc("POST /api/accounts/{id}/reconcile", s.withMiddleware(s.handleReconcileAccount))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handlePostTransaction))
	mux.HandleFunc("POST /api/transactions/batch-import", s.withMiddleware(s.handleBatchImport))
	mux.HandleFunc("POST /api/transactions/transfer", s.withMiddleware(s.handleTransfer))
	mux.HandleFunc("GET /api/transactions/categories", s.withMiddleware(s.handleTransactionCategories))
	mux.HandleFunc("GET /api/transactions/{id}", s.withMiddleware(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories/stats", s.withMiddleware(s.handleCategoryStats))
	mux.HandleFunc("GET /api/categories/{id}", s.withMiddleware(s.handleGetCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withMiddleware(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/analytics/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("GET /api/analytics/distribution", s.withMiddleware(s.handleDistribution))
	mux.HandleFunc("GET /api/analytics/income-expense", s.withMiddleware(s.handleIncomeExpense))
	mux.HandleFunc("GET /api/analytics/trend", s.withMiddleware(s.handleTrend))
	mux.HandleFunc("GET /api/analytics/monthly-stats", s.withMiddleware(s.handleMonthlyStats))
	mux.HandleFunc("GET /api/analytics/ratios", s.withMiddleware(s.handleRatios))
	mux.HandleFunc("GET /api/analytics/platforms", s.withMiddleware(s.handlePlatforms))
	mux.HandleFunc("POST /api/analytics/snapshot", s.withMiddleware(s.handleCreateSnapshot))
	mux.HandleFunc("GET /api/analytics/export-report", s.withMiddleware(s.handleExportReport))

	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.categories.List(r.Context()); err != nil {
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
