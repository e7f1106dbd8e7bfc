// Package http exposes the screen services as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"brancoapp/internal/cache"
	"brancoapp/internal/core"
	"brancoapp/internal/middleware/trace"
	"brancoapp/internal/services"
)

const (
	summaryCacheKey = "spese-summary"
	markedCacheKey  = "marked-dates"
)

type Server struct {
	http.Server
	calendario *services.CalendarioService
	rubrica    *services.RubricaService
	quote      *services.QuoteService
	presenze   *services.PresenzeService
	spese      *services.SpeseService

	rateLimiter *rateLimiter

	// Derived views are cheap to rebuild but hit on every screen load;
	// both caches are invalidated on the writes that affect them.
	summaryCache *cache.LRUCache[core.SpeseSummary]
	markedCache  *cache.LRUCache[map[string]core.MarkedDate]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string,
	calendario *services.CalendarioService,
	rubrica *services.RubricaService,
	quote *services.QuoteService,
	presenze *services.PresenzeService,
	spese *services.SpeseService,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		calendario:   calendario,
		rubrica:      rubrica,
		quote:        quote,
		presenze:     presenze,
		spese:        spese,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[core.SpeseSummary](8, 5*time.Minute),
		markedCache:  cache.NewLRUCache[map[string]core.MarkedDate](8, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.markedCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/calendario/events", s.handleListEvents)
	mux.HandleFunc("POST /api/calendario/events", s.handleCreateEvent)
	mux.HandleFunc("GET /api/calendario/events/{id}", s.handleGetEvent)
	mux.HandleFunc("PUT /api/calendario/events/{id}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /api/calendario/events/{id}", s.handleDeleteEvent)
	mux.HandleFunc("GET /api/calendario/days", s.handleDayEvents)
	mux.HandleFunc("GET /api/calendario/marked-dates", s.handleMarkedDates)

	mux.HandleFunc("GET /api/rubrica/members", s.handleListMembers)
	mux.HandleFunc("POST /api/rubrica/members", s.handleCreateMember)
	mux.HandleFunc("GET /api/rubrica/members/{id}", s.handleGetMember)
	mux.HandleFunc("PUT /api/rubrica/members/{id}", s.handleUpdateMember)
	mux.HandleFunc("DELETE /api/rubrica/members/{id}", s.handleDeleteMember)
	mux.HandleFunc("GET /api/rubrica/groups", s.handleGroupedLupetti)
	mux.HandleFunc("GET /api/rubrica/vvll", s.handleVVLLNames)

	mux.HandleFunc("GET /api/quote/ledger", s.handleLedger)
	mux.HandleFunc("PUT /api/quote/members/{id}/months/{mese}", s.handleUpdateMonthPayment)
	mux.HandleFunc("PUT /api/quote/members/{id}/extras/{key}", s.handleUpdateExtraPayment)
	mux.HandleFunc("POST /api/quote/members/{id}/paid", s.handleMarkQuotaPaid)

	mux.HandleFunc("GET /api/presenze/events", s.handlePresenzeEvents)
	mux.HandleFunc("GET /api/presenze/roster", s.handleRoster)
	mux.HandleFunc("GET /api/presenze/counts", s.handleCounts)
	mux.HandleFunc("POST /api/presenze/toggle", s.handleTogglePresenza)

	mux.HandleFunc("GET /api/spese", s.handleListSpese)
	mux.HandleFunc("POST /api/spese", s.handleCreateSpesa)
	mux.HandleFunc("PUT /api/spese/{id}", s.handleUpdateSpesa)
	mux.HandleFunc("DELETE /api/spese/{id}", s.handleDeleteSpesa)
	mux.HandleFunc("POST /api/spese/donazioni", s.handleAddDonazione)
	mux.HandleFunc("GET /api/spese/summary", s.handleSummary)
	mux.HandleFunc("POST /api/spese/rimborsi", s.handleEffettuaRimborso)

	traced := trace.NewMiddleware(extractClientIP)
	s.Server = http.Server{
		Addr:    addr,
		Handler: traced.Middleware(s.withSecurity(mux)),
	}
	return s
}

// Shutdown stops the background cleanup goroutines along with the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) invalidateSummary() {
	s.summaryCache.Delete(summaryCacheKey)
}

func (s *Server) invalidateMarkedDates() {
	s.markedCache.Delete(markedCacheKey)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
