// Package server provides the HTTP surface. Handlers are thin: decode,
// call the engine, encode.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/oakmont/vantage/internal/cache"
	"github.com/oakmont/vantage/internal/config"
	"github.com/oakmont/vantage/internal/database"
	"github.com/oakmont/vantage/internal/modules/decision"
	"github.com/oakmont/vantage/internal/modules/marketregime"
	"github.com/oakmont/vantage/internal/modules/playbook"
)

// Config holds everything the server serves from.
type Config struct {
	Log       zerolog.Logger
	Cfg       *config.Config
	Decisions *decision.Service
	Market    *marketregime.Service
	Playbooks *playbook.Store
	Outcomes  *playbook.OutcomeService
	LedgerDB  *database.DB
	CacheDB   *database.DB
	MemCache  *cache.Memory
	Port      int
}

// Server is the HTTP server.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	cfg       *config.Config
	decisions *decision.Service
	market    *marketregime.Service
	playbooks *playbook.Store
	outcomes  *playbook.OutcomeService
	ledgerDB  *database.DB
	cacheDB   *database.DB
	memCache  *cache.Memory
	startedAt time.Time
}

// New creates the HTTP server and wires its routes.
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Cfg,
		decisions: cfg.Decisions,
		market:    cfg.Market,
		playbooks: cfg.Playbooks,
		outcomes:  cfg.Outcomes,
		ledgerDB:  cfg.LedgerDB,
		cacheDB:   cfg.CacheDB,
		memCache:  cfg.MemCache,
		startedAt: time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/system/status", s.handleSystemStatus)

		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/evaluate/batch", s.handleEvaluateBatch)

		r.Get("/market/context", s.handleMarketContext)
		r.Get("/sectors/{sector}/regime", s.handleSectorRegime)

		r.Get("/playbooks/active", s.handleActivePlaybook)
		r.Get("/playbooks/instances", s.handlePlaybookInstances)
		r.Get("/playbooks/summary", s.handlePlaybookSummary)
	})
}

// Start begins serving. Blocks until Shutdown or a listen error.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
