package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/prospectscan/prospectscan/internal/batch"
	"github.com/prospectscan/prospectscan/internal/deriver"
	"github.com/prospectscan/prospectscan/internal/engine"
	"github.com/prospectscan/prospectscan/internal/logging"
	"github.com/prospectscan/prospectscan/internal/reformulator"
	"github.com/prospectscan/prospectscan/internal/rules"
	"github.com/prospectscan/prospectscan/internal/store"
)

// Server is the HTTP + WebSocket API surface for ProspectScan.
type Server struct {
	cfg      Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger

	engine   *engine.Engine
	runner   *batch.Runner
	deriver  *deriver.Deriver
	store    *store.Store
	reformer *reformulator.Reformulator
}

// NewServer wires the rule table, catalog, store and engine together. The
// reformulation endpoint is enabled only when a Gemini API key is configured.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultConfig().ListenAddr
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultConfig().DatabasePath
	}

	table := rules.DefaultTable()
	if cfg.RuleTablePath != "" {
		t, err := rules.LoadTable(cfg.RuleTablePath)
		if err != nil {
			return nil, err
		}
		table = t
	}
	catalog := rules.DefaultCatalog()
	if cfg.CatalogPath != "" {
		c, err := rules.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		catalog = c
	}

	st, err := store.Open(cfg.DatabasePath, logger)
	if err != nil {
		return nil, err
	}

	eng := engine.New(table, catalog, logger)

	var reformer *reformulator.Reformulator
	if cfg.GeminiAPIKey != "" {
		reformer, err = reformulator.New(context.Background(), reformulator.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		engine:   eng,
		runner:   batch.NewRunner(eng, logger, cfg.Concurrency),
		deriver:  deriver.New(catalog),
		store:    st,
		reformer: reformer,
	}
	s.routes()
	return s, nil
}

// Engine returns the underlying engine for advanced use (tests, etc.).
func (s *Server) Engine() *engine.Engine { return s.engine }

// Store returns the underlying store for advanced use (tests, etc.).
func (s *Server) Store() *store.Store { return s.store }

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Get("/health", s.handleHealth)

	// Versioned decision data, read-only for audit tooling.
	r.Get("/rules", s.handleGetRules)
	r.Get("/catalog", s.handleGetCatalog)

	// Analysis
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/analyze/batch", s.handleAnalyzeBatch)
	r.Post("/analyze/emails", s.handleAnalyzeEmails)
	r.Post("/derive", s.handleDerive)

	// Snapshots
	r.Post("/snapshots", s.handleCreateSnapshot)
	r.Get("/snapshots/{snapshotID}", s.handleGetSnapshot)

	// Decision records
	r.Get("/results", s.handleListResults)
	r.Get("/results/{resultID}", s.handleGetResult)
	r.Get("/domains/{domain}/results/latest", s.handleLatestResult)
	r.Get("/stats", s.handleStats)

	// Human review
	r.Post("/reviews", s.handleCreateReview)
	r.Post("/reviews/{reviewID}/transition", s.handleTransitionReview)
	r.Get("/domains/{domain}/reviews", s.handleListReviews)

	// LLM reformulation
	r.Post("/results/{resultID}/reformulate", s.handleReformulate)

	// WebSocket batch progress
	r.Get("/ws/analyze/batch", s.handleBatchWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body_bytes", Value: len(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the store and the reformulator client.
func (s *Server) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.reformer != nil {
		s.reformer.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
