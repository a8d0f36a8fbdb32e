// Package server exposes the query pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/sol-search/internal/app"
	"github.com/Veraticus/sol-search/internal/service"
)

// maxBodyBytes bounds a search request body.
const maxBodyBytes = 16 << 10

// QueryHandler answers a single natural-language query.
type QueryHandler interface {
	Handle(ctx context.Context, query string) app.Result
}

// Config holds configuration options for the server.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
}

// Server is the HTTP front end.
type Server struct {
	handler QueryHandler
	store   service.Storage
	logger  *slog.Logger
	router  *mux.Router
	config  Config
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status       string `json:"status"`
	Transactions int    `json:"transactions"`
}

// New builds the router. store may be nil, in which case /health reports
// only liveness.
func New(handler QueryHandler, store service.Storage, config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 15 * time.Second
	}

	s := &Server{
		handler: handler,
		store:   store,
		logger:  logger,
		config:  config,
		router:  mux.NewRouter().StrictSlash(true),
	}

	s.router.Use(s.requestIDMiddleware, s.instrumentMiddleware)
	s.router.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.RequestTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	result := s.handler.Handle(ctx, query)
	s.logger.Info("Search handled",
		"request_id", RequestIDFromContext(r.Context()),
		"intent", result.Classified.Intent,
		"source", result.Classified.Source,
		"action_type", result.Response.ActionType,
		"duration", result.Elapsed)

	writeJSON(w, http.StatusOK, result.Response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.store != nil {
		n, err := s.store.Count(r.Context())
		if err != nil {
			s.logger.Error("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
		resp.Transactions = n
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
