// Package server exposes the scoring and research APIs over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/research"
	"github.com/truelabel/truelabel/internal/scoring"
	"github.com/truelabel/truelabel/internal/store"
)

// GeneratorStatus lets the health endpoint report whether research is
// currently possible.
type GeneratorStatus interface {
	Available() bool
}

// Server holds the handler dependencies.
type Server struct {
	engine       *scoring.Engine
	orchestrator *research.Orchestrator
	store        store.JobStore
	genStatus    GeneratorStatus
}

// New creates the API server.
func New(engine *scoring.Engine, orch *research.Orchestrator, s store.JobStore, gen GeneratorStatus) *Server {
	return &Server{engine: engine, orchestrator: orch, store: s, genStatus: gen}
}

// Routes builds the chi router with middleware and all API endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Post("/research", s.handleStartResearch)
		r.Get("/research/{jobID}", s.handleGetResearch)
	})
	return r
}

// ScanRequest is the body for POST /api/v1/scan.
type ScanRequest struct {
	ProductName string   `json:"product_name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Ingredients) == 0 {
		writeError(w, http.StatusBadRequest, "ingredients is required")
		return
	}

	result := s.engine.Score(req.Ingredients, req.Brand, req.Category)
	writeJSON(w, http.StatusOK, result)
}

// StartResearchResponse is the body returned by POST /api/v1/research.
type StartResearchResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleStartResearch(w http.ResponseWriter, r *http.Request) {
	var req model.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	jobID, err := s.orchestrator.StartJob(r.Context(), req)
	if err != nil {
		if errors.Is(err, research.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("failed to start research job", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start research job")
		return
	}

	writeJSON(w, http.StatusAccepted, StartResearchResponse{
		JobID:   jobID,
		Status:  string(model.JobStatusPending),
		Message: "Deep research initiated. Use the job_id to check progress.",
	})
}

func (s *Server) handleGetResearch(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := s.orchestrator.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		zap.L().Error("failed to load research job", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load research job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// HealthResponse reports service liveness and whether job persistence is
// running on the durable backend.
type HealthResponse struct {
	Status      string `json:"status"`
	Persistence string `json:"persistence"`
	Research    string `json:"research"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Persistence: "durable", Research: "available"}
	if !s.store.Durable() {
		resp.Persistence = "degraded"
	}
	if s.genStatus != nil && !s.genStatus.Available() {
		resp.Research = "unavailable"
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// requestLogger logs each request with zap after it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
