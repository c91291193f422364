// Package server exposes the latest pipeline run over HTTP for local
// inspection of results.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/Jeremy-Prior/OnStove/pkg/analytics"
	"github.com/Jeremy-Prior/OnStove/pkg/scenario"
	"github.com/Jeremy-Prior/OnStove/pkg/validation"
)

// Results is the payload of one pipeline run.
type Results struct {
	Scenario   *scenario.Scenario `json:"scenario"`
	Summary    *analytics.Summary `json:"summary"`
	Validation *validation.Report `json:"validation"`
}

// Runner executes the pipeline and returns its results.
type Runner func(ctx context.Context) (Results, error)

// Server is the local results server.
type Server struct {
	projectPath string
	port        int
	run         Runner

	mu      sync.RWMutex
	results Results
}

// New creates a server for the given project directory. The runner is
// invoked once at startup and again on every POST /api/run.
func New(projectPath string, port int, run Runner) *Server {
	return &Server{
		projectPath: projectPath,
		port:        port,
		run:         run,
	}
}

// Start runs the pipeline once and launches the HTTP server.
func (s *Server) Start() error {
	results, err := s.run(context.Background())
	if err != nil {
		return fmt.Errorf("initial run: %w", err)
	}
	s.results = results

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/scenario", s.handleScenario)
	mux.HandleFunc("POST /api/run", s.handleRun)
	mux.HandleFunc("GET /", s.handleIndex)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("OnStove results server starting on http://localhost%s", addr)
	log.Printf("Project: %s", s.projectPath)

	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>OnStove</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>OnStove</h1>
<p>Results API: <code>/api/summary</code>, <code>/api/validation</code>, <code>/api/scenario</code>.
Re-run with <code>POST /api/run</code>.</p>
</div>
</body></html>`)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	summary := s.results.Summary
	s.mu.RUnlock()
	writeJSON(w, summary)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	report := s.results.Validation
	s.mu.RUnlock()
	writeJSON(w, report)
}

func (s *Server) handleScenario(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	sc := s.results.Scenario
	s.mu.RUnlock()
	writeJSON(w, sc)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	results, err := s.run(r.Context())
	if err != nil {
		log.Printf("run failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":      err.Error(),
			"validation": results.Validation,
		})
		return
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	log.Printf("run %s complete", results.Summary.RunID)
	writeJSON(w, results.Summary)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
