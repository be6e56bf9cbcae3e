// Package server exposes the search pipeline over HTTP: POST /search
// and GET /health.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hayhai/hayhai/internal/model"
	"github.com/hayhai/hayhai/internal/worker"
)

// Server serves search requests over HTTP
type Server struct {
	asker  worker.Asker
	config model.ServerConfig
}

// New creates a server around the given asker
func New(asker worker.Asker, cfg model.ServerConfig) *Server {
	return &Server{asker: asker, config: cfg}
}

// searchRequest is the POST /search body
type searchRequest struct {
	Question   string `json:"question"`
	MaxResults int    `json:"max_results,omitempty"`
}

// errorResponse mirrors the {"detail": ...} error shape clients of the
// original API expect
type errorResponse struct {
	Detail string `json:"detail"`
}

// Handler returns the HTTP handler with gzip compression applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/health", s.handleHealth)

	minBytes := s.config.GzipMinBytes
	if minBytes <= 0 {
		minBytes = 1000
	}
	return gzipMiddleware(mux, minBytes)
}

// ListenAndServe runs the server until ctx is canceled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.MaxResults < 0 {
		writeError(w, http.StatusBadRequest, "max_results must not be negative")
		return
	}

	answer, err := s.ask(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	body, err := marshalAnswer(answer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("encode answer: %v", err))
		return
	}

	maxAge := s.config.CacheMaxAge
	if maxAge <= 0 {
		maxAge = 3600
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	_, _ = w.Write(body)
}

// ask routes through AskWithOptions when the asker supports
// per-request overrides and the request carries one.
func (s *Server) ask(ctx context.Context, req searchRequest) (*model.Answer, error) {
	if oa, ok := s.asker.(worker.OptionsAsker); ok && req.MaxResults > 0 {
		return oa.AskWithOptions(ctx, req.Question, worker.AskOptions{MaxResults: req.MaxResults})
	}
	return s.asker.Ask(ctx, req.Question)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// marshalAnswer builds the response payload: the answer fields plus
// type-tagged blocks and the source evaluations under source_evaluation.
func marshalAnswer(ans *model.Answer) ([]byte, error) {
	blocks, err := model.MarshalBlocks(ans.Blocks)
	if err != nil {
		return nil, err
	}

	payload := struct {
		Answer         string                `json:"answer"`
		Blocks         json.RawMessage       `json:"blocks"`
		Sources        []string              `json:"sources"`
		SearchType     model.SearchType      `json:"search_type"`
		Interpretation *model.Interpretation `json:"ai_interpretation,omitempty"`
		Evaluation     *evaluationPayload    `json:"source_evaluation,omitempty"`
	}{
		Answer:         ans.Text,
		Blocks:         blocks,
		Sources:        ans.Sources,
		SearchType:     ans.SearchType,
		Interpretation: ans.Interpretation,
	}
	if len(ans.Evaluations) > 0 {
		payload.Evaluation = &evaluationPayload{Sources: ans.Evaluations}
	}

	return json.Marshal(payload)
}

type evaluationPayload struct {
	Sources []model.SourceEvaluation `json:"sources"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Detail: detail})
}
