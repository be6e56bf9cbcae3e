package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hayhai/hayhai/internal/classify"
	"github.com/hayhai/hayhai/internal/credibility"
	"github.com/hayhai/hayhai/internal/llm"
	"github.com/hayhai/hayhai/internal/model"
	"github.com/hayhai/hayhai/internal/search"
	"github.com/hayhai/hayhai/internal/worker"
)

// stubProvider scripts the LLM operations for pipeline tests
type stubProvider struct {
	searchType model.SearchType
	answer     string
	sources    []string
	evalErr    error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) ClassifyQuery(ctx context.Context, question string) (*model.QueryClassification, error) {
	return &model.QueryClassification{SearchType: s.searchType}, nil
}

func (s *stubProvider) Synthesize(ctx context.Context, question string, results map[string]string) (*llm.Synthesis, error) {
	if len(results) == 0 {
		return nil, errors.New("nothing to synthesize")
	}
	return &llm.Synthesis{Answer: s.answer, Sources: s.sources}, nil
}

func (s *stubProvider) Interpret(ctx context.Context, question string) (*model.Interpretation, error) {
	return &model.Interpretation{InterpretedQuery: question}, nil
}

func (s *stubProvider) EvaluateSources(ctx context.Context, question string, sources []string) ([]model.SourceEvaluation, error) {
	if s.evalErr != nil {
		return nil, s.evalErr
	}
	evals := make([]model.SourceEvaluation, 0, len(sources))
	for _, u := range sources {
		evals = append(evals, model.SourceEvaluation{URL: u, CredibilityScore: 0.5})
	}
	return evals, nil
}

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func testPipeline(provider llm.Provider, qwantURL string) *Pipeline {
	cfg := model.DefaultConfig()
	cfg.Search.BaseURL = qwantURL
	cfg.Search.DomainRate = 100
	cfg.HTTP.Timeout = 2 * time.Second
	cfg.HTTP.RespectRobots = false

	return &Pipeline{
		provider:  provider,
		qwant:     search.NewClient(cfg.Search, cfg.HTTP, nil, 0),
		fetcher:   search.NewFetcher(cfg.HTTP, cfg.Search.DomainRate, nil, 0),
		engine:    classify.NewEngine(),
		evaluator: credibility.NewHeuristicEvaluator(),
		config:    cfg,
	}
}

func TestPipeline_Ask(t *testing.T) {
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>Laksa facts.</p></body></html>"))
	}))
	defer content.Close()

	qwant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := fmt.Sprintf(`{"data":{"result":{"items":[{"url":"%s/page"}]}}}`, content.URL)
		_, _ = w.Write([]byte(body))
	}))
	defer qwant.Close()

	provider := &stubProvider{
		searchType: model.SearchTypeWeb,
		answer:     "## Laksa\nA spicy noodle soup.\n[Source 1]",
	}

	p := testPipeline(provider, qwant.URL)

	answer, err := p.Ask(context.Background(), "what is laksa")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if answer.Question != "what is laksa" {
		t.Errorf("Unexpected question: %s", answer.Question)
	}
	if answer.SearchType != model.SearchTypeWeb {
		t.Errorf("Expected web search type, got %s", answer.SearchType)
	}

	// Synthesis returned no explicit sources, so fetched URLs stand in
	if len(answer.Sources) != 1 || answer.Sources[0] != content.URL+"/page" {
		t.Errorf("Expected fetched URL as source, got %v", answer.Sources)
	}

	// The answer text is classified into blocks
	if len(answer.Blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(answer.Blocks))
	}
	if answer.Blocks[0].Type() != model.BlockHeading {
		t.Errorf("Expected heading first, got %s", answer.Blocks[0].Type())
	}
	if answer.Blocks[2].Type() != model.BlockCitation {
		t.Errorf("Expected citation last, got %s", answer.Blocks[2].Type())
	}

	if answer.Interpretation == nil || answer.Interpretation.InterpretedQuery != "what is laksa" {
		t.Errorf("Expected interpretation, got %v", answer.Interpretation)
	}
	if len(answer.Evaluations) != 1 || answer.Evaluations[0].CredibilityScore != 0.5 {
		t.Errorf("Expected provider evaluation, got %v", answer.Evaluations)
	}
	if answer.AnsweredAt.IsZero() {
		t.Error("Expected answered timestamp")
	}
}

func TestPipeline_AskWithOptions_MaxResults(t *testing.T) {
	var fetches int32
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		_, _ = w.Write([]byte("<html><body><p>Page text.</p></body></html>"))
	}))
	defer content.Close()

	qwant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := fmt.Sprintf(`{"data":{"result":{"items":[{"url":"%s/a"},{"url":"%s/b"},{"url":"%s/c"}]}}}`,
			content.URL, content.URL, content.URL)
		_, _ = w.Write([]byte(body))
	}))
	defer qwant.Close()

	provider := &stubProvider{
		searchType: model.SearchTypeWeb,
		answer:     "Answer.",
	}

	p := testPipeline(provider, qwant.URL)

	answer, err := p.AskWithOptions(context.Background(), "what is laksa", worker.AskOptions{MaxResults: 1})
	if err != nil {
		t.Fatalf("AskWithOptions failed: %v", err)
	}

	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("Expected 1 fetch with max results 1, got %d", got)
	}
	if len(answer.Sources) != 1 {
		t.Errorf("Expected 1 source, got %v", answer.Sources)
	}
}

func TestPipeline_Ask_NewsFallback(t *testing.T) {
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>Web result text.</p></body></html>"))
	}))
	defer content.Close()

	qwant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/news" {
			_, _ = w.Write([]byte(`{"data":{"result":{"items":[]}}}`))
			return
		}
		body := fmt.Sprintf(`{"data":{"result":{"items":[{"url":"%s/page"}]}}}`, content.URL)
		_, _ = w.Write([]byte(body))
	}))
	defer qwant.Close()

	provider := &stubProvider{
		searchType: model.SearchTypeNews,
		answer:     "Plain answer text.",
	}

	p := testPipeline(provider, qwant.URL)

	answer, err := p.Ask(context.Background(), "latest laksa news")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer.SearchType != model.SearchTypeWeb {
		t.Errorf("Expected fallback to web, got %s", answer.SearchType)
	}
}

func TestPipeline_Ask_HeuristicEvaluationFallback(t *testing.T) {
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>Page text.</p></body></html>"))
	}))
	defer content.Close()

	qwant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := fmt.Sprintf(`{"data":{"result":{"items":[{"url":"%s/page"}]}}}`, content.URL)
		_, _ = w.Write([]byte(body))
	}))
	defer qwant.Close()

	provider := &stubProvider{
		searchType: model.SearchTypeWeb,
		answer:     "Answer.",
		evalErr:    errors.New("llm unavailable"),
	}

	p := testPipeline(provider, qwant.URL)

	answer, err := p.Ask(context.Background(), "what is laksa")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	// Heuristic fallback scores the unknown test domain low
	if len(answer.Evaluations) != 1 {
		t.Fatalf("Expected 1 evaluation, got %d", len(answer.Evaluations))
	}
	if answer.Evaluations[0].CredibilityScore != 0.35 {
		t.Errorf("Expected heuristic score 0.35, got %v", answer.Evaluations[0].CredibilityScore)
	}
}

func TestPipeline_Ask_NoProvider(t *testing.T) {
	p := testPipeline(nil, "http://localhost:1")

	if _, err := p.Ask(context.Background(), "anything"); err == nil {
		t.Error("Expected error without provider")
	}
}

func TestPipeline_Ask_NoResults(t *testing.T) {
	qwant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"result":{"items":[]}}}`))
	}))
	defer qwant.Close()

	p := testPipeline(&stubProvider{searchType: model.SearchTypeWeb}, qwant.URL)

	if _, err := p.Ask(context.Background(), "obscure question"); err == nil {
		t.Error("Expected error for no results")
	}
}
