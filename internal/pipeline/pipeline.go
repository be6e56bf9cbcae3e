// Package pipeline orchestrates one search question end to end: query
// classification, Qwant search, content fetching, answer synthesis,
// source evaluation, and content-block classification.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hayhai/hayhai/internal/cache"
	"github.com/hayhai/hayhai/internal/classify"
	"github.com/hayhai/hayhai/internal/credibility"
	"github.com/hayhai/hayhai/internal/llm"
	"github.com/hayhai/hayhai/internal/model"
	"github.com/hayhai/hayhai/internal/search"
	"github.com/hayhai/hayhai/internal/worker"
)

// Pipeline answers search questions
type Pipeline struct {
	provider  llm.Provider // nil when no LLM is configured
	qwant     *search.Client
	fetcher   *search.Fetcher
	engine    *classify.Engine
	evaluator *credibility.HeuristicEvaluator
	config    *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	var searchCache, contentCache cache.Cache
	if cfg.Cache.Enabled {
		searchCache = cache.NewMemoryCache(cfg.Cache.SearchTTL, 10*time.Minute)
		if cfg.Cache.Dir != "" {
			contentCache = cache.NewLayeredCache(cfg.Cache.ContentTTL, cfg.Cache.Dir, cfg.Cache.ContentTTL)
		} else {
			contentCache = cache.NewMemoryCache(cfg.Cache.ContentTTL, 10*time.Minute)
		}
	}

	return &Pipeline{
		provider:  provider,
		qwant:     search.NewClient(cfg.Search, cfg.HTTP, searchCache, cfg.Cache.SearchTTL),
		fetcher:   search.NewFetcher(cfg.HTTP, cfg.Search.DomainRate, contentCache, cfg.Cache.ContentTTL),
		engine:    classify.NewEngine(),
		evaluator: credibility.NewHeuristicEvaluator(),
		config:    cfg,
	}, nil
}

// Ask answers a single question with the configured defaults. It
// implements worker.Asker.
func (p *Pipeline) Ask(ctx context.Context, question string) (*model.Answer, error) {
	return p.AskWithOptions(ctx, question, worker.AskOptions{})
}

// AskWithOptions answers a single question, honoring per-question
// overrides such as the result budget. It implements worker.OptionsAsker.
func (p *Pipeline) AskWithOptions(ctx context.Context, question string, opts worker.AskOptions) (*model.Answer, error) {
	if p.provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	// 1. Pick the search type
	searchType := model.SearchTypeWeb
	classification, err := p.provider.ClassifyQuery(ctx, question)
	if err != nil {
		p.verbosef("Warning: query classification failed, defaulting to web: %v\n", err)
	} else {
		searchType = classification.SearchType
	}

	// 2. Search, falling back from empty news results to web
	results, err := p.qwant.Search(ctx, question, searchType)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(results) == 0 && searchType == model.SearchTypeNews {
		p.verbosef("No news results, falling back to web search\n")
		searchType = model.SearchTypeWeb
		results, err = p.qwant.Search(ctx, question, searchType)
		if err != nil {
			return nil, fmt.Errorf("search fallback: %w", err)
		}
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results found")
	}

	// 3. Fetch page contents concurrently
	maxResults := p.config.Search.MaxResults
	if opts.MaxResults > 0 {
		maxResults = opts.MaxResults
	}
	videoSearch := search.IsVideoQuery(question, searchType)
	urls := search.FilterURLs(results, maxResults, videoSearch)
	contents := p.fetchAll(ctx, urls, videoSearch)
	if len(contents) == 0 {
		return nil, fmt.Errorf("no fetchable content for %d results", len(results))
	}

	// 4. Synthesize the answer
	synthesis, err := p.provider.Synthesize(ctx, question, contents)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	sources := synthesis.Sources
	if len(sources) == 0 {
		for _, u := range urls {
			if _, ok := contents[u]; ok {
				sources = append(sources, u)
			}
		}
	}

	// 5. Interpretation and source evaluation are enrichments: their
	// failure degrades the answer, never fails it
	var interpretation *model.Interpretation
	if interp, err := p.provider.Interpret(ctx, question); err == nil {
		interpretation = interp
	} else {
		p.verbosef("Warning: interpretation failed: %v\n", err)
	}

	evaluations := p.evaluateSources(ctx, question, sources)

	// 6. Classify the answer into content blocks
	blocks := p.engine.Classify(synthesis.Answer)

	return &model.Answer{
		Question:       question,
		Text:           synthesis.Answer,
		Blocks:         blocks,
		Sources:        sources,
		SearchType:     searchType,
		Interpretation: interpretation,
		Evaluations:    evaluations,
		AnsweredAt:     time.Now().UTC(),
	}, nil
}

// fetchJob fetches one URL's content through the shared fetcher
type fetchJob struct {
	url         string
	videoSearch bool
	fetcher     *search.Fetcher
}

type fetchResult struct {
	url     string
	content string
	err     error
}

func (r *fetchResult) GetError() error { return r.err }

func (j *fetchJob) Execute(ctx context.Context) worker.Result {
	content, err := j.fetcher.Content(ctx, j.url, j.videoSearch)
	return &fetchResult{url: j.url, content: content, err: err}
}

// fetchAll fetches the URLs through a worker pool and returns the
// non-empty contents keyed by URL. Per-URL failures are skipped.
func (p *Pipeline) fetchAll(ctx context.Context, urls []string, videoSearch bool) map[string]string {
	pool := worker.NewPool(p.config.Search.FetchWorkers)
	pool.Start()

	for _, u := range urls {
		pool.Submit(&fetchJob{url: u, videoSearch: videoSearch, fetcher: p.fetcher})
	}

	contents := make(map[string]string)
	for _, result := range pool.Wait() {
		r := result.(*fetchResult)
		if r.err != nil {
			p.verbosef("Warning: fetch %s: %v\n", r.url, r.err)
			continue
		}
		if r.content != "" {
			contents[r.url] = r.content
		}
	}
	return contents
}

// evaluateSources produces per-source credibility, preferring the LLM
// and falling back to the domain heuristic.
func (p *Pipeline) evaluateSources(ctx context.Context, question string, sources []string) []model.SourceEvaluation {
	if len(sources) == 0 {
		return nil
	}

	if p.config.LLM.EvaluateSources && p.provider != nil {
		evals, err := p.provider.EvaluateSources(ctx, question, sources)
		if err == nil && len(evals) > 0 {
			return evals
		}
		if err != nil {
			p.verbosef("Warning: LLM source evaluation failed, using heuristic: %v\n", err)
		}
	}

	return p.evaluator.Evaluate(sources)
}

// Engine exposes the classification engine, mainly for instrumentation
func (p *Pipeline) Engine() *classify.Engine {
	return p.engine
}

func (p *Pipeline) verbosef(format string, args ...interface{}) {
	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
