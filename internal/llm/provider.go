// Package llm provides the language-model operations behind a search
// answer: query classification, answer synthesis, query interpretation,
// and source evaluation.
package llm

import (
	"context"

	"github.com/hayhai/hayhai/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// ClassifyQuery picks the Qwant search type for a question
	ClassifyQuery(ctx context.Context, question string) (*model.QueryClassification, error)

	// Synthesize produces the answer text from fetched page contents,
	// keyed by source URL
	Synthesize(ctx context.Context, question string, results map[string]string) (*Synthesis, error)

	// Interpret explains how the question was read
	Interpret(ctx context.Context, question string) (*model.Interpretation, error)

	// EvaluateSources scores each source URL's credibility in [0,1]
	EvaluateSources(ctx context.Context, question string, sources []string) ([]model.SourceEvaluation, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Synthesis is the synthesized answer plus the sources it drew on
type Synthesis struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for OpenAI-compatible endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens limits response length
	MaxTokens int

	// RequestsPerMin caps the request rate to the provider
	RequestsPerMin float64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "",
		Timeout:        30,
		MaxTokens:      2000,
		RequestsPerMin: 15,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:       modelConfig.Provider,
		Model:          modelConfig.Model,
		APIKey:         modelConfig.APIKey,
		BaseURL:        modelConfig.BaseURL,
		Timeout:        modelConfig.Timeout,
		MaxTokens:      modelConfig.MaxTokens,
		RequestsPerMin: modelConfig.RequestsPerMin,
	}
}
