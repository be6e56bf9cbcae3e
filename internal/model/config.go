package model

import "time"

// Config holds the complete application configuration
type Config struct {
	HTTP   HTTPConfig   `json:"http" yaml:"http"`
	Search SearchConfig `json:"search" yaml:"search"`
	Cache  CacheConfig  `json:"cache" yaml:"cache"`
	LLM    LLMConfig    `json:"llm" yaml:"llm"`
	Server ServerConfig `json:"server" yaml:"server"`
	Output OutputConfig `json:"output" yaml:"output"`
}

// HTTPConfig controls outbound HTTP behavior
type HTTPConfig struct {
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent     string        `json:"user_agent" yaml:"user_agent"`
	MaxBodyBytes  int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
	RespectRobots bool          `json:"respect_robots" yaml:"respect_robots"`
	HTTPProxy     string        `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty"`
}

// SearchConfig controls the Qwant search client
type SearchConfig struct {
	BaseURL      string  `json:"base_url" yaml:"base_url"`
	Locale       string  `json:"locale" yaml:"locale"`
	MaxResults   int     `json:"max_results" yaml:"max_results"`
	SafeSearch   int     `json:"safesearch" yaml:"safesearch"`
	FetchWorkers int     `json:"fetch_workers" yaml:"fetch_workers"`
	DomainRate   float64 `json:"domain_rate" yaml:"domain_rate"` // requests/sec per domain
}

// CacheConfig controls the search and content caches
type CacheConfig struct {
	Enabled    bool          `json:"enabled" yaml:"enabled"`
	Dir        string        `json:"dir" yaml:"dir"`
	SearchTTL  time.Duration `json:"search_ttl" yaml:"search_ttl"`
	ContentTTL time.Duration `json:"content_ttl" yaml:"content_ttl"`
}

// LLMConfig controls the LLM provider
type LLMConfig struct {
	Provider        string  `json:"provider" yaml:"provider"` // openai, ollama
	Model           string  `json:"model" yaml:"model"`
	APIKey          string  `json:"-" yaml:"-"`
	BaseURL         string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout         int     `json:"timeout" yaml:"timeout"` // seconds
	MaxTokens       int     `json:"max_tokens" yaml:"max_tokens"`
	RequestsPerMin  float64 `json:"requests_per_min" yaml:"requests_per_min"`
	EvaluateSources bool    `json:"evaluate_sources" yaml:"evaluate_sources"`
}

// ServerConfig controls the HTTP API server
type ServerConfig struct {
	Addr         string `json:"addr" yaml:"addr"`
	GzipMinBytes int    `json:"gzip_min_bytes" yaml:"gzip_min_bytes"`
	CacheMaxAge  int    `json:"cache_max_age" yaml:"cache_max_age"` // seconds
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `json:"verbose" yaml:"verbose"`
	Plain   bool `json:"plain" yaml:"plain"` // disable ANSI styling
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       10 * time.Second,
			UserAgent:     "Hayhai/0.1 (+https://github.com/hayhai/hayhai)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Search: SearchConfig{
			BaseURL:      "https://api.qwant.com/v3",
			Locale:       "en_GB",
			MaxResults:   6,
			SafeSearch:   1,
			FetchWorkers: 4,
			DomainRate:   1.0,
		},
		Cache: CacheConfig{
			Enabled:    true,
			SearchTTL:  time.Hour,
			ContentTTL: 2 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:        "openai",
			Model:           "",
			Timeout:         30,
			MaxTokens:       2000,
			RequestsPerMin:  15,
			EvaluateSources: true,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			GzipMinBytes: 1000,
			CacheMaxAge:  3600,
		},
		Output: OutputConfig{},
	}
}
