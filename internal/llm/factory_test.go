package llm

import (
	"testing"

	"github.com/hayhai/hayhai/internal/model"
)

func TestNewProvider_OpenAI(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "openai", APIKey: "key"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("Expected openai, got %s", provider.Name())
	}

	// Case-insensitive
	if _, err := NewProvider(Config{Provider: "OpenAI", APIKey: "key"}); err != nil {
		t.Errorf("Expected case-insensitive provider name, got %v", err)
	}
}

func TestNewProvider_Ollama(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider == nil {
		t.Fatal("Expected provider, got nil")
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error for empty provider, got %v", err)
	}
	if provider != nil {
		t.Errorf("Expected nil provider, got %v", provider)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "gemini"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{
		Provider:       "ollama",
		Model:          "llama3",
		BaseURL:        "http://localhost:11434/v1",
		Timeout:        10,
		MaxTokens:      500,
		RequestsPerMin: 30,
	})
	if cfg.Provider != "ollama" || cfg.Model != "llama3" || cfg.RequestsPerMin != 30 {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("Unexpected base URL: %s", cfg.BaseURL)
	}
}
