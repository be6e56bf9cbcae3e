package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/hayhai/hayhai/internal/model"
)

// OpenAIProvider implements the Provider interface for OpenAI and
// OpenAI-compatible endpoints.
type OpenAIProvider struct {
	client  *openai.Client
	config  Config
	limiter *requestLimiter
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: newRequestLimiter(config.RequestsPerMin),
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

const classifySystem = `You are an expert at identifying the most accurate Qwant search type: web, news, images, or videos.
Follow these strict guidelines:
1. If the question explicitly or strongly suggests the need for general web information, set 'web'.
2. If the question is about recent or time-sensitive events and breaking news, set 'news'.
3. If the question is specifically about images or visual content, set 'images'.
4. If the question is specifically about videos or video content, set 'videos'.
5. If uncertain, default to 'web'.

Return valid JSON with two fields: search_type and reasoning.`

// ClassifyQuery picks the search type for a question
func (p *OpenAIProvider) ClassifyQuery(ctx context.Context, question string) (*model.QueryClassification, error) {
	prompt := fmt.Sprintf("Determine the most appropriate search type for the following question:\n%s", question)

	var result model.QueryClassification
	if err := p.completeJSON(ctx, classifySystem, prompt, &result); err != nil {
		return nil, fmt.Errorf("classify query: %w", err)
	}

	if !result.SearchType.Valid() {
		result.SearchType = model.SearchTypeWeb
	}
	return &result, nil
}

const synthesizeSystem = `You are a professional content curator specializing in creating comprehensive, well-structured answers.
Your task is to synthesize information from multiple sources into a cohesive, detailed response.

Guidelines for response:
1. Start with a clear, concise summary of the main points
2. Structure the answer in logical sections with clear headings when appropriate
3. Include relevant quotes, statistics, and facts
4. Provide context and background information
5. Address multiple aspects of the question
6. End with a conclusion or summary of key takeaways
7. Mark source references inline as [Source N] using the numbering of the search results

Return valid JSON with two fields: answer and sources (the URLs you drew on).`

// Synthesize produces the answer text from fetched page contents
func (p *OpenAIProvider) Synthesize(ctx context.Context, question string, results map[string]string) (*Synthesis, error) {
	var b strings.Builder
	b.WriteString("Search results:\n")

	// Stable source numbering regardless of map order
	urls := make([]string, 0, len(results))
	for u := range results {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	for i, u := range urls {
		fmt.Fprintf(&b, "\n[Source %d] %s\n%s\n", i+1, u, results[u])
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nProvide a clear, structured answer following the guidelines above.")

	var result Synthesis
	if err := p.completeJSON(ctx, synthesizeSystem, b.String(), &result); err != nil {
		return nil, fmt.Errorf("synthesize answer: %w", err)
	}
	return &result, nil
}

const interpretSystem = `You explain how a search question was understood.
Return valid JSON with fields: interpreted_query (the question restated as a precise search query), related_terms (a short list of related search terms), and query_intent (one phrase naming what the user wants).`

// Interpret explains how the question was read
func (p *OpenAIProvider) Interpret(ctx context.Context, question string) (*model.Interpretation, error) {
	var result model.Interpretation
	if err := p.completeJSON(ctx, interpretSystem, question, &result); err != nil {
		return nil, fmt.Errorf("interpret query: %w", err)
	}
	return &result, nil
}

const evaluateSystem = `You assess the credibility of web sources for answering a question.
For each URL, judge the domain's general trustworthiness and relevance. Do not fetch the URLs.
Return valid JSON: {"sources": [{"url": ..., "credibility_score": <0..1>, "reasons": [...]}]}.
Every input URL must appear exactly once, byte-identical, in the output.`

// EvaluateSources scores each source URL's credibility
func (p *OpenAIProvider) EvaluateSources(ctx context.Context, question string, sources []string) ([]model.SourceEvaluation, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nSources:\n", question)
	for _, u := range sources {
		fmt.Fprintf(&b, "- %s\n", u)
	}

	var result struct {
		Sources []model.SourceEvaluation `json:"sources"`
	}
	if err := p.completeJSON(ctx, evaluateSystem, b.String(), &result); err != nil {
		return nil, fmt.Errorf("evaluate sources: %w", err)
	}

	// Clamp scores into [0,1]
	for i := range result.Sources {
		if result.Sources[i].CredibilityScore < 0 {
			result.Sources[i].CredibilityScore = 0
		}
		if result.Sources[i].CredibilityScore > 1 {
			result.Sources[i].CredibilityScore = 1
		}
	}
	return result.Sources, nil
}

// completeJSON runs one JSON-mode chat completion under the rate
// limiter and decodes the response into out.
func (p *OpenAIProvider) completeJSON(ctx context.Context, system, user string, out interface{}) error {
	mdl := p.config.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var content string
	err := p.limiter.do(ctx, func(ctx context.Context) error {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     mdl,
			MaxTokens: maxTokens,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty completion response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(stripCodeFence(content)), out); err != nil {
		return fmt.Errorf("decode completion JSON: %w", err)
	}
	return nil
}

// stripCodeFence unwraps a response the model wrapped in a markdown
// fence despite JSON mode. Ollama-hosted models do this.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
