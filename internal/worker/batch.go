package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hayhai/hayhai/internal/model"
)

// Asker defines the interface for answering a single question
type Asker interface {
	Ask(ctx context.Context, question string) (*model.Answer, error)
}

// AskOptions carries per-question overrides. Zero values fall back to
// the asker's configured defaults.
type AskOptions struct {
	MaxResults int
}

// OptionsAsker is an Asker that honors per-question options
type OptionsAsker interface {
	Asker
	AskWithOptions(ctx context.Context, question string, opts AskOptions) (*model.Answer, error)
}

// AskJob represents one question to answer
type AskJob struct {
	Question string
	Asker    Asker
}

// Execute executes the ask job
func (j *AskJob) Execute(ctx context.Context) Result {
	answer, err := j.Asker.Ask(ctx, j.Question)
	return &AskResult{
		Question: j.Question,
		Answer:   answer,
		Error:    err,
	}
}

// AskResult represents the result of one answered question
type AskResult struct {
	Question string
	Answer   *model.Answer
	Error    error
}

// GetError returns the error from the ask result
func (r *AskResult) GetError() error {
	return r.Error
}

// BatchProcessor answers multiple questions concurrently
type BatchProcessor struct {
	asker       Asker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(asker Asker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		asker:       asker,
		concurrency: concurrency,
	}
}

// ProcessQuestions answers multiple questions concurrently
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, questions []string) []*AskResult {
	if len(questions) == 0 {
		return []*AskResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, q := range questions {
		pool.Submit(&AskJob{
			Question: q,
			Asker:    b.asker,
		})
	}

	results := pool.Wait()

	askResults := make([]*AskResult, len(results))
	for i, result := range results {
		askResults[i] = result.(*AskResult)
	}

	return askResults
}

// ProcessFile reads questions from a file and answers them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AskResult, error) {
	questions, err := ReadQuestionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}

	return b.ProcessQuestions(ctx, questions), nil
}

// ReadQuestionsFromFile reads questions from a file (one per line).
// Empty lines and # comments are skipped; duplicates are dropped.
func ReadQuestionsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var questions []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			questions = append(questions, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return questions, nil
}
