// Package history persists answered questions as JSON lines under the
// config directory.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hayhai/hayhai/internal/model"
)

// Entry is one recorded question and answer
type Entry struct {
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	SearchType model.SearchType `json:"search_type"`
	Sources    []string         `json:"sources,omitempty"`
	AnsweredAt time.Time        `json:"answered_at"`
}

// Store appends and reads history entries. One JSON object per line;
// appends are serialized by the mutex.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store writing to dir/history.jsonl
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "history.jsonl")}
}

// Append records an answer
func (s *Store) Append(ans *model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	entry := Entry{
		Question:   ans.Question,
		Answer:     ans.Text,
		SearchType: ans.SearchType,
		Sources:    ans.Sources,
		AnsweredAt: ans.AnsweredAt,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// List returns up to limit entries, most recent first. limit <= 0
// returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			// Skip corrupt lines rather than losing the whole history
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}

	// Reverse to most recent first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Clear removes the history file
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}
