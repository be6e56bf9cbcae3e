package model

import "time"

// SearchType is the kind of Qwant search performed for a question
type SearchType string

const (
	SearchTypeWeb    SearchType = "web"
	SearchTypeNews   SearchType = "news"
	SearchTypeImages SearchType = "images"
	SearchTypeVideos SearchType = "videos"
)

// Valid reports whether t is one of the known search types
func (t SearchType) Valid() bool {
	switch t {
	case SearchTypeWeb, SearchTypeNews, SearchTypeImages, SearchTypeVideos:
		return true
	}
	return false
}

// QueryClassification is the LLM's choice of search type for a question
type QueryClassification struct {
	SearchType SearchType `json:"search_type"`
	Reasoning  string     `json:"reasoning,omitempty"`
}

// Interpretation is the LLM's reading of the user's question
type Interpretation struct {
	InterpretedQuery string   `json:"interpreted_query"`
	RelatedTerms     []string `json:"related_terms,omitempty"`
	QueryIntent      string   `json:"query_intent,omitempty"`
}

// SourceEvaluation is an externally supplied credibility judgement for
// one source URL. Read-only; matched against answer sources by exact URL.
type SourceEvaluation struct {
	URL              string   `json:"url"`
	CredibilityScore float64  `json:"credibility_score"` // in [0,1]
	Reasons          []string `json:"reasons,omitempty"`
}

// Answer is the complete result of one search question
type Answer struct {
	Question       string             `json:"question"`
	Text           string             `json:"answer"`             // Raw synthesized answer
	Blocks         []Block            `json:"-"`                  // Classified content blocks (marshaled separately)
	Sources        []string           `json:"sources"`            // URLs, order-preserving
	SearchType     SearchType         `json:"search_type"`
	Interpretation *Interpretation    `json:"ai_interpretation,omitempty"`
	Evaluations    []SourceEvaluation `json:"-"`                  // Per-source credibility (marshaled under source_evaluation)
	AnsweredAt     time.Time          `json:"answered_at"`
}

// EvaluationFor returns the evaluation matching url exactly, or nil.
// No URL normalization is applied.
func (a *Answer) EvaluationFor(url string) *SourceEvaluation {
	for i := range a.Evaluations {
		if a.Evaluations[i].URL == url {
			return &a.Evaluations[i]
		}
	}
	return nil
}
