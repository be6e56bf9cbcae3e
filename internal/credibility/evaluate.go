package credibility

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hayhai/hayhai/internal/model"
)

// HeuristicEvaluator assigns credibility scores by domain authority.
// It is the offline fallback for LLM source evaluation: official and
// academic domains score high, encyclopedias and major references in
// the middle, everything else low-middle.
type HeuristicEvaluator struct {
	primaryMap   map[string]bool
	secondaryMap map[string]bool
}

// Scores per authority tier
const (
	scorePrimary   = 0.9
	scoreSecondary = 0.65
	scoreTertiary  = 0.35
)

// NewHeuristicEvaluator creates an evaluator with the default domain lists
func NewHeuristicEvaluator() *HeuristicEvaluator {
	e := &HeuristicEvaluator{
		primaryMap:   make(map[string]bool),
		secondaryMap: make(map[string]bool),
	}

	for _, domain := range []string{
		"doi.org", "arxiv.org", "pubmed.ncbi.nlm.nih.gov", "who.int",
		"un.org", "europa.eu", "legislation.gov.uk",
	} {
		e.primaryMap[domain] = true
	}

	for _, domain := range []string{
		"wikipedia.org", "britannica.com", "reuters.com", "apnews.com",
		"bbc.co.uk", "bbc.com", "nature.com", "sciencedirect.com",
	} {
		e.secondaryMap[domain] = true
	}

	return e
}

// Evaluate scores each URL, preserving source order
func (e *HeuristicEvaluator) Evaluate(urls []string) []model.SourceEvaluation {
	evals := make([]model.SourceEvaluation, 0, len(urls))
	for _, u := range urls {
		score, reason := e.scoreURL(u)
		evals = append(evals, model.SourceEvaluation{
			URL:              u,
			CredibilityScore: score,
			Reasons:          []string{reason},
		})
	}
	return evals
}

func (e *HeuristicEvaluator) scoreURL(rawURL string) (float64, string) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return scoreTertiary, "unparseable URL"
	}

	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}

	if tier, ok := e.matchDomain(host); ok {
		return tier, fmt.Sprintf("known domain: %s", host)
	}

	// Authority TLDs
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".ac.uk") {
		return scorePrimary, fmt.Sprintf("authoritative TLD: %s", host)
	}

	return scoreTertiary, fmt.Sprintf("unrecognized domain: %s", host)
}

// matchDomain checks the host against the tier maps, including as a
// subdomain (foo.wikipedia.org matches wikipedia.org).
func (e *HeuristicEvaluator) matchDomain(host string) (float64, bool) {
	if e.primaryMap[host] {
		return scorePrimary, true
	}
	for domain := range e.primaryMap {
		if strings.HasSuffix(host, "."+domain) {
			return scorePrimary, true
		}
	}
	if e.secondaryMap[host] {
		return scoreSecondary, true
	}
	for domain := range e.secondaryMap {
		if strings.HasSuffix(host, "."+domain) {
			return scoreSecondary, true
		}
	}
	return 0, false
}
