package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hayhai/hayhai/internal/cache"
	"github.com/hayhai/hayhai/internal/model"
	"github.com/hayhai/hayhai/internal/util"
	"github.com/hayhai/hayhai/internal/worker"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// Fetcher retrieves and extracts readable text from result pages.
// Fetches respect robots.txt and a per-domain rate limit; extracted
// content is TTL-cached per URL.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // nil disables the robots check
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewFetcher creates a new content fetcher
func NewFetcher(httpCfg model.HTTPConfig, domainRate float64, c cache.Cache, cacheTTL time.Duration) *Fetcher {
	var robots *util.RobotsChecker
	if httpCfg.RespectRobots {
		robots = util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, ""),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		robots:    robots,
		limiter:   worker.NewLimiter(domainRate, 2),
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

// Content fetches a URL and returns its paragraph text joined with
// spaces. YouTube links are skipped (empty result) unless the query is
// video-flavored. A URL the site's robots.txt disallows also yields an
// empty result rather than an error.
func (f *Fetcher) Content(ctx context.Context, rawURL string, videoSearch bool) (string, error) {
	key := cache.ContentKey(rawURL, videoSearch)
	if f.cache != nil {
		if data, found := f.cache.Get(key); found {
			return string(data), nil
		}
	}

	if YouTubeID(rawURL) != "" && !videoSearch {
		return "", nil
	}

	if f.robots != nil && !f.robots.IsAllowed(ctx, rawURL) {
		return "", nil
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	body, err := f.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	content := ExtractParagraphs(body)

	if f.cache != nil {
		_ = f.cache.Set(key, []byte(content), f.cacheTTL)
	}

	return content, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

// ExtractParagraphs parses HTML and returns the text of every <p>
// element, cleaned and joined with single spaces. Parse failures yield
// an empty string; downstream treats that as a source with no content.
func ExtractParagraphs(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p":
				if text := CleanText(nodeText(n)); text != "" {
					parts = append(parts, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.Join(parts, " ")
}

// nodeText collects the text nodes under n
func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// CleanText collapses whitespace runs and strips characters that break
// JSON prompt payloads, matching how fetched page text is fed to the
// LLM.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, `"`, "'")
	text = strings.ReplaceAll(text, `\`, "")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}
