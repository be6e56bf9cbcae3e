// Package search talks to the Qwant v3 API and fetches page content
// for the result URLs.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hayhai/hayhai/internal/cache"
	"github.com/hayhai/hayhai/internal/model"
	"github.com/hayhai/hayhai/internal/util"
)

const (
	maxRetries = 3
	retryDelay = 5 * time.Second
)

// Client is a Qwant v3 search client with TTL-cached responses
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	locale     string
	safesearch int
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewClient creates a new Qwant client
func NewClient(cfg model.SearchConfig, httpCfg model.HTTPConfig, c cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, ""),
			},
		},
		baseURL:    cfg.BaseURL,
		userAgent:  httpCfg.UserAgent,
		locale:     cfg.Locale,
		safesearch: cfg.SafeSearch,
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

// Result is one search result item
type Result struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"desc,omitempty"`
}

// Search performs a Qwant search of the given type and returns the
// flattened result items. Responses are cached per query, type, and
// locale.
func (c *Client) Search(ctx context.Context, query string, searchType model.SearchType) ([]Result, error) {
	key := cache.SearchKey(query, string(searchType), c.locale, c.safesearch)
	if c.cache != nil {
		if data, found := c.cache.Get(key); found {
			var results []Result
			if err := json.Unmarshal(data, &results); err == nil {
				return results, nil
			}
		}
	}

	body, err := c.request(ctx, query, searchType)
	if err != nil {
		return nil, err
	}

	results, err := flattenResults(body)
	if err != nil {
		return nil, fmt.Errorf("decode qwant response: %w", err)
	}

	if c.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			_ = c.cache.Set(key, data, c.cacheTTL)
		}
	}

	return results, nil
}

// request performs the HTTP call with fixed-delay retries
func (c *Client) request(ctx context.Context, query string, searchType model.SearchType) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/search/%s", c.baseURL, searchType)

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", "10")
	params.Set("locale", c.locale)
	params.Set("offset", "0")
	params.Set("device", "desktop")
	params.Set("safesearch", strconv.Itoa(c.safesearch))
	params.Set("displayed", "true")
	params.Set("llm", "true")

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		body, err := c.doRequest(ctx, endpoint, params)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("qwant search failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qwant request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// qwantItem mirrors one item in the Qwant response. Items can nest one
// level: a "mainline" group item carries its own items array.
type qwantItem struct {
	URL   string      `json:"url"`
	Title string      `json:"title"`
	Desc  string      `json:"desc"`
	Items []qwantItem `json:"items"`
}

type qwantResponse struct {
	Data struct {
		Result struct {
			Items json.RawMessage `json:"items"`
		} `json:"result"`
	} `json:"data"`
}

// flattenResults extracts result items from a Qwant response body.
// The items field is either a flat array or an object whose "mainline"
// groups wrap the real items.
func flattenResults(body []byte) ([]Result, error) {
	var resp qwantResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	raw := resp.Data.Result.Items
	if len(raw) == 0 {
		return nil, nil
	}

	var items []qwantItem
	if err := json.Unmarshal(raw, &items); err != nil {
		var grouped struct {
			Mainline []qwantItem `json:"mainline"`
		}
		if err := json.Unmarshal(raw, &grouped); err != nil {
			return nil, err
		}
		items = grouped.Mainline
	}

	var results []Result
	for _, item := range items {
		if item.URL != "" {
			results = append(results, Result{URL: item.URL, Title: item.Title, Description: item.Desc})
		}
		for _, sub := range item.Items {
			if sub.URL != "" {
				results = append(results, Result{URL: sub.URL, Title: sub.Title, Description: sub.Desc})
			}
		}
	}

	return results, nil
}
