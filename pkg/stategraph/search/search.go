// Package search provides a web search client over a Tavily-style JSON API,
// plus an adapter exposing it as a tool for agent graphs.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL    = "https://api.tavily.com"
	defaultMaxResults = 3
	maxResultsCap     = 20
)

// ErrMissingAPIKey indicates the client was constructed without a credential.
var ErrMissingAPIKey = errors.New("search: API key is required")

// Result is one ranked search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// CallError wraps a failed search API call.
type CallError struct {
	Query string
	Err   error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("search for %q failed: %v", e.Query, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Options configure the search client.
type Options struct {
	BaseURL    string
	MaxResults int

	// Timeout bounds each call. Zero leaves cancellation to the caller's
	// context.
	Timeout time.Duration

	HTTPClient *http.Client
}

// Client calls a Tavily-style search API: POST /search with a JSON body,
// ranked results back.
type Client struct {
	apiKey string
	opts   Options
}

// NewClient creates a search client. The API key comes from the caller;
// examples read TAVILY_API_KEY from the environment.
func NewClient(apiKey string, optFns ...func(o *Options)) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := Options{
		BaseURL:    defaultBaseURL,
		MaxResults: defaultMaxResults,
		HTTPClient: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	if opts.MaxResults > maxResultsCap {
		opts.MaxResults = maxResultsCap
	}

	return &Client{apiKey: apiKey, opts: opts}, nil
}

// WithBaseURL overrides the API endpoint. Tests point it at a local server.
func WithBaseURL(url string) func(o *Options) {
	return func(o *Options) { o.BaseURL = url }
}

// WithMaxResults caps the number of results per query.
func WithMaxResults(n int) func(o *Options) {
	return func(o *Options) { o.MaxResults = n }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) func(o *Options) {
	return func(o *Options) { o.Timeout = d }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) func(o *Options) {
	return func(o *Options) { o.HTTPClient = c }
}

type apiRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type apiResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search runs one query and returns up to MaxResults ranked results.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(apiRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.opts.MaxResults,
	})
	if err != nil {
		return nil, &CallError{Query: query, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Query: query, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, &CallError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Query: query, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &CallError{
			Query: query,
			Err:   fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody),
		}
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &CallError{Query: query, Err: fmt.Errorf("parse response: %w", err)}
	}

	results := make([]Result, 0, len(parsed.Results))
	for i, r := range parsed.Results {
		if i >= c.opts.MaxResults {
			break
		}
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		})
	}

	return results, nil
}
