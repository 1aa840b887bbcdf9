package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "EbookOrganizer/1.0"
	searchFields     = "title,author_name,subject"
)

// Doc is the subset of an Open Library search document shelver uses.
type Doc struct {
	Title      string   `json:"title"`
	AuthorName []string `json:"author_name"`
	Subject    []string `json:"subject"`
}

// Author returns the first listed author.
func (d Doc) Author() string {
	if len(d.AuthorName) == 0 {
		return ""
	}
	return d.AuthorName[0]
}

type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

// Searcher is the search operation the enricher depends on.
type Searcher interface {
	Search(ctx context.Context, title, author string) (*Doc, error)
}

// Client provides access to the Open Library search API.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMinInterval spaces requests at least interval apart. Zero disables
// rate limiting.
func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.rateLimiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// New creates an Open Library client. By default requests are spaced 100ms
// apart.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("openlibrary base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse openlibrary base url: %w", err)
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := &Client{
		baseURL:     baseURL,
		userAgent:   userAgent,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search returns the top search document for title and author, or nil when
// Open Library has no match.
func (c *Client) Search(ctx context.Context, title, author string) (*Doc, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" && author == "" {
		return nil, errors.New("title or author required")
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	endpoint, err := url.Parse(c.baseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("parse openlibrary url: %w", err)
	}
	terms := make([]string, 0, 2)
	if title != "" {
		terms = append(terms, "title:"+title)
	}
	if author != "" {
		terms = append(terms, "author:"+author)
	}
	params := url.Values{}
	params.Set("q", strings.Join(terms, " "))
	params.Set("fields", searchFields)
	params.Set("limit", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openlibrary search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode openlibrary response: %w", err)
	}
	if len(payload.Docs) == 0 {
		return nil, nil
	}
	doc := payload.Docs[0]
	return &doc, nil
}
