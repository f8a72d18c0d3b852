// Package apiclient is the typed data-access client for the portfolio API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultBaseURL   = "http://localhost:5001/api"
	DefaultStaleTime = 5 * time.Minute
)

var (
	ErrUnreachable = errors.New("backend server is not reachable")
	ErrNotFound    = errors.New("resource not found")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	staleTime  time.Duration
	cache      *gocache.Cache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithStaleTime sets how long GET responses are served from cache. Zero
// disables caching.
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) {
		c.staleTime = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		staleTime:  DefaultStaleTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.staleTime > 0 {
		c.cache = gocache.New(c.staleTime, 2*c.staleTime)
	}
	return c
}

// Invalidate drops every cached GET response.
func (c *Client) Invalidate() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

// get serves endpoint from the staleness cache when possible.
func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	if c.cache == nil {
		_, err := c.request(ctx, http.MethodGet, endpoint, nil, out)
		return err
	}
	if raw, ok := c.cache.Get(endpoint); ok {
		return json.Unmarshal(raw.([]byte), out)
	}
	raw, err := c.request(ctx, http.MethodGet, endpoint, nil, out)
	if err != nil {
		return err
	}
	c.cache.SetDefault(endpoint, raw)
	return nil
}

// request performs one JSON call and decodes the body into out. It returns
// the raw body for caching.
func (c *Client) request(ctx context.Context, method, endpoint string, body, out interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnreachable, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return raw, nil
}

type envelope struct {
	Success     bool         `json:"success"`
	Projects    []Project    `json:"projects"`
	Project     *Project     `json:"project"`
	Experiences []Experience `json:"experiences"`
	Experience  *Experience  `json:"experience"`
}

func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	var env envelope
	if err := c.get(ctx, "/projects", &env); err != nil {
		return nil, err
	}
	return orEmpty(env.Projects), nil
}

func (c *Client) GetFeaturedProjects(ctx context.Context) ([]Project, error) {
	var env envelope
	if err := c.get(ctx, "/projects/featured", &env); err != nil {
		return nil, err
	}
	return orEmpty(env.Projects), nil
}

// GetProject counts as a view on the server unless served from cache.
func (c *Client) GetProject(ctx context.Context, id string) (Project, error) {
	var env envelope
	if err := c.get(ctx, "/projects/"+url.PathEscape(id), &env); err != nil {
		return Project{}, err
	}
	if env.Project == nil {
		return Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return *env.Project, nil
}

// LikeProject adds a like and returns the new count. Cached responses are
// dropped so later reads see it.
func (c *Client) LikeProject(ctx context.Context, id string) (int64, error) {
	var res struct {
		Likes int64 `json:"likes"`
	}
	if _, err := c.request(ctx, http.MethodPost, "/projects/"+url.PathEscape(id)+"/like", nil, &res); err != nil {
		return 0, err
	}
	c.Invalidate()
	return res.Likes, nil
}

func (c *Client) GetExperiences(ctx context.Context) ([]Experience, error) {
	var env envelope
	if err := c.get(ctx, "/experience", &env); err != nil {
		return nil, err
	}
	return orEmpty(env.Experiences), nil
}

func (c *Client) GetExperience(ctx context.Context, id string) (Experience, error) {
	var env envelope
	if err := c.get(ctx, "/experience/"+url.PathEscape(id), &env); err != nil {
		return Experience{}, err
	}
	if env.Experience == nil {
		return Experience{}, fmt.Errorf("experience %s: %w", id, ErrNotFound)
	}
	return *env.Experience, nil
}

func (c *Client) SubmitContactForm(ctx context.Context, form ContactForm) (ContactResult, error) {
	var res ContactResult
	if _, err := c.request(ctx, http.MethodPost, "/contact", form, &res); err != nil {
		return ContactResult{}, err
	}
	return res, nil
}

// HealthCheck is never cached.
func (c *Client) HealthCheck(ctx context.Context) (Health, error) {
	var h Health
	if _, err := c.request(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
