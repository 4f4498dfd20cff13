package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrNotFound is returned when no catalog item exists for the requested id.
	ErrNotFound = errors.New("catalog: item not found")
	// ErrUnavailable is returned when the catalog API could not be reached or
	// answered with a non-success status.
	ErrUnavailable = errors.New("catalog: service unavailable")
)

// The public catalog API throttles aggressive callers, so requests are paced
// through a shared token bucket.
const (
	requestInterval = 400 * time.Millisecond
	requestBurst    = 2
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client issues read-only requests against the anime catalog API.
type Client struct {
	base    *url.URL
	client  HTTPClient
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient constructs a catalog Client for the given base URL.
func NewClient(baseURL string, client HTTPClient, logger *zap.Logger) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("catalog: base URL is required")
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base URL: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:    parsed,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(requestInterval), requestBurst),
		logger:  logger,
	}, nil
}

// Search executes the query and returns one page of results. The top
// listing is used when no filter dimension is set.
func (c *Client) Search(ctx context.Context, query Query) (*Result, error) {
	target := query.buildRequest(c.base)

	var envelope struct {
		Data       []Anime     `json:"data"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := c.getJSON(ctx, target, &envelope); err != nil {
		return nil, err
	}

	result := &Result{Items: envelope.Data}
	if envelope.Pagination != nil {
		result.Pagination = *envelope.Pagination
	} else {
		result.Pagination = Pagination{CurrentPage: query.Normalize().Page, LastVisiblePage: 1}
	}
	if result.Items == nil {
		result.Items = []Anime{}
	}
	return result, nil
}

// Get fetches a single catalog item by id.
func (c *Client) Get(ctx context.Context, id string) (*Anime, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	target := c.base.ResolveReference(&url.URL{Path: "anime/" + url.PathEscape(id)})

	var envelope struct {
		Data *Anime `json:"data"`
	}
	if err := c.getJSON(ctx, target, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, ErrNotFound
	}
	return envelope.Data, nil
}

func (c *Client) getJSON(ctx context.Context, target *url.URL, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("catalog: rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed", zap.String("url", target.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<14))
		c.logger.Warn("catalog responded with error",
			zap.String("url", target.String()),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
