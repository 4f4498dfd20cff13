// Package reviews manages per-item user reviews held in the remote review
// store. Like the user store, the backing API is a plain collection with no
// query support: every read fetches the full collection and filters locally.
package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// FlexID is an identifier that the store serves as either a JSON string or
// a JSON number. It normalizes both to a string so comparisons are stable.
type FlexID string

// UnmarshalJSON accepts string and numeric representations.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("reviews: id is neither string nor number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// String returns the normalized identifier.
func (f FlexID) String() string { return string(f) }

// Review is one user-authored review attached to a catalog item.
type Review struct {
	ID       FlexID `json:"id,omitempty"`
	AnimeID  FlexID `json:"animeId"`
	Title    string `json:"title"`
	Contents string `json:"contents"`
	Rating   int    `json:"rating"`
	UserID   string `json:"userid"`
	Time     int64  `json:"time"`
}

// Store abstracts the review collection so a backend with server-side
// filtering can be substituted without touching the Ledger.
type Store interface {
	List(ctx context.Context) ([]Review, error)
	Create(ctx context.Context, review Review) error
	Delete(ctx context.Context, id string) error
}

// HTTPClient matches the subset of http.Client used by HTTPStore.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPStore implements Store against the mock review-store collection URL.
type HTTPStore struct {
	endpoint string
	client   HTTPClient
}

// NewHTTPStore constructs a Store for the given collection endpoint.
func NewHTTPStore(endpoint string, client HTTPClient) (*HTTPStore, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("reviews: endpoint is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{endpoint: strings.TrimRight(endpoint, "/"), client: client}, nil
}

// List fetches the full review collection.
func (s *HTTPStore) List(ctx context.Context) ([]Review, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reviews: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reviews: list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse("list reviews", resp)
	}

	var list []Review
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("reviews: decode review list: %w", err)
	}
	return list, nil
}

// Create appends a review to the collection.
func (s *HTTPStore) Create(ctx context.Context, review Review) error {
	payload := map[string]any{
		"animeId":  review.AnimeID.String(),
		"title":    review.Title,
		"contents": review.Contents,
		"rating":   review.Rating,
		"userid":   review.UserID,
		"time":     review.Time,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("reviews: encode review: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &buf)
	if err != nil {
		return fmt.Errorf("reviews: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("reviews: create request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return errorFromResponse("create review", resp)
	}
	return nil
}

// Delete removes a review by id. The store performs no ownership check; the
// Ledger is the only enforcement point.
func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("reviews: review id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.endpoint+"/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("reviews: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("reviews: delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errorFromResponse("delete review "+strconv.Quote(id), resp)
	}
	return nil
}

func errorFromResponse(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<14))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("reviews: %s: store error (%d): %s", op, resp.StatusCode, msg)
}
