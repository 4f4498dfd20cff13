// Package users authenticates against the remote user store. The store is
// a plain collection API with no query support, so all filtering happens
// client-side over the full user list.
package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// User is an account record in the user store. The store may attach extra
// opaque fields; only these two matter here.
type User struct {
	ID       string `json:"id,omitempty"`
	UserID   string `json:"userid"`
	Password string `json:"password"`
}

// Store abstracts the user collection so a backend with server-side
// filtering can replace the fetch-all client without touching the service.
type Store interface {
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user User) error
}

// HTTPClient matches the subset of http.Client used by HTTPStore.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPStore implements Store against the mock user-store collection URL.
type HTTPStore struct {
	endpoint string
	client   HTTPClient
}

// NewHTTPStore constructs a Store for the given collection endpoint.
func NewHTTPStore(endpoint string, client HTTPClient) (*HTTPStore, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("users: endpoint is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{endpoint: endpoint, client: client}, nil
}

// List fetches every user in the store.
func (s *HTTPStore) List(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("users: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users: list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse("list users", resp)
	}

	var list []User
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("users: decode user list: %w", err)
	}
	return list, nil
}

// Create appends a new user record to the store.
func (s *HTTPStore) Create(ctx context.Context, user User) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(user); err != nil {
		return fmt.Errorf("users: encode user: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &buf)
	if err != nil {
		return fmt.Errorf("users: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("users: create request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return errorFromResponse("create user", resp)
	}
	return nil
}

func errorFromResponse(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<14))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("users: %s: store error (%d): %s", op, resp.StatusCode, msg)
}
