// Package api is a minimal GraphQL client for the Linear API.
//
// The client sends plain POST requests and retries transparently on
// rate limits and server errors. Callers use the typed operations in
// queries.go rather than raw query strings.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultEndpoint is the Linear GraphQL endpoint.
const DefaultEndpoint = "https://api.linear.app/graphql"

// Client talks to one organization's API using its token.
type Client struct {
	token    string
	endpoint string
	http     *http.Client
}

// New creates a client against the default endpoint.
func New(token string) *Client {
	return NewWithEndpoint(token, DefaultEndpoint)
}

// NewWithEndpoint creates a client against a custom endpoint,
// used for proxies and tests.
func NewWithEndpoint(token, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		token:    token,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a failed request: an HTTP error status or GraphQL-level
// errors in a 200 response.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("api error: %s", strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("api error: http %d", e.StatusCode)
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// Query runs a GraphQL operation and unmarshals the response data into
// dest. Rate limits (429) and server errors (5xx) are retried with
// exponential backoff; other failures return immediately.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, dest any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	op := func() error {
		return c.do(ctx, body, dest)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, 3), ctx))
}

func (c *Client) do(ctx context.Context, body []byte, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	// Linear expects the raw key, not a Bearer scheme.
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return &APIError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return backoff.Permanent(&APIError{StatusCode: resp.StatusCode})
	}

	var gql gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gql); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	if len(gql.Errors) > 0 {
		msgs := make([]string, len(gql.Errors))
		for i, e := range gql.Errors {
			msgs[i] = e.Message
		}
		return backoff.Permanent(&APIError{StatusCode: resp.StatusCode, Messages: msgs})
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(gql.Data, dest); err != nil {
		return backoff.Permanent(fmt.Errorf("decode data: %w", err))
	}
	return nil
}
