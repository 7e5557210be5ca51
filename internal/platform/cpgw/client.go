// Package cpgw provides a minimal client for the Pinecone control-plane
// ("cpgw") HTTP API used to bootstrap and tear down a BYOC deployment.
//
// The client classifies every response into the taxonomy the resource
// providers depend on: 2xx parses into the caller's type, 5xx retries with
// exponential backoff and surfaces as a TransientError once retries are
// exhausted, and everything else fails immediately as an APIError.
package cpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/util/retry"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

// Client is a minimal control-plane API client. One Client carries one
// credential; bootstrap uses several Clients because the key that
// authenticates a call is itself minted by an earlier call.
type Client struct {
	apiURL     string
	creds      Credentials
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetry overrides the retry budget for 5xx and transport failures.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
	}
}

// NewClient creates a control-plane client for the given API base URL.
func NewClient(apiURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		creds:      creds,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request issues one authenticated call and decodes a 2xx JSON body into out
// (out may be nil for calls whose response body is irrelevant). Transport
// errors and 5xx responses are retried with exponential backoff; any other
// non-2xx fails immediately.
func (c *Client) request(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	operation := func() error {
		req, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return retry.Fatal(err)
		}
		// The token exchange is itself a network call, so auth failures
		// stay retryable.
		if err := c.creds.authorize(req); err != nil {
			return err
		}
		return c.do(req, out)
	}

	return retry.WithExponentialBackoff(ctx, operation,
		retry.WithMaxRetries(c.maxRetries),
		retry.WithInitialDelay(c.baseDelay))
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return &TransientError{StatusCode: resp.StatusCode, Body: string(body)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return retry.Fatal(&APIError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return retry.Fatal(&APIError{
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("unparseable response body: %s", string(body)),
		})
	}
	return nil
}
