package api

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

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/quillhq/quill/internal/cache"
)

// versionHeader carries the backend's API version on every response.
const versionHeader = "X-Quill-Api-Version"

// requestIDHeader carries the client-generated correlation ID.
const requestIDHeader = "X-Request-Id"

// supportedVersions is the semver range of backend API versions this
// client understands.
const supportedVersions = ">= 1.0, < 2.0"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client talks to the Quill backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     zerolog.Logger
	store      *cache.Store
	versions   *semver.Constraints
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the client's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithCache enables response caching for GET requests.
func WithCache(store *cache.Store) Option {
	return func(c *Client) { c.store = store }
}

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}

	constraints, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return nil, fmt.Errorf("failed to parse version constraint: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zerolog.Nop(),
		versions:   constraints,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken replaces the bearer token on an existing client, used after
// a successful login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// get issues a GET request, consulting the response cache first. Cache
// misses and errors both fall through to the network; a stale or
// broken cache must never break a listing.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	fullURL := c.requestURL(path, query)

	if c.store != nil && c.store.Enabled() {
		key := cache.Key(fullURL)
		if entry, err := c.store.Get(key); err == nil {
			c.logger.Debug().Str("url", fullURL).Dur("age", entry.Age()).Msg("cache hit")
			return json.Unmarshal(entry.Data, out)
		}
	}

	body, err := c.do(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}

	if c.store != nil && c.store.Enabled() {
		if cacheErr := c.store.Set(cache.Key(fullURL), body); cacheErr != nil {
			c.logger.Warn().Err(cacheErr).Str("url", fullURL).Msg("failed to cache response")
		}
	}

	return json.Unmarshal(body, out)
}

// post issues a POST request with a JSON body. Never cached.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.requestURL(path, nil), payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// do executes one HTTP request and returns the response body. Non-2xx
// responses are decoded into *APIError.
func (c *Client) do(ctx context.Context, method, fullURL string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("method", method).
		Str("url", fullURL).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request completed")

	if err := c.checkVersion(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// checkVersion validates the backend's reported API version against
// the supported range. A missing header is accepted for backends that
// predate version reporting.
func (c *Client) checkVersion(resp *http.Response) error {
	reported := resp.Header.Get(versionHeader)
	if reported == "" {
		return nil
	}

	version, err := semver.NewVersion(reported)
	if err != nil {
		c.logger.Warn().Str("version", reported).Msg("backend reported unparsable API version")
		return nil
	}

	if !c.versions.Check(version) {
		return fmt.Errorf("%w: backend reports %s, client supports %s",
			ErrUnsupportedVersion, reported, supportedVersions)
	}
	return nil
}

// requestURL joins the base URL, path, and query string.
func (c *Client) requestURL(path string, query url.Values) string {
	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}
