// Package rest provides the HTTP primitives shared by the network
// sources: an authenticated JSON client, page-number and Link-header
// pagination, and the sentinel errors of the upstream error taxonomy.
package rest

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
)

const (
	requestTimeout = 30 * time.Second
	maxBodySize    = 8 << 20 // 8 MB
	userAgent      = "did/1.0"
)

var (
	// ErrUnauthorized indicates a missing, expired, or invalid token.
	ErrUnauthorized = errors.New("rest: unauthorized")
	// ErrRateLimited indicates the upstream rate limit was hit.
	ErrRateLimited = errors.New("rest: rate limited")
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("rest: not found")
)

// Client is a minimal JSON API client. One instance lives on a source
// group and is shared among that group's stats only.
type Client struct {
	base    string
	headers map[string]string
	http    *http.Client
}

// NewClient builds a client for the given API base URL. Extra headers,
// typically authorization, apply to every request.
func NewClient(base string, headers map[string]string) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		headers: headers,
		http:    &http.Client{},
	}
}

// GetJSON performs a GET against path (or an absolute URL) and decodes
// the JSON response into out. The response headers are returned for
// pagination links.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	target := path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.base + path
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("rest: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return resp.Header, ErrUnauthorized
	case http.StatusTooManyRequests:
		return resp.Header, ErrRateLimited
	case http.StatusNotFound:
		return resp.Header, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.Header, fmt.Errorf("rest: unexpected status %d from %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.Header, fmt.Errorf("rest: reading response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.Header, fmt.Errorf("rest: parsing response: %w", err)
	}
	return resp.Header, nil
}
