package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPProvider checks action keys against a remote authorization
// service over HTTP. Every request is bounded by a timeout; a non-200
// response or transport failure yields an error, which callers fold
// into a fail-closed denial.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	header  func(ctx context.Context) http.Header
}

// HTTPOption configures the HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) { p.client = c }
}

// WithTimeout sets the per-check timeout (default 5s).
func WithTimeout(d time.Duration) HTTPOption {
	return func(p *HTTPProvider) { p.client.Timeout = d }
}

// WithHeaderFunc supplies per-request headers (bearer token forwarding).
func WithHeaderFunc(fn func(ctx context.Context) http.Header) HTTPOption {
	return func(p *HTTPProvider) { p.header = fn }
}

// NewHTTPProvider creates a provider that POSTs check requests to
// {baseURL}/permissions/actions/check.
func NewHTTPProvider(baseURL string, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type checkRequest struct {
	ActionKey string `json:"action_key"`
}

type checkResponse struct {
	HasPermission bool   `json:"has_permission"`
	Source        string `json:"source,omitempty"`
}

// Check asks the remote service whether the caller holds the action key.
func (p *HTTPProvider) Check(ctx context.Context, actionKey string) (Result, error) {
	body, err := json.Marshal(checkRequest{ActionKey: actionKey})
	if err != nil {
		return Result{}, fmt.Errorf("authz: encode check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/permissions/actions/check", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("authz: build check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.header != nil {
		for k, vals := range p.header(ctx) {
			for _, v := range vals {
				req.Header.Add(k, v)
			}
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("authz: check %q: %w", actionKey, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close failure is not actionable

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("authz: check %q: unexpected status %d", actionKey, resp.StatusCode)
	}

	var out checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("authz: decode check response: %w", err)
	}

	return Result{Granted: out.HasPermission, Source: out.Source}, nil
}
