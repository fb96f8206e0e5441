// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

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

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/ticketdesk-tui/internal/logging"
	"github.com/jeranaias/ticketdesk-tui/internal/session"
)

const (
	// DefaultLoginPath is the credential endpoint of the API.
	DefaultLoginPath = "/auth/login"

	// DefaultTimeout bounds a request when the caller's context has no
	// deadline.
	DefaultTimeout = 15 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "ticketdesk/0.1.0"
)

// Request describes one outgoing API call.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "/tickets/42".
	Path string
	// Body is encoded as JSON when non-nil.
	Body any
}

// Gateway is the single chokepoint every API request goes through.
type Gateway struct {
	baseURL   string
	loginPath string
	store     *session.Store
	client    *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger

	invalidated chan struct{}
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			g.client = c
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.client.Timeout = d
		}
	}
}

// WithLoginPath overrides DefaultLoginPath.
func WithLoginPath(p string) Option {
	return func(g *Gateway) {
		if p != "" {
			g.loginPath = normalizePath(p)
		}
	}
}

// WithRateLimit paces requests to rps per second with the given burst.
// rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		g.logger = logging.OrNop(l)
	}
}

// NewGateway creates a Gateway for the API at baseURL that reads and clears
// credentials in store.
func NewGateway(baseURL string, store *session.Store, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		loginPath:   DefaultLoginPath,
		store:       store,
		client:      &http.Client{Timeout: DefaultTimeout},
		logger:      zap.NewNop(),
		invalidated: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Store returns the session store the gateway reads tokens from.
func (g *Gateway) Store() *session.Store {
	return g.store
}

// BaseURL returns the API root.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Invalidated delivers one value each time a request was rejected with 401
// outside the login endpoint and the session was cleared. Signals that
// arrive before the previous one is consumed are coalesced.
func (g *Gateway) Invalidated() <-chan struct{} {
	return g.invalidated
}

// IsLoginPath reports whether path addresses the login endpoint.
func (g *Gateway) IsLoginPath(path string) bool {
	return normalizePath(path) == g.loginPath
}

// Do sends req and decodes a 2xx JSON response into out, which may be nil.
func (g *Gateway) Do(ctx context.Context, req Request, out any) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
		}
	}

	httpReq, token, err := g.build(ctx, req)
	if err != nil {
		return err
	}
	requestID := httpReq.Header.Get("X-Request-ID")

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	// Keep the token out of anything that might print the request later.
	httpReq.Header.Del("Authorization")
	if err != nil {
		g.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", req.Method, req.Path, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %w", ErrUnreachable, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	g.logger.Info("request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s %s: failed to parse response: %w", req.Method, req.Path, err)
		}
		return nil
	}

	statusErr := newStatusError(req.Method, req.Path, resp.StatusCode, body)
	if resp.StatusCode == http.StatusUnauthorized && !g.IsLoginPath(req.Path) {
		g.invalidate(token, req)
		return fmt.Errorf("%w: %w", ErrSessionInvalidated, statusErr)
	}
	return statusErr
}

// Get is shorthand for a GET request.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.Do(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

// Post is shorthand for a POST request.
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put is shorthand for a PUT request.
func (g *Gateway) Put(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete is shorthand for a DELETE request.
func (g *Gateway) Delete(ctx context.Context, path string) error {
	return g.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// build turns req into an *http.Request and returns the token it carries.
func (g *Gateway) build(ctx context.Context, req Request) (*http.Request, string, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("%s %s: failed to marshal request: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, g.baseURL+req.Path, body)
	if err != nil {
		return nil, "", fmt.Errorf("%s %s: failed to create request: %w", req.Method, req.Path, err)
	}

	token := ""
	if g.store != nil {
		token = g.store.Token()
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	return httpReq, token, nil
}

// invalidate clears the session the rejected request was sent with and
// signals the controller. A 401 for a token that has since been replaced
// by a newer login changes nothing.
func (g *Gateway) invalidate(token string, req Request) {
	if g.store == nil {
		g.signal()
		return
	}
	cleared, err := g.store.ClearIfToken(token)
	if err != nil {
		g.logger.Error("failed to clear session", zap.Error(err))
	}
	if !cleared {
		g.logger.Debug("ignoring 401 for a replaced session",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
		)
		return
	}
	g.logger.Info("session invalidated by server",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)
	g.signal()
}

func (g *Gateway) signal() {
	select {
	case g.invalidated <- struct{}{}:
	default:
	}
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, errors.New("response exceeded maximum size")
	}
	return body, nil
}

// normalizePath drops the query string and a trailing slash.
func normalizePath(p string) string {
	if u, err := url.Parse(p); err == nil {
		p = u.Path
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
