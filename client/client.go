// Package client implements the backend request client: parameter
// assembly, JSON POST over a transport adapter, and response
// normalization into the accepted-code contract.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

// Client executes backend calls. Every request body carries three layers
// of parameters: the fixed game identity block, the call-specific params,
// and the session token. Call params override fixed params; the token is
// merged last and always wins.
type Client struct {
	baseURL       string
	adapter       core.TransportAdapter
	fixedParams   map[string]any
	acceptedCodes map[int64]struct{}
	timeout       time.Duration
	logger        core.Logger
}

type Option func(*Client)

func WithLogger(logger core.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New builds a request client from the resolved configuration and a
// transport adapter.
func New(cfg core.Config, adapter core.TransportAdapter, options ...Option) (*Client, error) {
	if adapter == nil {
		return nil, clientError("transport adapter is required", goerrors.CategoryBadInput, nil)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if baseURL == "" {
		return nil, clientError("api base url is required", goerrors.CategoryBadInput, nil)
	}
	c := &Client{
		baseURL:       baseURL,
		adapter:       adapter,
		fixedParams:   cfg.FixedParams(),
		acceptedCodes: cfg.AcceptedCodeSet(),
		timeout:       cfg.RequestTimeout,
		logger:        glog.Nop(),
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}
	return c, nil
}

// Do runs one backend call. Transport-level failures (network errors,
// non-2xx statuses, unreadable bodies) return an error; business failures
// come back as a normalized response with Success=false.
func (c *Client) Do(ctx context.Context, req core.BackendRequest) (core.NormalizedResponse, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return core.NormalizedResponse{}, clientError("request path is required", goerrors.CategoryBadInput, nil)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	body, err := json.Marshal(c.assembleParams(req))
	if err != nil {
		return core.NormalizedResponse{}, clientWrapError(err, goerrors.CategoryBadInput, "encode request params", map[string]any{
			"path": path,
		})
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	response, err := c.adapter.Do(ctx, core.TransportRequest{
		Method:  http.MethodPost,
		URL:     c.baseURL + path,
		Body:    body,
		Timeout: timeout,
	})
	if err != nil {
		return core.NormalizedResponse{}, clientWrapError(err, goerrors.CategoryExternal, "backend request failed", map[string]any{
			"path": path,
		})
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return core.NormalizedResponse{}, clientError("backend answered with a non-success status", goerrors.CategoryExternal, map[string]any{
			"path":        path,
			"status_code": response.StatusCode,
		})
	}

	normalized, err := Normalize(response.Body, c.acceptedCodes)
	if err != nil {
		return core.NormalizedResponse{}, clientWrapError(err, goerrors.CategoryExternal, "backend response unreadable", map[string]any{
			"path":        path,
			"status_code": response.StatusCode,
		})
	}

	c.logDebug(ctx, path, normalized)
	return normalized, nil
}

// assembleParams merges the three parameter layers. Order matters: fixed
// params first, call params over them, session token last.
func (c *Client) assembleParams(req core.BackendRequest) map[string]any {
	merged := make(map[string]any, len(c.fixedParams)+len(req.Params)+1)
	for key, value := range c.fixedParams {
		merged[key] = value
	}
	for key, value := range req.Params {
		merged[key] = value
	}
	if token := strings.TrimSpace(req.SessionToken); token != "" {
		merged["token"] = token
	}
	return merged
}

func (c *Client) logDebug(ctx context.Context, path string, response core.NormalizedResponse) {
	if c.logger == nil {
		return
	}
	logger := c.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	logger.Debug("backend response",
		"path", path,
		"code", response.Code,
		"success", response.Success,
	)
}

var _ core.RequestClient = (*Client)(nil)
