// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package lookup talks to the remote, spreadsheet backed guest service.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/tablefinder/internal/model"
)

// DefaultBaseURL is the deployed lookup service.
const DefaultBaseURL = "https://script.google.com/macros/s/AKfycbwnf4TMDl02UBQFoNonbkJUCT6wrUF9MM2xoBOG-BHTC-Cnz-S-seI8ZNDGBtLkSmot/exec"

const maxBodySize = 1 << 20

// NetworkError is returned when the service could not be reached, answered
// with a non 2xx status or sent a body that is not JSON. Well-formed JSON of
// any shape is handed to the caller.
type NetworkError struct {
	Action     model.SearchMode
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lookup %s: HTTP %d", e.Action, e.StatusCode)
	}
	return fmt.Sprintf("lookup %s: %s", e.Action, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid lookup url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid lookup url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default().WithGroup("lookup"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Lookup asks the service for the guest(s) matching value. The decoded body
// is returned as is; interpreting success and code is up to the caller.
func (c *Client) Lookup(ctx context.Context, action model.SearchMode, value string) (*model.ApiResponse, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Client.Lookup", trace.WithAttributes(
		attribute.String("lookup.action", action.String()),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(action, value), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &NetworkError{Action: action, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	res, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WarnContext(ctx, "lookup request failed", "action", action, "error", err)
		return nil, &NetworkError{Action: action, Err: err}
	}
	defer res.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		err := &NetworkError{Action: action, StatusCode: res.StatusCode}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WarnContext(ctx, "lookup returned unexpected status", "action", action, "status", res.StatusCode)
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodySize))
		return nil, err
	}

	resp := &model.ApiResponse{}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodySize)).Decode(resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WarnContext(ctx, "could not decode lookup response", "action", action, "error", err)
		return nil, &NetworkError{Action: action, StatusCode: res.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}

	span.SetAttributes(
		attribute.Bool("lookup.success", resp.Success),
		attribute.String("lookup.code", string(resp.Code)),
	)
	return resp, nil
}

func (c *Client) requestURL(action model.SearchMode, value string) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("action", action.String())
	q.Set("value", value)
	u.RawQuery = q.Encode()
	return u.String()
}
