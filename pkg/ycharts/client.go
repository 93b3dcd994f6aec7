package ycharts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Doer sends an HTTP request. *http.Client satisfies it; timeouts, proxies and
// TLS settings are configured on the Doer, not on the Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries one resource type of the YCharts API.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	cfg      Config
	resource Resource
	doer     Doer
	logger   *slog.Logger
	lenient  bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport used to send requests.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithLenientErrors makes the client return the document unchanged when the
// server declares an error code other than 400 or 414. By default such codes are
// reported as ErrMalformedRequest carrying the server's code and message.
func WithLenientErrors() Option {
	return func(c *Client) { c.lenient = true }
}

// New creates a client for resource r. Empty BaseURL and APIVersion fall back to
// the public API; without WithHTTPClient a plain *http.Client with cfg.Timeout is used.
func New(cfg Config, r Resource, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	c := &Client{cfg: cfg, resource: r}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: cfg.Timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// NewCompanyClient creates a client for the companies resource.
func NewCompanyClient(cfg Config, opts ...Option) *Client {
	return New(cfg, Companies, opts...)
}

// NewMutualFundClient creates a client for the mutual funds resource.
func NewMutualFundClient(cfg Config, opts ...Option) *Client {
	return New(cfg, MutualFunds, opts...)
}

// Resource returns the resource the client is bound to.
func (c *Client) Resource() Resource {
	return c.resource
}

// Points queries the latest value on or before at for each symbol and calculation code.
// A zero at queries the most recent value.
func (c *Client) Points(ctx context.Context, symbols, codes []string, at Date) (Document, error) {
	if err := c.checkIdentifiers(symbols, codes); err != nil {
		return nil, err
	}
	q := url.Values{}
	if err := setDate(q, "date", at); err != nil {
		return nil, err
	}
	return c.get(ctx, buildPath(c.resource, symbols, endpointPoints, codes), q)
}

// Series queries a time series for each symbol and calculation code.
func (c *Client) Series(ctx context.Context, symbols, codes []string, opts SeriesOptions) (Document, error) {
	if err := c.checkIdentifiers(symbols, codes); err != nil {
		return nil, err
	}
	q, err := opts.values()
	if err != nil {
		return nil, err
	}
	return c.get(ctx, buildPath(c.resource, symbols, endpointSeries, codes), q)
}

// Info queries descriptive fields (e.g. "name") for each symbol.
func (c *Client) Info(ctx context.Context, symbols, fields []string) (Document, error) {
	if len(symbols) == 0 {
		return nil, malformed("No security symbols given.")
	}
	if len(fields) == 0 {
		return nil, malformed("No info fields given.")
	}
	return c.get(ctx, buildPath(c.resource, symbols, endpointInfo, fields), nil)
}

// List queries one page of the resource's securities, optionally narrowed by one filter.
// The filter name is checked against the resource before any request is sent.
func (c *Client) List(ctx context.Context, opts ListOptions) (Document, error) {
	q, err := opts.values(c.resource)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, c.resource.Path, q)
}

// Dividends queries dividend history. Companies and mutual funds only.
func (c *Client) Dividends(ctx context.Context, symbols []string, opts DividendOptions) (Document, error) {
	if !c.resource.Dividends {
		return nil, c.unsupported(endpointDividends)
	}
	if len(symbols) == 0 {
		return nil, malformed("No security symbols given.")
	}
	q, err := opts.values()
	if err != nil {
		return nil, err
	}
	return c.get(ctx, buildPath(c.resource, symbols, endpointDividends, nil), q)
}

// StockSplits queries stock split history. Companies only.
func (c *Client) StockSplits(ctx context.Context, symbols []string, opts SplitOptions) (Document, error) {
	if !c.resource.Splits {
		return nil, c.unsupported(endpointSplits)
	}
	if len(symbols) == 0 {
		return nil, malformed("No security symbols given.")
	}
	q, err := opts.values()
	if err != nil {
		return nil, err
	}
	return c.get(ctx, buildPath(c.resource, symbols, endpointSplits, nil), q)
}

// StockSpinoffs queries spinoff history. Companies only.
func (c *Client) StockSpinoffs(ctx context.Context, symbols []string, opts SpinoffOptions) (Document, error) {
	if !c.resource.Spinoffs {
		return nil, c.unsupported(endpointSpinoffs)
	}
	if len(symbols) == 0 {
		return nil, malformed("No security symbols given.")
	}
	q, err := opts.values()
	if err != nil {
		return nil, err
	}
	return c.get(ctx, buildPath(c.resource, symbols, endpointSpinoffs, nil), q)
}

func (c *Client) checkIdentifiers(symbols, codes []string) error {
	if len(symbols) == 0 {
		return malformed("No security symbols given.")
	}
	switch {
	case c.resource.HasCodes && len(codes) == 0:
		return malformed("No calculation codes given.")
	case !c.resource.HasCodes && len(codes) > 0:
		return malformedf("%s do not take calculation codes.", c.resource.Path)
	}
	return nil
}

func (c *Client) unsupported(endpoint string) *Error {
	return malformedf("%s does not support %s.", c.resource.Path, endpoint)
}

// get sends one GET request and maps the outcome. There is exactly one attempt.
func (c *Client) get(ctx context.Context, path string, q url.Values) (Document, error) {
	u := buildURL(c.cfg.BaseURL, c.cfg.APIVersion, path, q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("ycharts: build request: %w", err)
	}
	req.Header.Set(AuthHeader, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ycharts: GET %s: %w", path, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
	}()
	c.logger.Debug("ycharts request", "method", http.MethodGet, "url", u, "status", res.StatusCode)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errorForStatus(res.StatusCode)
	}

	doc, err := DecodeDocument(res.Body)
	if err != nil {
		return nil, fmt.Errorf("ycharts: decode response: %w", err)
	}

	// payload-level errors arrive with HTTP 200
	if meta := doc.Meta(); meta.Status == "error" {
		e, known := errorForPayload(meta.ErrorCode, meta.ErrorMessage)
		if known || !c.lenient {
			return nil, e
		}
	}
	return doc, nil
}
