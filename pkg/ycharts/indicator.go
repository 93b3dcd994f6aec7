package ycharts

import "context"

// IndicatorClient queries economic indicators. Indicators have a single implicit
// series, so Points and Series take no calculation codes. Info, List and the
// other methods come from the embedded Client.
type IndicatorClient struct {
	*Client
}

// NewIndicatorClient creates a client for the indicators resource.
func NewIndicatorClient(cfg Config, opts ...Option) *IndicatorClient {
	return &IndicatorClient{Client: New(cfg, Indicators, opts...)}
}

// Points queries the indicator value on or before at.
func (c *IndicatorClient) Points(ctx context.Context, symbols []string, at Date) (Document, error) {
	return c.Client.Points(ctx, symbols, nil, at)
}

// Series queries the indicator's time series.
func (c *IndicatorClient) Series(ctx context.Context, symbols []string, opts SeriesOptions) (Document, error) {
	return c.Client.Series(ctx, symbols, nil, opts)
}
