// Package adapters はquotesフィーチャーのYChartsクライアント実装を提供します。
package adapters

import (
	"context"
	"fmt"
	"strconv"

	"ycharts_backend/internal/feature/quotes/domain/entity"
	"ycharts_backend/internal/feature/quotes/usecase"
	"ycharts_backend/pkg/ycharts"
)

// YChartsFetcher はリソースごとのycharts.Clientで問い合わせを実行します。
type YChartsFetcher struct {
	clients    map[string]*ycharts.Client
	indicators *ycharts.IndicatorClient
}

var _ usecase.Fetcher = (*YChartsFetcher)(nil)

// NewYChartsFetcher は3種類のリソース用クライアントを生成します。
func NewYChartsFetcher(cfg ycharts.Config, opts ...ycharts.Option) *YChartsFetcher {
	indicators := ycharts.NewIndicatorClient(cfg, opts...)
	return &YChartsFetcher{
		clients: map[string]*ycharts.Client{
			ycharts.Companies.Path:   ycharts.NewCompanyClient(cfg, opts...),
			ycharts.MutualFunds.Path: ycharts.NewMutualFundClient(cfg, opts...),
			ycharts.Indicators.Path:  indicators.Client,
		},
		indicators: indicators,
	}
}

// Client はリソースに対応するクライアントを返します。
func (f *YChartsFetcher) Client(resource string) (*ycharts.Client, bool) {
	c, ok := f.clients[resource]
	return c, ok
}

// Fetch はQueryを型付きのクライアント呼び出しに変換して実行します。
func (f *YChartsFetcher) Fetch(ctx context.Context, q entity.Query) (ycharts.Document, error) {
	c, ok := f.clients[q.Resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", usecase.ErrUnknownResource, q.Resource)
	}
	p := q.Params

	switch q.Endpoint {
	case entity.EndpointPoints:
		at, err := ycharts.ParseDate(p["date"])
		if err != nil {
			return nil, err
		}
		if q.Resource == ycharts.Indicators.Path {
			return f.indicators.Points(ctx, q.Symbols, at)
		}
		return c.Points(ctx, q.Symbols, q.Codes, at)

	case entity.EndpointSeries:
		opts, err := seriesOptions(p)
		if err != nil {
			return nil, err
		}
		if q.Resource == ycharts.Indicators.Path {
			return f.indicators.Series(ctx, q.Symbols, opts)
		}
		return c.Series(ctx, q.Symbols, q.Codes, opts)

	case entity.EndpointInfo:
		return c.Info(ctx, q.Symbols, q.Codes)

	case entity.EndpointList:
		page := 1
		if s := p["page"]; s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: page %q", usecase.ErrInvalidParameter, s)
			}
			page = n
		}
		return c.List(ctx, ycharts.ListOptions{Page: page, FilterName: p["filter_name"], FilterValue: p["filter_value"]})

	case entity.EndpointDividends:
		var (
			opts ycharts.DividendOptions
			err  error
		)
		if opts.ExStart, err = ycharts.ParseDate(p["ex_start_date"]); err != nil {
			return nil, err
		}
		if opts.ExEnd, err = ycharts.ParseDate(p["ex_end_date"]); err != nil {
			return nil, err
		}
		opts.DividendType = p["dividend_type"]
		return c.Dividends(ctx, q.Symbols, opts)

	case entity.EndpointSplits:
		start, end, err := dateRange(p, "split_start_date", "split_end_date")
		if err != nil {
			return nil, err
		}
		return c.StockSplits(ctx, q.Symbols, ycharts.SplitOptions{Start: start, End: end})

	case entity.EndpointSpinoffs:
		start, end, err := dateRange(p, "spinoff_start_date", "spinoff_end_date")
		if err != nil {
			return nil, err
		}
		return c.StockSpinoffs(ctx, q.Symbols, ycharts.SpinoffOptions{Start: start, End: end})
	}

	return nil, fmt.Errorf("%w: %q", usecase.ErrUnknownEndpoint, q.Endpoint)
}

func seriesOptions(p map[string]string) (ycharts.SeriesOptions, error) {
	start, end, err := dateRange(p, "start_date", "end_date")
	if err != nil {
		return ycharts.SeriesOptions{}, err
	}
	return ycharts.SeriesOptions{
		Start:             start,
		End:               end,
		ResampleFrequency: p["resample_frequency"],
		ResampleFunction:  p["resample_function"],
		FillMethod:        p["fill_method"],
		AggregateFunction: p["aggregate_function"],
	}, nil
}

func dateRange(p map[string]string, startKey, endKey string) (start, end ycharts.Date, err error) {
	if start, err = ycharts.ParseDate(p[startKey]); err != nil {
		return
	}
	end, err = ycharts.ParseDate(p[endKey])
	return
}
