package usecase

import (
	"context"
	"fmt"
	"slices"

	"ycharts_backend/internal/feature/quotes/domain/entity"
	"ycharts_backend/pkg/ycharts"
)

var endpoints = []string{
	entity.EndpointPoints,
	entity.EndpointSeries,
	entity.EndpointInfo,
	entity.EndpointList,
	entity.EndpointDividends,
	entity.EndpointSplits,
	entity.EndpointSpinoffs,
}

// Fetcher はYCharts APIへの問い合わせを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type Fetcher interface {
	Fetch(ctx context.Context, q entity.Query) (ycharts.Document, error)
}

// QuotesUsecase はゲートウェイの問い合わせを検証してFetcherへ委譲します。
type QuotesUsecase struct {
	fetcher Fetcher
}

// NewQuotesUsecase は新しい QuotesUsecase を作成します。
func NewQuotesUsecase(f Fetcher) *QuotesUsecase {
	return &QuotesUsecase{fetcher: f}
}

// GetDocument はリソースとエンドポイントを検証し、YChartsのレスポンスをそのまま返します。
// パラメータの詳細な検証（日付・フィルター名）はクライアント側で送信前に行われます。
func (u *QuotesUsecase) GetDocument(ctx context.Context, q entity.Query) (ycharts.Document, error) {
	if _, ok := ycharts.ResourceByPath(q.Resource); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, q.Resource)
	}
	if !slices.Contains(endpoints, q.Endpoint) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, q.Endpoint)
	}
	// 一覧は銘柄を取らない
	if q.Endpoint == entity.EndpointList && len(q.Symbols) > 0 {
		return nil, fmt.Errorf("%w: list does not take symbols", ErrInvalidParameter)
	}
	return u.fetcher.Fetch(ctx, q)
}
