package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"ycharts_backend/internal/feature/securities/domain/entity"
	"ycharts_backend/internal/shared/ratelimiter"
	"ycharts_backend/pkg/ycharts"
)

// maxPages は1リソースあたりに取得する一覧ページ数の上限です。
const maxPages = 1000

// Lister はYChartsの一覧エンドポイントを1ページずつ取得します。
// *ycharts.Client が満たします。
type Lister interface {
	List(ctx context.Context, opts ycharts.ListOptions) (ycharts.Document, error)
}

// IngestUsecase は一覧APIから銘柄ディレクトリを取得し、データベースに永続化します。
type IngestUsecase struct {
	listers     map[string]Lister
	repo        SecurityRepository
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase は新しい IngestUsecase を作成します。listers のキーはリソースのパスです。
func NewIngestUsecase(listers map[string]Lister, repo SecurityRepository, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{listers: listers, repo: repo, rateLimiter: rateLimiter}
}

// IngestResource は1ページ目から num_pages まで一覧を取得して保存し、保存件数を返します。
// 空のページ、またはページ情報が無いレスポンスで終了します。
// ページ取得・保存のいずれかが失敗した時点で、そのリソースの処理を中断します。
func (iu *IngestUsecase) IngestResource(ctx context.Context, resource, filterName, filterValue string) (int, error) {
	lister, ok := iu.listers[resource]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}

	total := 0
	for page := 1; ; page++ {
		if page > maxPages {
			return total, fmt.Errorf("%w: %s", ErrTooManyPages, resource)
		}
		if err := iu.rateLimiter.WaitIfNeeded(ctx); err != nil {
			return total, err
		}

		doc, err := lister.List(ctx, ycharts.ListOptions{Page: page, FilterName: filterName, FilterValue: filterValue})
		if err != nil {
			return total, fmt.Errorf("list %s page %d: %w", resource, page, err)
		}

		securities := toSecurities(resource, doc.Response())
		if len(securities) == 0 {
			break
		}
		if err := iu.repo.UpsertBatch(ctx, securities); err != nil {
			return total, fmt.Errorf("save %s page %d: %w", resource, page, err)
		}
		total += len(securities)
		slog.Info("ingested listing page", "resource", resource, "page", page, "count", len(securities))

		p, ok := doc.Pagination()
		if !ok || p.NumPages <= page {
			break
		}
	}
	return total, nil
}

// IngestAll は指定された全リソースを取り込みます。
// 1つのリソースが失敗しても残りのリソースは処理し、エラーはまとめて返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, resources []string) error {
	var errs []error
	for _, r := range resources {
		n, err := iu.IngestResource(ctx, r, "", "")
		if err != nil {
			slog.Error("failed to ingest directory", "resource", r, "ingested", n, "error", err)
			errs = append(errs, err)
			continue
		}
		slog.Info("directory ingested", "resource", r, "count", n)
	}
	return errors.Join(errs...)
}

// toSecurities は一覧レスポンスを Security に変換します。
// レスポンスは項目の配列、またはシンボルをキーとするオブジェクトのどちらも受け付けます。
func toSecurities(resource string, response any) []entity.Security {
	var out []entity.Security
	switch v := response.(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				if s, ok := toSecurity(resource, "", m); ok {
					out = append(out, s)
				}
			}
		}
	case map[string]any:
		symbols := make([]string, 0, len(v))
		for k := range v {
			symbols = append(symbols, k)
		}
		sort.Strings(symbols)
		for _, sym := range symbols {
			if m, ok := v[sym].(map[string]any); ok {
				if s, ok := toSecurity(resource, sym, m); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func toSecurity(resource, symbol string, m map[string]any) (entity.Security, bool) {
	for _, key := range []string{"ycid", "symbol", "security_id"} {
		if symbol != "" {
			break
		}
		symbol, _ = m[key].(string)
	}
	if symbol == "" {
		return entity.Security{}, false
	}
	raw, _ := json.Marshal(m)
	name, _ := m["name"].(string)
	exchange, _ := m["exchange"].(string)
	return entity.Security{
		ResourceType: resource,
		Symbol:       symbol,
		Name:         name,
		Exchange:     exchange,
		Raw:          string(raw),
	}, true
}
