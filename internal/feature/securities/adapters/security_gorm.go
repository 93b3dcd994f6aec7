// Package adapters はsecuritiesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ycharts_backend/internal/feature/securities/domain/entity"
	"ycharts_backend/internal/feature/securities/usecase"
)

// upsertBatchSize は1回のINSERTで送る件数です。
const upsertBatchSize = 500

// securityGorm はSecurityRepositoryインターフェースのgorm実装です（PostgreSQL / SQLite）。
type securityGorm struct {
	db *gorm.DB
}

var _ usecase.SecurityRepository = (*securityGorm)(nil)

// NewSecurityRepository は指定されたDB接続でsecurityGormリポジトリの新しいインスタンスを生成します。
func NewSecurityRepository(db *gorm.DB) *securityGorm {
	return &securityGorm{db: db}
}

// UpsertBatch は(resource_type, symbol)をキーに銘柄を挿入または更新します。
func (r *securityGorm) UpsertBatch(ctx context.Context, securities []entity.Security) error {
	if len(securities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_type"}, {Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "exchange", "raw", "updated_at"}),
		}).
		CreateInBatches(&securities, upsertBatchSize).Error
}

// ListByResource はシンボル順に1リソース分の銘柄を返します。
func (r *securityGorm) ListByResource(ctx context.Context, resource string) ([]entity.Security, error) {
	var out []entity.Security
	if err := r.db.WithContext(ctx).
		Where("resource_type = ?", resource).
		Order("symbol ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
