package di

import (
	"time"

	"gorm.io/gorm"

	"ycharts_backend/internal/feature/securities/adapters"
	"ycharts_backend/internal/feature/securities/usecase"
	"ycharts_backend/internal/shared/ratelimiter"
	"ycharts_backend/pkg/ycharts"
)

// NewIngestUsecase creates a directory IngestUsecase with one listing client per resource.
// ratePerMinute limits listing requests; 0 disables the limit.
func NewIngestUsecase(cfg ycharts.Config, db *gorm.DB, ratePerMinute int) *usecase.IngestUsecase {
	opts := ClientOptions(cfg)
	listers := make(map[string]usecase.Lister, len(ycharts.Resources))
	for _, r := range ycharts.Resources {
		listers[r.Path] = ycharts.New(cfg, r, opts...)
	}
	return usecase.NewIngestUsecase(
		listers,
		adapters.NewSecurityRepository(db),
		ratelimiter.NewRateLimiter(ratePerMinute, time.Minute),
	)
}
