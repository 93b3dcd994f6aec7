package usecase

import (
	"context"
	"fmt"

	"ycharts_backend/internal/feature/securities/domain/entity"
	"ycharts_backend/pkg/ycharts"
)

// SecurityRepository abstracts the persistence layer for the security directory.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SecurityRepository interface {
	UpsertBatch(ctx context.Context, securities []entity.Security) error
	ListByResource(ctx context.Context, resource string) ([]entity.Security, error)
}

// SecurityUsecase provides read access to the security directory.
type SecurityUsecase struct {
	repo SecurityRepository
}

// NewSecurityUsecase creates a new SecurityUsecase with the given repository.
func NewSecurityUsecase(r SecurityRepository) *SecurityUsecase {
	return &SecurityUsecase{repo: r}
}

// ListSecurities returns the stored securities of one resource, ordered by symbol.
func (u *SecurityUsecase) ListSecurities(ctx context.Context, resource string) ([]entity.Security, error) {
	if _, ok := ycharts.ResourceByPath(resource); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	return u.repo.ListByResource(ctx, resource)
}
