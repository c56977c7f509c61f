package repository

import (
	"context"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.BuilderReview) error
	ListForBuilder(ctx context.Context, builderID string) ([]domain.BuilderReview, error)
}
