package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
)

type BuilderUseCase struct {
	profileRepo repository.ProfileRepository
	reviewRepo  repository.ReviewRepository
}

func NewBuilderUseCase(profileRepo repository.ProfileRepository, reviewRepo repository.ReviewRepository) *BuilderUseCase {
	return &BuilderUseCase{
		profileRepo: profileRepo,
		reviewRepo:  reviewRepo,
	}
}

// ListBuilders returns the builder marketplace page.
func (uc *BuilderUseCase) ListBuilders(ctx context.Context, limit, offset int) ([]domain.BuilderProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.profileRepo.ListBuilders(ctx, limit, offset)
}

// GetBuilder returns one builder with their reviews.
func (uc *BuilderUseCase) GetBuilder(ctx context.Context, builderID string) (*domain.BuilderProfile, []domain.BuilderReview, error) {
	builder, err := uc.profileRepo.GetBuilder(ctx, builderID)
	if err != nil {
		return nil, nil, err
	}
	reviews, err := uc.reviewRepo.ListForBuilder(ctx, builderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return builder, reviews, nil
}

// AddReview records a review. Builders cannot review themselves and ratings
// are clamped to the 1..5 scale by validation, not silently.
func (uc *BuilderUseCase) AddReview(ctx context.Context, builderID, reviewerID string, rating int, comment string) (*domain.BuilderReview, error) {
	if builderID == reviewerID {
		return nil, domain.ErrSelfReview
	}
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidInput
	}

	// The target must actually be a builder.
	if _, err := uc.profileRepo.GetBuilder(ctx, builderID); err != nil {
		return nil, err
	}

	review := &domain.BuilderReview{
		BuilderID:  builderID,
		ReviewerID: reviewerID,
		Rating:     rating,
	}
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		review.Comment = &trimmed
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}
