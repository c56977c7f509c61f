package postgres

import (
	"context"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.BuilderReview) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	query := `
		INSERT INTO builder_reviews (id, builder_id, reviewer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, review.ID, review.BuilderID, review.ReviewerID, review.Rating, review.Comment).
		Scan(&review.CreatedAt)
}

func (r *reviewRepository) ListForBuilder(ctx context.Context, builderID string) ([]domain.BuilderReview, error) {
	var reviews []domain.BuilderReview
	query := `
		SELECT id, builder_id, reviewer_id, rating, comment, created_at
		FROM builder_reviews
		WHERE builder_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &reviews, query, builderID)
	return reviews, err
}
