package repository

import (
	"context"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	UpdateLocation(ctx context.Context, id string, lat, lng float64, name *string) error

	// Nearby runs the proximity query: profiles within radiusKm of (lat,lng)
	// whose looking_for includes mode, ordered by distance, excluding userID.
	Nearby(ctx context.Context, userID string, lat, lng, radiusKm float64, mode domain.ConnectionMode, limit int) ([]domain.NearbyProfile, error)

	ListBuilders(ctx context.Context, limit, offset int) ([]domain.BuilderProfile, error)
	GetBuilder(ctx context.Context, id string) (*domain.BuilderProfile, error)
}
