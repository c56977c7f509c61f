package repository

import (
	"context"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

type MatchRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Match, error)

	// GetByUsers looks up a match between two users for a mode regardless of
	// which side is user_a. Returns domain.ErrMatchNotFound when absent.
	GetByUsers(ctx context.Context, userA, userB string, mode domain.ConnectionMode) (*domain.Match, error)

	ListForUser(ctx context.Context, userID string) ([]*domain.Match, error)
	UpdateIcebreakers(ctx context.Context, matchID string, icebreakers []string) error
}
