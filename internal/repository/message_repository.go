package repository

import (
	"context"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByMatch(ctx context.Context, matchID string) ([]domain.Message, error)
	LastForMatch(ctx context.Context, matchID string) (*domain.Message, error)

	// UnreadCount counts messages in matchID sent by someone other than
	// userID after since.
	UnreadCount(ctx context.Context, matchID, userID string, since time.Time) (int, error)
}
