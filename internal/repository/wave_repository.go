package repository

import (
	"context"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

// WaveRepository records interest signals. Mutual-wave match creation is a
// database trigger, not a repository concern.
type WaveRepository interface {
	Create(ctx context.Context, wave *domain.Wave) error
	Exists(ctx context.Context, fromUser, toUser string, mode domain.ConnectionMode) (bool, error)
}

// WaveCountRepository tracks the per-day wave counter. CountFor returns zero
// when no row exists for the date; Increment must be atomic on the server.
type WaveCountRepository interface {
	CountFor(ctx context.Context, userID, date string) (int, error)
	Increment(ctx context.Context, userID, date string) error
}
