package postgres

import (
	"context"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type waveRepository struct {
	db *sqlx.DB
}

func NewWaveRepository(db *sqlx.DB) repository.WaveRepository {
	return &waveRepository{db: db}
}

// Create inserts the wave row. The create_match_on_mutual_wave trigger in the
// schema materializes the match when a reciprocal wave already exists.
func (r *waveRepository) Create(ctx context.Context, wave *domain.Wave) error {
	if wave.ID == "" {
		wave.ID = uuid.NewString()
	}
	query := `
		INSERT INTO waves (id, from_user, to_user, mode)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, wave.ID, wave.FromUser, wave.ToUser, string(wave.Mode)).
		Scan(&wave.CreatedAt)
}

func (r *waveRepository) Exists(ctx context.Context, fromUser, toUser string, mode domain.ConnectionMode) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM waves
			WHERE from_user = $1 AND to_user = $2 AND mode = $3
		)
	`
	err := r.db.GetContext(ctx, &exists, query, fromUser, toUser, string(mode))
	return exists, err
}

type waveCountRepository struct {
	db *sqlx.DB
}

func NewWaveCountRepository(db *sqlx.DB) repository.WaveCountRepository {
	return &waveCountRepository{db: db}
}

// CountFor reads today's usage. A missing row means the user has not waved
// yet that day and reads as zero.
func (r *waveCountRepository) CountFor(ctx context.Context, userID, date string) (int, error) {
	var count int
	query := `
		SELECT COALESCE(
			(SELECT count FROM daily_wave_count WHERE user_id = $1 AND date = $2),
			0
		)
	`
	err := r.db.GetContext(ctx, &count, query, userID, date)
	return count, err
}

// Increment bumps the counter atomically, creating the day's row on first use.
func (r *waveCountRepository) Increment(ctx context.Context, userID, date string) error {
	query := `
		INSERT INTO daily_wave_count (user_id, date, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, date)
		DO UPDATE SET count = daily_wave_count.count + 1
	`
	_, err := r.db.ExecContext(ctx, query, userID, date)
	return err
}
