package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func scanMatch(row interface{ Scan(...interface{}) error }, m *domain.Match) error {
	return row.Scan(&m.ID, &m.UserA, &m.UserB, &m.Mode, pq.Array(&m.Icebreakers), &m.CreatedAt)
}

const matchColumns = `id, user_a, user_b, mode, icebreakers, created_at`

func (r *matchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), &match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

// GetByUsers checks both orderings: matches have unordered pair semantics.
func (r *matchRepository) GetByUsers(ctx context.Context, userA, userB string, mode domain.ConnectionMode) (*domain.Match, error) {
	var match domain.Match
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE mode = $3
		  AND ((user_a = $1 AND user_b = $2) OR (user_a = $2 AND user_b = $1))
	`
	err := scanMatch(r.db.QueryRowContext(ctx, query, userA, userB, string(mode)), &match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Match, error) {
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE user_a = $1 OR user_b = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*domain.Match, 0)
	for rows.Next() {
		var m domain.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, err
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (r *matchRepository) UpdateIcebreakers(ctx context.Context, matchID string, icebreakers []string) error {
	query := `UPDATE matches SET icebreakers = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, pq.Array(icebreakers), matchID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}
