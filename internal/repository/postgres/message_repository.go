package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	query := `
		INSERT INTO messages (id, match_id, sender_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, msg.ID, msg.MatchID, msg.SenderID, msg.Content).
		Scan(&msg.CreatedAt)
}

func (r *messageRepository) ListByMatch(ctx context.Context, matchID string) ([]domain.Message, error) {
	var messages []domain.Message
	query := `
		SELECT id, match_id, sender_id, content, created_at
		FROM messages
		WHERE match_id = $1
		ORDER BY created_at ASC
	`
	err := r.db.SelectContext(ctx, &messages, query, matchID)
	return messages, err
}

func (r *messageRepository) LastForMatch(ctx context.Context, matchID string) (*domain.Message, error) {
	var msg domain.Message
	query := `
		SELECT id, match_id, sender_id, content, created_at
		FROM messages
		WHERE match_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &msg, query, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) UnreadCount(ctx context.Context, matchID, userID string, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM messages
		WHERE match_id = $1 AND sender_id <> $2 AND created_at > $3
	`
	err := r.db.GetContext(ctx, &count, query, matchID, userID, since)
	return count, err
}
