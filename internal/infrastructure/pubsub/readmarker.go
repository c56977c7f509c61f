package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReadMarker remembers when a user last opened a conversation. Unread
// counts are derived from this timestamp, so losing a key just means a
// conversation briefly shows as unread again.
type RedisReadMarker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReadMarker(client *redis.Client) *RedisReadMarker {
	return &RedisReadMarker{client: client, ttl: 90 * 24 * time.Hour}
}

func readKey(matchID, userID string) string {
	return fmt.Sprintf("chat:read:%s:%s", matchID, userID)
}

func (m *RedisReadMarker) MarkRead(ctx context.Context, matchID, userID string, at time.Time) error {
	return m.client.Set(ctx, readKey(matchID, userID), at.UTC().Format(time.RFC3339Nano), m.ttl).Err()
}

// LastRead returns the zero time when the user never opened the conversation.
func (m *RedisReadMarker) LastRead(ctx context.Context, matchID, userID string) (time.Time, error) {
	val, err := m.client.Get(ctx, readKey(matchID, userID)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, val)
}
