package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisBroker fans chat messages out through Redis channels, standing in for
// the realtime subscription the mobile client used to get from its BaaS.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

// Subscribe returns a channel of raw payloads and a cancel func. The channel
// closes when the subscription is cancelled or the connection drops.
func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, func()) {
	sub := b.client.Subscribe(ctx, channel)
	out := make(chan []byte, 16)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel
}
