package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PurgeChannel carries domain cache invalidations between instances. The
// payload is a normalized hostname, or "*" for a full flush.
const PurgeChannel = "newsgrid:domain-cache:purge"

type InvalidationBus struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*InvalidationBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &InvalidationBus{client: client}, nil
}

func (b *InvalidationBus) Close() error {
	if err := b.client.Close(); err != nil {
		return fmt.Errorf("redis.InvalidationBus.Close: %w", err)
	}
	return nil
}

// PublishPurge relays a cache purge to every subscribed peer, this instance
// included. The local cache is purged before publishing, so the echo is a
// cheap no-op.
func (b *InvalidationBus) PublishPurge(ctx context.Context, host string) error {
	if err := b.client.Publish(ctx, PurgeChannel, host).Err(); err != nil {
		return fmt.Errorf("redis.InvalidationBus.PublishPurge: %w", err)
	}
	return nil
}

// Listen subscribes to the purge channel and streams hostnames until ctx is
// done. The returned cleanup closes the subscription.
func (b *InvalidationBus) Listen(ctx context.Context) (<-chan string, func(), error) {
	sub := b.client.Subscribe(ctx, PurgeChannel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.InvalidationBus.Listen: receive confirmation: %w", err)
	}

	out := make(chan string, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}
