// Package cache provides the seen-event store used to deduplicate webhook
// deliveries. Stripe redelivers events until it sees a 2xx, so the same
// event ID can arrive more than once.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenStore records event IDs that have already been processed.
type SeenStore interface {
	// MarkSeen records the key and reports whether this was the first
	// sighting. false means the event was already processed.
	MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisSeen struct {
	client *redis.Client
	prefix string
}

// NewRedisSeenStore builds a SeenStore backed by redis at addr.
func NewRedisSeenStore(addr, prefix string) SeenStore {
	return &redisSeen{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

func (r *redisSeen) MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	first, err := r.client.SetNX(ctx, fmt.Sprintf("%s:%s", r.prefix, key), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache: mark seen %q: %w", key, err)
	}
	return first, nil
}
