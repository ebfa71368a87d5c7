// Package cache defines the TTL key-value store used for generated lesson
// content. Entries are shared across users: the key carries the lesson and
// the requester's confidence tier, never the user id.
package cache

import (
	"context"
	"fmt"
	"time"
)

type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key string, value string, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Key builds the shared cache key. kind distinguishes content families
// ("lesson", "quiz") that reuse the same (lesson, tier) grouping.
func Key(kind string, lessonID uint64, tier string) string {
	return fmt.Sprintf("%s:%d:%s", kind, lessonID, tier)
}

// Noop is the degraded-mode cache: every read misses, every write succeeds.
// Installed at startup when the backing store is unreachable so generation
// keeps working without caching.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }

func (Noop) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}

func (Noop) Invalidate(ctx context.Context, key string) error { return nil }
