// Package redis defines the cache service interfaces. The service layer
// depends on these, never on the redis client directly.
package redis

import (
	"context"
	"time"
)

// CacheService abstracts synchronous cache operations.
type CacheService interface {
	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get returns the value, or "" with nil error when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// GetOrError returns the value, or a CodeNotFound error when absent.
	GetOrError(ctx context.Context, key string) (string, error)
	// Delete removes the key if present.
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes every key matching the glob pattern.
	DeleteByPattern(ctx context.Context, pattern string) error
	// Incr atomically increments a counter key.
	Incr(ctx context.Context, key string) (int64, error)
}

// AsyncCacheService adds non-blocking task submission for cache updates
// that must not sit on the request path.
type AsyncCacheService interface {
	CacheService
	// SubmitTask queues action on the worker pool, falling back to
	// synchronous execution when the queue is full.
	SubmitTask(action func())
}

// PresenceStore tracks which users currently hold a live realtime
// connection. Entries carry a TTL so a crashed gateway cannot leave a
// user online forever.
type PresenceStore interface {
	SetOnline(ctx context.Context, userID int64, ttl time.Duration) error
	SetOffline(ctx context.Context, userID int64) error
	IsOnline(ctx context.Context, userID int64) (bool, error)
}

// UnreadStore keeps per-user per-conversation unread counters.
type UnreadStore interface {
	IncrUnread(ctx context.Context, userID, conversationID int64) error
	ResetUnread(ctx context.Context, userID, conversationID int64) error
	GetUnread(ctx context.Context, userID, conversationID int64) (int64, error)
}

// ChatCache is everything the realtime layer needs from the cache.
// RedisCache satisfies it; tests substitute an in-memory fake.
type ChatCache interface {
	AsyncCacheService
	PresenceStore
	UnreadStore
}
