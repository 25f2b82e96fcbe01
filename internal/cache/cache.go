// Package cache provides the response cache in front of product reads.
// Implementations are best effort: callers treat every error as a miss.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// InvalidatePrefix removes every key starting with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// New picks the implementation for url: empty disables caching, "memory"
// keeps entries in process, anything else is a Redis URL.
func New(url string) (Cache, error) {
	switch url {
	case "":
		return Noop{}, nil
	case "memory":
		return NewMemory(), nil
	default:
		return NewRedis(url)
	}
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error)              { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error                  { return nil }
func (Noop) InvalidatePrefix(context.Context, string) error           { return nil }
