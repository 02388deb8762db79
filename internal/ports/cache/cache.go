package cache

import (
	"context"
	"time"
)

// Cache es un cache key/value de objetos serializables. Get devuelve false si no hay hit.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
