package learning

import (
	"context"
	"fmt"
	"sync"
)

type requestCacheKey struct{}

// RequestCache memoizes reader queries for the lifetime of one request context.
// It is never shared across requests.
type RequestCache struct {
	mu      sync.Mutex
	entries map[string]any
	hits    int
}

// WithRequestCache returns ctx with a fresh request-scoped memo installed.
func WithRequestCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestCacheKey{}, &RequestCache{entries: map[string]any{}})
}

// RequestCacheFrom returns the memo installed on ctx, or nil.
func RequestCacheFrom(ctx context.Context) *RequestCache {
	if ctx == nil {
		return nil
	}
	rc, _ := ctx.Value(requestCacheKey{}).(*RequestCache)
	return rc
}

// Clear drops every memoized value. Mutations call it so later reads in the same request see fresh state.
func (rc *RequestCache) Clear() {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	rc.entries = map[string]any{}
	rc.mu.Unlock()
}

func (rc *RequestCache) Hits() int {
	if rc == nil {
		return 0
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hits
}

func (rc *RequestCache) lookup(key string) (any, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	v, ok := rc.entries[key]
	if ok {
		rc.hits++
	}
	return v, ok
}

func (rc *RequestCache) store(key string, v any) {
	rc.mu.Lock()
	rc.entries[key] = v
	rc.mu.Unlock()
}

// memo runs load once per (query, args) within the request memo on ctx. Errors are not cached.
func memo[T any](ctx context.Context, query string, args []any, load func() (T, error)) (T, error) {
	rc := RequestCacheFrom(ctx)
	if rc == nil {
		return load()
	}
	key := fmt.Sprintf("%s%v", query, args)
	if v, ok := rc.lookup(key); ok {
		return v.(T), nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	rc.store(key, v)
	return v, nil
}
