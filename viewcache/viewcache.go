// Package viewcache stores rendered read views (learn page, leaderboard) keyed per user
// so that every mutation can drop exactly the views it made stale.
package viewcache

import (
	"context"
	"fmt"
)

const prefix = "lingo"

// Cache is a best-effort view store. A miss is not an error.
//
// Every invalidation bumps the owner's generation. Readers take the generation before loading a view
// from the store and hand it back to Set, which drops the write if an invalidation happened meanwhile.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Generation is the invalidation counter of owner. The empty owner is the leaderboard.
	Generation(ctx context.Context, owner string) (int64, error)
	// Set stores value under key only while owner's generation still equals gen.
	// A non-empty owner ties the key to that user for InvalidateUser.
	Set(ctx context.Context, key string, value any, owner string, gen int64) error
	InvalidateUser(ctx context.Context, userID string) error
	InvalidateLeaderboard(ctx context.Context) error
}

func UserKey(userID, view string) string {
	return fmt.Sprintf("%s:u:%s:%s", prefix, userID, view)
}

func LeaderboardKey(limit int) string {
	return fmt.Sprintf("%s:lb:%d", prefix, limit)
}

func userIndexKey(userID string) string {
	return fmt.Sprintf("%s:u:%s:keys", prefix, userID)
}

func leaderboardIndexKey() string {
	return prefix + ":lb:keys"
}

func generationKey(owner string) string {
	if owner == "" {
		return prefix + ":lb:gen"
	}
	return fmt.Sprintf("%s:u:%s:gen", prefix, owner)
}

// Noop never stores anything; used when REDIS_ADDR is empty and in tests.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) Generation(context.Context, string) (int64, error)     { return 0, nil }
func (Noop) Set(context.Context, string, any, string, int64) error { return nil }
func (Noop) InvalidateUser(context.Context, string) error          { return nil }
func (Noop) InvalidateLeaderboard(context.Context) error           { return nil }
