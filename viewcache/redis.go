package viewcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lingo/logger"

	goredis "github.com/redis/go-redis/v9"
)

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedis(opts RedisOptions, log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{
		log: log.With("service", "RedisViewCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("bad cached view", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

var errStaleView = errors.New("view generation moved")

func (c *redisCache) Generation(ctx context.Context, owner string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(owner)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisCache) Set(ctx context.Context, key string, value any, owner string, gen int64) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	index := leaderboardIndexKey()
	if owner != "" {
		index = userIndexKey(owner)
	}
	genKey := generationKey(owner)

	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleView
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			pipe.SAdd(ctx, index, key)
			pipe.Expire(ctx, index, 2*c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, errStaleView) || errors.Is(err, goredis.TxFailedErr) {
		c.log.Debug("stale view not cached", "key", key, "generation", gen)
		return nil
	}
	return err
}

func (c *redisCache) InvalidateUser(ctx context.Context, userID string) error {
	return c.invalidate(ctx, userID, userIndexKey(userID))
}

func (c *redisCache) InvalidateLeaderboard(ctx context.Context) error {
	return c.invalidate(ctx, "", leaderboardIndexKey())
}

// invalidate bumps the generation first so in-flight loads can no longer write, then drops cached keys.
func (c *redisCache) invalidate(ctx context.Context, owner, index string) error {
	if err := c.rdb.Incr(ctx, generationKey(owner)).Err(); err != nil {
		return err
	}
	keys, err := c.rdb.SMembers(ctx, index).Result()
	if err != nil {
		return err
	}
	keys = append(keys, index)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	c.log.Debug("view cache invalidated", "index", index, "keys", len(keys)-1)
	return nil
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
