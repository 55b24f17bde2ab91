package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dsjohal14/mukrindo/internal/scope/search"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL is how long an idle session history is kept in Redis.
const DefaultRedisTTL = 30 * 24 * time.Hour

const (
	keyPrefix    = "viewed:"
	maxTxRetries = 5
)

// RedisRepository stores each session history as a Redis list of JSON items,
// most recent at the head.
type RedisRepository struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL, falling back to a plain host:port address.
func NewRedisClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	if password != "" {
		opt.Password = password
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisRepository wraps client. A zero ttl keeps histories forever;
// a negative one uses DefaultRedisTTL.
func NewRedisRepository(client *redis.Client, limit int, ttl time.Duration) *RedisRepository {
	if limit <= 0 {
		limit = DefaultMaxItems
	}
	if ttl < 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisRepository{client: client, limit: limit, ttl: ttl}
}

func sessionKey(session string) string {
	return keyPrefix + session
}

// Get returns the session history
func (r *RedisRepository) Get(ctx context.Context, session string) ([]search.ViewedItem, error) {
	if session == "" {
		return nil, ErrMissingSession
	}
	raw, err := r.client.LRange(ctx, sessionKey(session), 0, int64(r.limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return decodeItems(raw), nil
}

// Append records a view. The read-modify-write runs under WATCH so two
// concurrent views of the same session cannot drop each other.
func (r *RedisRepository) Append(ctx context.Context, session string, item search.ViewedItem) error {
	if session == "" {
		return ErrMissingSession
	}
	key := sessionKey(session)

	update := func(tx *redis.Tx) error {
		raw, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		next := prepend(decodeItems(raw), item, r.limit)

		values := make([]any, 0, len(next))
		for _, v := range next {
			data, err := sonic.Marshal(v)
			if err != nil {
				return err
			}
			values = append(values, data)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.RPush(ctx, key, values...)
			if r.ttl > 0 {
				pipe.Expire(ctx, key, r.ttl)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, update, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to append history: %w", err)
	}
	return fmt.Errorf("failed to append history: %w", redis.TxFailedErr)
}

// decodeItems skips entries that do not decode; a corrupt entry should not
// hide the rest of the history.
func decodeItems(raw []string) []search.ViewedItem {
	items := make([]search.ViewedItem, 0, len(raw))
	for _, s := range raw {
		var v search.ViewedItem
		if err := sonic.UnmarshalString(s, &v); err != nil || v.ID == "" {
			continue
		}
		items = append(items, v)
	}
	return items
}
