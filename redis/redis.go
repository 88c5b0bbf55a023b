package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vegarsti/reader"
)

const keyPrefix = "reader:fragments:"

// client is the subset of goredis.Cmdable the cache needs.
type client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// Cache stores recognized fragments as JSON strings that expire after TTL.
// A TTL of zero keeps them forever.
type Cache struct {
	client client
	closer func() error
	TTL    time.Duration
}

// New connects to the Redis server at url and checks that it answers.
func New(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	c := goredis.NewClient(opt)
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Cache{client: c, closer: c.Close, TTL: ttl}, nil
}

func (c *Cache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func key(checksum string) string {
	return keyPrefix + checksum
}

func (c *Cache) GetFragments(ctx context.Context, checksum string) ([]reader.Fragment, error) {
	value, err := c.client.Get(ctx, key(checksum)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", checksum, err)
	}
	fragments := make([]reader.Fragment, 0)
	if err := json.Unmarshal(value, &fragments); err != nil {
		return nil, fmt.Errorf("unmarshal fragments: %w", err)
	}
	return fragments, nil
}

func (c *Cache) PutFragments(ctx context.Context, checksum string, fragments []reader.Fragment) error {
	value, err := json.Marshal(fragments)
	if err != nil {
		return fmt.Errorf("marshal fragments: %w", err)
	}
	if err := c.client.Set(ctx, key(checksum), value, c.TTL).Err(); err != nil {
		return fmt.Errorf("set %s: %w", checksum, err)
	}
	return nil
}
