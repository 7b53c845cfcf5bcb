package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Set stores value under key with an optional expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := c.rdb.Set(ctx, c.key(key), value, expiration).Err()
	if err != nil {
		c.logger.Error("redis set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Get returns the value for key, ErrNil if absent
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Result()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
	}
	return val, err
}

// Del removes keys
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}
	n, err := c.rdb.Del(ctx, prefixed...).Result()
	if err != nil {
		c.logger.Error("redis del failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return n, err
}

// SetJSON marshals value and stores it
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: marshal %s: %w", key, err)
	}
	return c.Set(ctx, key, data, expiration)
}

// GetJSON loads key into dest. Returns (false, nil) when the key is absent.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.Get(ctx, key)
	if IsNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("redis: unmarshal %s: %w", key, err)
	}
	return true, nil
}
