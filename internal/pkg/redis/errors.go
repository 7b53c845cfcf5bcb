package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNil           = redis.Nil // key does not exist
	ErrInvalidConfig = errors.New("redis: invalid configuration")
)

// IsNil reports a missing key
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
