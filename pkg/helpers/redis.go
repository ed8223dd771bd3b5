package helpers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Redis key builders. Keeping them in one place avoids drift between the
// handlers that set keys and the middleware that reads them.
func KeySession(userID string) string       { return "user:session:" + userID }
func KeyConfirmToken(token string) string   { return "account:confirm:token:" + token }
func KeyResetToken(token string) string     { return "pwd:reset:token:" + token }
func KeyFollowerCount(userID string) string { return "user:followers:" + userID }

// GenURLToken returns n random bytes as a URL-safe string, used for email
// confirmation and password reset links.
func GenURLToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// IsRedisMiss reports whether err is a key miss, including wrapped ones.
func IsRedisMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// RedisSetJSON marshals value and stores it under key with the given TTL.
func RedisSetJSON(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// RedisGetJSON loads key into dest. A miss returns (false, nil).
func RedisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if IsRedisMiss(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}
