package helpers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestIsRedisMiss(t *testing.T) {
	t.Parallel()
	if !IsRedisMiss(redis.Nil) {
		t.Fatal("redis.Nil is a miss")
	}
	if !IsRedisMiss(fmt.Errorf("cache read: %w", redis.Nil)) {
		t.Fatal("wrapped redis.Nil is a miss")
	}
	if IsRedisMiss(errors.New("connection refused")) {
		t.Fatal("unrelated error is not a miss")
	}
	if IsRedisMiss(nil) {
		t.Fatal("nil error is not a miss")
	}
}
