package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKV_ConnectionErrorIsNotMiss(t *testing.T) {
	c := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer c.Close()
	kv := NewRedisKV(c)

	_, err := kv.Get(context.Background(), "runcoach:sensor:latest")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss))
	assert.Contains(t, err.Error(), "runcoach:sensor:latest")

	err = kv.Set(context.Background(), "k", "v", time.Second)
	assert.Error(t, err)
}
