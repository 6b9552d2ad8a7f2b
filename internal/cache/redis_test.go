package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/2?dial_timeout=1s")
	require.NoError(t, err)

	withDefaults(opts)
	assert.Equal(t, clientName, opts.ClientName)
	assert.Equal(t, time.Second, opts.DialTimeout)
	assert.Equal(t, 2*time.Second, opts.ReadTimeout)
	assert.Equal(t, 2, opts.DB)
}

func TestNewRedisClient_RequiresURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "")
	assert.ErrorContains(t, err, "REDIS_URL")

	_, err = NewRedisClient(context.Background(), "http://nope")
	assert.ErrorContains(t, err, "parse url")
}
