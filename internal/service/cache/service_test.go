package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unreachableAddr returns a loopback address nothing is listening on.
func unreachableAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestNewCacheServiceFailsWhenRedisIsDown(t *testing.T) {
	host, portStr, err := net.SplitHostPort(unreachableAddr(t))
	require.NoError(t, err)
	port, err := net.LookupPort("tcp", portStr)
	require.NoError(t, err)

	_, err = NewCacheService(context.Background(), CacheConfig{Host: host, Port: port}, zap.NewNop())
	require.Error(t, err)

	var cacheErr *apperrors.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "ping", cacheErr.Operation)
}

func TestGetWrapsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        unreachableAddr(t),
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	svc := NewCacheServiceWithClient(client, nil)
	t.Cleanup(func() { _ = svc.Close() })

	found, err := svc.Get(context.Background(), "wedding:guests", nil)
	assert.False(t, found)

	var cacheErr *apperrors.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "get", cacheErr.Operation)
	assert.Equal(t, "wedding:guests", cacheErr.Key)
}

func TestSetRejectsUnmarshalableValues(t *testing.T) {
	svc := NewCacheServiceWithClient(redis.NewClient(&redis.Options{Addr: unreachableAddr(t)}), nil)
	t.Cleanup(func() { _ = svc.Close() })

	err := svc.Set(context.Background(), "k", make(chan int), time.Minute)

	var cacheErr *apperrors.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "marshal failed", cacheErr.Message)
}

// liveCache connects to REDIS_HOST:REDIS_PORT (default localhost:6379, DB 15)
// and skips the test when no server answers.
func liveCache(t *testing.T) *CacheService {
	t.Helper()
	addr := net.JoinHostPort(envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379"))
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15, DialTimeout: 500 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}

	svc := NewCacheServiceWithClient(client, nil)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type cachedGuest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func TestSetGetDelRoundTrip(t *testing.T) {
	svc := liveCache(t)
	ctx := context.Background()
	key := fmt.Sprintf("wedding:test:%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = svc.Del(context.Background(), key) })

	assert.True(t, svc.IsConnected(ctx))

	want := []cachedGuest{{Name: "Budi Santoso", Category: "Keluarga"}, {Name: "Dewi"}}
	require.NoError(t, svc.Set(ctx, key, want, time.Minute))

	var got []cachedGuest
	found, err := svc.Get(ctx, key, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, svc.Del(ctx, key))
	found, err = svc.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIsConnectedFalseWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: unreachableAddr(t), MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	svc := NewCacheServiceWithClient(client, nil)
	t.Cleanup(func() { _ = svc.Close() })

	assert.False(t, svc.IsConnected(context.Background()))
}
