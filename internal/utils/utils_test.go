package utils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("65f1c0ffee0000000000abcd", "ada@firm.test", "lawyer", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "65f1c0ffee0000000000abcd", claims.UserID)
	assert.Equal(t, "ada@firm.test", claims.Email)
	assert.Equal(t, "lawyer", claims.UserType)
	assert.NotEmpty(t, claims.TokenID())
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expiry(), 5*time.Second)
}

func TestJWTTokenIDsAreUnique(t *testing.T) {
	a, err := GenerateJWT("id", "e@x.test", "lawyer", secret, time.Hour)
	require.NoError(t, err)
	b, err := GenerateJWT("id", "e@x.test", "lawyer", secret, time.Hour)
	require.NoError(t, err)

	ca, err := ParseJWT(a, secret)
	require.NoError(t, err)
	cb, err := ParseJWT(b, secret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.TokenID(), cb.TokenID())
}

func TestParseJWTRejects(t *testing.T) {
	expired, err := GenerateJWT("id", "e@x.test", "lawyer", secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	good, err := GenerateJWT("id", "e@x.test", "lawyer", secret, time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(good, "other-secret")
	assert.Error(t, err)

	_, err = ParseJWT("not.a.token", secret)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "id"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(unsigned, secret)
	assert.Error(t, err)
}

func exerciseKV(t *testing.T, kv KV) {
	ctx := context.Background()

	type page struct {
		Items []string `json:"items"`
	}
	found, err := GetCache(ctx, kv, "cache:test:page", &page{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, kv, "cache:test:page", page{Items: []string{"a", "b"}}, time.Minute))
	var got page
	found, err = GetCache(ctx, kv, "cache:test:page", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got.Items)

	require.NoError(t, DeleteCache(ctx, kv, "cache:test:page", "cache:test:missing"))
	found, err = GetCache(ctx, kv, "cache:test:page", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestMemoryKVExpiry(t *testing.T) {
	kv := NewMemoryKV()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Second))
	require.NoError(t, kv.Set(ctx, "forever", "v", 0))
	clock = clock.Add(2 * time.Second)

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = kv.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	exerciseKV(t, NewRedisKV(rdb))
}

func TestListKeys(t *testing.T) {
	assert.Equal(t, "cache:cases:abc", ListKey(CasesList, "abc"))
	assert.Equal(t, []string{"cache:cases:abc", "cache:clients:abc", "cache:documents:abc", "cache:tasks:abc"}, ListKeys("abc"))
}
