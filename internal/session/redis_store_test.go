package session

import (
	"context"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisStoreFlash(t *testing.T) {
	rdb := redisClient(t)
	cfg := testConfig()
	cfg.SessionStore = config.SessionRedis

	store, ok := NewStore(cfg, rdb).(*RedisStore)
	require.True(t, ok)
	flash := NewFlash(store, zerolog.New(io.Discard))

	jar := roundTrip(t, nil, func(c *gin.Context) {
		flash.Add(c, "You deleted your student.")
	})
	require.Len(t, jar, 1)

	// Only the signed session id travels in the cookie.
	var id string
	require.NoError(t, securecookie.DecodeMulti(config.SessionName, jar[0].Value, &id, store.Codecs...))
	key := config.SessionKey.RedisSessionKey(id)
	ttl, err := rdb.TTL(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	roundTrip(t, jar, func(c *gin.Context) {
		assert.Equal(t, []string{"You deleted your student."}, flash.Pop(c))
	})
	roundTrip(t, jar, func(c *gin.Context) {
		assert.Empty(t, flash.Pop(c))
	})

	t.Cleanup(func() { rdb.Del(context.Background(), key) })
}

func TestRedisStoreDeleteOnNegativeMaxAge(t *testing.T) {
	rdb := redisClient(t)
	store := NewRedisStore(rdb, []byte("0123456789abcdef0123456789abcdef"))

	jar := roundTrip(t, nil, func(c *gin.Context) {
		sess, err := store.Get(c.Request, config.SessionName)
		require.NoError(t, err)
		sess.Values["k"] = "v"
		require.NoError(t, sess.Save(c.Request, c.Writer))
	})
	require.Len(t, jar, 1)

	var id string
	require.NoError(t, securecookie.DecodeMulti(config.SessionName, jar[0].Value, &id, store.Codecs...))

	roundTrip(t, jar, func(c *gin.Context) {
		sess, err := store.Get(c.Request, config.SessionName)
		require.NoError(t, err)
		assert.False(t, sess.IsNew)
		assert.Equal(t, "v", sess.Values["k"])

		sess.Options.MaxAge = -1
		require.NoError(t, sess.Save(c.Request, c.Writer))
	})

	n, err := rdb.Exists(context.Background(), config.SessionKey.RedisSessionKey(id)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStoreUnknownIDStartsFresh(t *testing.T) {
	rdb := redisClient(t)
	store := NewRedisStore(rdb, []byte("0123456789abcdef0123456789abcdef"))

	encoded, err := securecookie.EncodeMulti(config.SessionName, "no-such-session", store.Codecs...)
	require.NoError(t, err)

	roundTrip(t, []*http.Cookie{{Name: config.SessionName, Value: encoded}}, func(c *gin.Context) {
		sess, err := store.Get(c.Request, config.SessionName)
		require.NoError(t, err)
		assert.True(t, sess.IsNew)
		assert.Empty(t, sess.Values)
	})
}

func TestSessionTTL(t *testing.T) {
	assert.Equal(t, time.Hour, sessionTTL(3600))
	assert.Equal(t, defaultSessionTTL, sessionTTL(0), "session cookies still expire in redis")
	assert.Equal(t, defaultSessionTTL, sessionTTL(-1))
}
