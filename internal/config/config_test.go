package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "GIN_MODE", "LOG_LEVEL", "LOG_FORMAT", "STORE_DRIVER",
		"MONGO_URI", "DB_USER", "DB_PWD", "DB_HOST", "MONGO_DATABASE",
		"DATABASE_URL", "MAX_DB_CONNS", "SESSION_STORE", "REDIS_URL",
		"SESSION_SECRET", "COOKIE_SECRET", "SESSION_MAX_AGE_HOURS",
		"ALLOWED_ORIGINS", "WRITE_RATE_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "students", cfg.MongoDatabase)
	assert.Equal(t, SessionCookie, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	assert.EqualValues(t, 16, cfg.MaxDBConns)
	assert.Equal(t, 60, cfg.WriteRateLimit)
	assert.Nil(t, cfg.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("SESSION_MAX_AGE_HOURS", "2")
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, SessionRedis, cfg.SessionStore)
	assert.Equal(t, 2*time.Hour, cfg.SessionMaxAge)
	assert.EqualValues(t, 16, cfg.MaxDBConns, "unparsable ints fall back")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestMongoURIFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_USER", "admin")
	t.Setenv("DB_PWD", "p@ss word")
	t.Setenv("DB_HOST", "cluster9.abcde.mongodb.net")

	uri := Load().MongoURI
	assert.True(t, strings.HasPrefix(uri, "mongodb+srv://admin:"), uri)
	assert.Contains(t, uri, "@cluster9.abcde.mongodb.net/students?retryWrites=true&w=majority")
	assert.NotContains(t, uri, "p@ss word", "password is escaped")
}

func TestMongoURIExplicitWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("DB_USER", "ignored")

	assert.Equal(t, "mongodb://db:27017", Load().MongoURI)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StoreDriver: "sqlite", SessionStore: SessionCookie}
	assert.ErrorContains(t, cfg.Validate(), "STORE_DRIVER")

	cfg = &Config{StoreDriver: StoreMemory, SessionStore: "memcached"}
	assert.ErrorContains(t, cfg.Validate(), "SESSION_STORE")
}

func TestValidateRanges(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver:   StoreMongo,
			SessionStore:  SessionRedis,
			MaxDBConns:    4,
			SessionMaxAge: time.Hour,
		}
	}
	require.NoError(t, valid().Validate())

	for _, n := range []int32{0, -1} {
		cfg := valid()
		cfg.MaxDBConns = n
		assert.ErrorContains(t, cfg.Validate(), "MAX_DB_CONNS", "max conns %d", n)
	}

	for _, age := range []time.Duration{0, -time.Hour} {
		cfg := valid()
		cfg.SessionMaxAge = age
		assert.ErrorContains(t, cfg.Validate(), "SESSION_MAX_AGE_HOURS", "max age %v", age)
	}
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_DB_CONNS", "-3")
	assert.ErrorContains(t, Load().Validate(), "MAX_DB_CONNS")

	clearEnv(t)
	t.Setenv("SESSION_MAX_AGE_HOURS", "0")
	assert.ErrorContains(t, Load().Validate(), "SESSION_MAX_AGE_HOURS")
}

func TestRedisSessionKey(t *testing.T) {
	assert.Equal(t, "session:abc", SessionKey.RedisSessionKey("abc"))
}
