package session

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/student-records/internal/config"
)

func init() {
	// Flashes are stored as []interface{} inside the gob-encoded values map.
	gob.Register([]interface{}{})
}

// Keys derives the session hash key from SESSION_SECRET and the AES-256
// block key from COOKIE_SECRET.
func Keys(cfg *config.Config) (hashKey, blockKey []byte) {
	h := sha256.Sum256([]byte(cfg.SessionSecret))
	b := sha256.Sum256([]byte(cfg.CookieSecret))
	return h[:], b[:]
}

// Options returns the cookie options shared by both session stores.
func Options(cfg *config.Config) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == "release",
		SameSite: http.SameSiteLaxMode,
	}
}

// NewStore builds the session store selected by cfg.SessionStore. rdb is
// only used for the redis backend and may be nil otherwise.
func NewStore(cfg *config.Config, rdb *redis.Client) sessions.Store {
	hashKey, blockKey := Keys(cfg)

	if cfg.SessionStore == config.SessionRedis && rdb != nil {
		store := NewRedisStore(rdb, hashKey, blockKey)
		store.Options = Options(cfg)
		return store
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = Options(cfg)
	store.MaxAge(store.Options.MaxAge)
	return store
}
