package session

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/student-records/internal/config"
)

const defaultSessionTTL = 24 * time.Hour

// RedisStore keeps session values in Redis and only a signed, encrypted
// session id in the cookie.
type RedisStore struct {
	client  *redis.Client
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

// NewRedisStore creates a RedisStore. keyPairs follow securecookie
// conventions: hash key, then optional block key, repeated for rotation.
func NewRedisStore(client *redis.Client, keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		client: client,
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:   "/",
			MaxAge: 86400,
		},
	}
}

// Get returns the session cached in the request registry, loading it on
// first access.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, forged or
// expired session yields a fresh one.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		return session, err
	}

	found, err := s.load(r.Context(), session)
	if err != nil {
		return session, err
	}
	session.IsNew = !found
	return session, nil
}

// Save writes the session values to Redis and refreshes the cookie. A
// negative MaxAge deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	ctx := r.Context()

	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(ctx, config.SessionKey.RedisSessionKey(session.ID)).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	if err := s.store(ctx, session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) store(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}

	if err := s.client.Set(ctx, config.SessionKey.RedisSessionKey(session.ID), buf.Bytes(), sessionTTL(session.Options.MaxAge)).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// sessionTTL maps a cookie MaxAge to a Redis expiry. A browser-session
// cookie (MaxAge 0) still expires server side after a day.
func sessionTTL(maxAge int) time.Duration {
	if maxAge <= 0 {
		return defaultSessionTTL
	}
	return time.Duration(maxAge) * time.Second
}

func (s *RedisStore) load(ctx context.Context, session *sessions.Session) (bool, error) {
	data, err := s.client.Get(ctx, config.SessionKey.RedisSessionKey(session.ID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values); err != nil {
		return false, fmt.Errorf("decode session values: %w", err)
	}
	return true, nil
}
