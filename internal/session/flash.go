package session

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/config"
)

// Flash is a one-shot message queue on the request's session. Messages
// added before a redirect are delivered once to the next rendered page.
type Flash struct {
	store sessions.Store
	name  string
	log   zerolog.Logger
}

// NewFlash creates a Flash over store using the application session cookie.
func NewFlash(store sessions.Store, log zerolog.Logger) *Flash {
	return &Flash{
		store: store,
		name:  config.SessionName,
		log:   log.With().Str("component", "flash").Logger(),
	}
}

// Add queues msgs and saves the session. Must run before the response
// status is written.
func (f *Flash) Add(c *gin.Context, msgs ...string) {
	sess, err := f.store.Get(c.Request, f.name)
	if err != nil {
		// Undecodable cookie (rotated keys, tampering): continue with the
		// fresh session gorilla hands back.
		f.log.Warn().Err(err).Msg("Session decode failed, starting a new one")
	}

	for _, msg := range msgs {
		sess.AddFlash(msg, config.FlashKey)
	}
	if err := sess.Save(c.Request, c.Writer); err != nil {
		f.log.Error().Err(err).Msg("Failed to save flash message")
	}
}

// Pop returns and clears the pending messages.
func (f *Flash) Pop(c *gin.Context) []string {
	sess, err := f.store.Get(c.Request, f.name)
	if err != nil {
		f.log.Warn().Err(err).Msg("Session decode failed, starting a new one")
	}

	raw := sess.Flashes(config.FlashKey)
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(c.Request, c.Writer); err != nil {
		f.log.Error().Err(err).Msg("Failed to clear flash messages")
	}

	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
