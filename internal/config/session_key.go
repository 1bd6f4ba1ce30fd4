package config

import "fmt"

// SessionName is the cookie name of the admin session.
const SessionName = "student-records-session"

// FlashKey is the session key holding pending flash messages.
const FlashKey = "message"

type SessionKeyStruct struct{}

func NewSessionKeyStruct() *SessionKeyStruct {
	return &SessionKeyStruct{}
}

// RedisSessionKey returns the Redis key holding a session's encoded values
func (r *SessionKeyStruct) RedisSessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

var SessionKey = NewSessionKeyStruct()
