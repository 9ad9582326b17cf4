package auth

import (
	"time"

	"idportal/internal/model"
)

// SessionState is the outcome of resolving an admin session.
type SessionState int

const (
	SessionUnknown SessionState = iota
	SessionAuthenticated
	SessionUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionAuthenticated:
		return "authenticated"
	case SessionUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Session is a resolved admin session. User is set only when authenticated.
type Session struct {
	State     SessionState
	User      *model.AdminUser
	ExpiresAt time.Time
}

// Authenticated reports whether protected handlers may run.
func (s *Session) Authenticated() bool {
	return s != nil && s.State == SessionAuthenticated && s.User != nil
}
