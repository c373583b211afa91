package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is the explicit, injected session object: who is logged in and the
// bearer token the Booking API issued. It replaces ambient global state;
// anything that needs the current user receives a *Session.
type Session struct {
	UserID      uuid.UUID `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	Role        string    `json:"role,omitempty"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Valid reports whether the session can still authenticate requests. A zero
// ExpiresAt means the token carried no expiry and is trusted as-is.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(s.ExpiresAt)
}
