package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long a browser session stays valid without activity.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Session represents a signed-in browser session. It remembers which account
// signed in; the bearer token is stored on the account itself, not here.
type Session struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
}

// NewSession creates a session for the given account with the default TTL.
func NewSession(accountID string) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(DefaultSessionTTL),
	}
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
