package domain

import "time"

// Session is the server-side record backing a bearer token. A token is only
// valid while a matching, non-expired session row exists; deleting the row
// revokes the token immediately even though the JWT itself remains
// cryptographically valid until its embedded expiry.
type Session struct {
	SessionID string    `json:"sessionID"`
	UserID    string    `json:"userID"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired reports whether the session has passed its expiry at the given instant.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
