package models

import "time"

// Session represents a row of the user_sessions table.
type Session struct {
	SessionID string    `db:"session_id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
