package models

// User represents a row of the users table.
type User struct {
	UserID         string `db:"user_id"`
	Username       string `db:"username"`
	Email          string `db:"email"`
	PasswordHash   string `db:"password_hash"`
	FirstName      string `db:"first_name"`
	LastName       string `db:"last_name"`
	AuthProvider   string `db:"auth_provider"`
	ProviderUserID string `db:"provider_user_id"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}
