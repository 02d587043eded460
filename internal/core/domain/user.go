package domain

// User represents a storefront customer account in the domain.
// Users are never hard-deleted; IsActive=false is the soft delete.
type User struct {
	UserID         string `json:"userID"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	AuthProvider   string `json:"-"` // "local" or "google"
	ProviderUserID string `json:"-"` // subject from the external provider, empty for local users
	IsActive       bool   `json:"isActive"`
	AuditFields
}

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)
