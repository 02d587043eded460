package domain

// GoogleUserInfo is the verified identity extracted from a Google ID token.
type GoogleUserInfo struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}
