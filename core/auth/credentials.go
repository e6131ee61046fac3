package auth

import (
	"fmt"
)

// Authenticator checks logins against the single fixed credential pair.
// The plaintext from config is hashed once at construction so the comparison
// path is the same as it would be against a stored hash.
type Authenticator struct {
	username     string
	passwordHash string
}

// NewAuthenticator builds an authenticator for the configured credential pair.
func NewAuthenticator(username, password string) (*Authenticator, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare credentials: %w", err)
	}
	return &Authenticator{username: username, passwordHash: hash}, nil
}

// Authenticate reports whether the credential pair matches.
func (a *Authenticator) Authenticate(username, password string) bool {
	if username != a.username {
		return false
	}
	return VerifyPassword(password, a.passwordHash)
}
