// Package auth implements JWT-based authentication for the API: a login
// endpoint that exchanges credentials for a token, and middleware that
// guards the product management endpoints.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"
	"strings"
)

// RoleAdmin is the only role the single-operator deployment knows about.
const RoleAdmin = "admin"

// Credentials carries a username/password pair for validation.
type Credentials struct {
	Username string
	Password string
}

// Provider validates credentials and resolves user roles.
type Provider interface {
	// ValidateCredentials checks a username/password pair.
	ValidateCredentials(ctx context.Context, creds Credentials) error
	// IdentifyUser returns the role for a given username.
	IdentifyUser(ctx context.Context, username string) (string, error)
	// Name returns the provider name for logging.
	Name() string
}

// BasicAuthProvider implements environment-based authentication against
// ADMIN_USER and ADMIN_USER_PASSWORD.
type BasicAuthProvider struct {
	minPasswordLength int
	weakPasswords     []string
}

// NewBasicAuthProvider creates a new basic auth provider.
func NewBasicAuthProvider(minPasswordLength int, weakPasswords []string) *BasicAuthProvider {
	return &BasicAuthProvider{
		minPasswordLength: minPasswordLength,
		weakPasswords:     weakPasswords,
	}
}

// ValidateCredentials validates credentials against environment variables.
func (p *BasicAuthProvider) ValidateCredentials(ctx context.Context, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("credentials must not be empty")
	}

	if len(creds.Password) < p.minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", p.minPasswordLength)
	}

	for _, weak := range p.weakPasswords {
		if creds.Password == weak || strings.HasPrefix(creds.Password, weak) {
			return fmt.Errorf("weak password detected")
		}
	}

	adminUser := os.Getenv("ADMIN_USER")
	adminPass := os.Getenv("ADMIN_USER_PASSWORD")

	// Use constant-time comparison to prevent timing attacks
	userMatch := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(adminUser)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(adminPass)) == 1

	if !userMatch || !passMatch {
		return fmt.Errorf("invalid credentials")
	}

	return nil
}

// IdentifyUser returns the role for a given username.
// For BasicAuthProvider, only the admin role exists.
func (p *BasicAuthProvider) IdentifyUser(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("username must not be empty")
	}

	adminUser := os.Getenv("ADMIN_USER")

	if subtle.ConstantTimeCompare([]byte(username), []byte(adminUser)) == 1 {
		return RoleAdmin, nil
	}

	return "", fmt.Errorf("user not found")
}

// Name returns the provider name.
func (p *BasicAuthProvider) Name() string {
	return "basic"
}
