package auth

import (
	"context"
	"testing"
)

func newTestProvider(t *testing.T) *BasicAuthProvider {
	t.Helper()
	t.Setenv("ADMIN_USER", "admin@example.com")
	t.Setenv("ADMIN_USER_PASSWORD", "correct-horse-battery")
	return NewBasicAuthProvider(8, []string{"password", "12345678"})
}

func TestBasicAuthProvider_ValidateCredentials(t *testing.T) {
	provider := newTestProvider(t)

	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{
			name:    "valid credentials",
			creds:   Credentials{Username: "admin@example.com", Password: "correct-horse-battery"},
			wantErr: false,
		},
		{
			name:    "wrong password",
			creds:   Credentials{Username: "admin@example.com", Password: "wrong-password"},
			wantErr: true,
		},
		{
			name:    "wrong username",
			creds:   Credentials{Username: "intruder@example.com", Password: "correct-horse-battery"},
			wantErr: true,
		},
		{
			name:    "empty username",
			creds:   Credentials{Username: "", Password: "correct-horse-battery"},
			wantErr: true,
		},
		{
			name:    "empty password",
			creds:   Credentials{Username: "admin@example.com", Password: ""},
			wantErr: true,
		},
		{
			name:    "too short password",
			creds:   Credentials{Username: "admin@example.com", Password: "short"},
			wantErr: true,
		},
		{
			name:    "weak password",
			creds:   Credentials{Username: "admin@example.com", Password: "password123"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := provider.ValidateCredentials(context.Background(), tt.creds)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBasicAuthProvider_IdentifyUser(t *testing.T) {
	provider := newTestProvider(t)

	role, err := provider.IdentifyUser(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != RoleAdmin {
		t.Errorf("expected role %q, got %q", RoleAdmin, role)
	}

	if _, err := provider.IdentifyUser(context.Background(), "unknown@example.com"); err == nil {
		t.Error("expected error for unknown user")
	}

	if _, err := provider.IdentifyUser(context.Background(), ""); err == nil {
		t.Error("expected error for empty username")
	}
}

func TestBasicAuthProvider_Name(t *testing.T) {
	if got := NewBasicAuthProvider(8, nil).Name(); got != "basic" {
		t.Errorf("expected name 'basic', got %q", got)
	}
}
