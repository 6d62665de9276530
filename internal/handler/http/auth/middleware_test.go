package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin@example.com",
		"role": role,
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func runAuthz(t *testing.T, path, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	handler := Authz(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, reached
}

func TestAuthz_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", RoleAdmin, time.Now().Add(time.Hour))

	rec, reached := runAuthz(t, "/products", "Bearer "+token)

	if !reached {
		t.Error("expected handler to be reached")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestAuthz_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec, reached := runAuthz(t, "/products", "")

	if reached {
		t.Error("handler must not be reached without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthz_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "other-secret", RoleAdmin, time.Now().Add(time.Hour))

	rec, reached := runAuthz(t, "/products", "Bearer "+token)

	if reached {
		t.Error("handler must not be reached with a forged token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthz_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", RoleAdmin, time.Now().Add(-time.Hour))

	rec, reached := runAuthz(t, "/products", "Bearer "+token)

	if reached {
		t.Error("handler must not be reached with an expired token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthz_NonAdminRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", "viewer", time.Now().Add(time.Hour))

	rec, reached := runAuthz(t, "/products", "Bearer "+token)

	if reached {
		t.Error("handler must not be reached without the admin role")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestAuthz_PublicEndpointBypassesAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec, reached := runAuthz(t, "/health", "")

	if !reached {
		t.Error("public endpoint must be reachable without a token")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestIsPublicEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health/", true},
		{"/health?format=json", true},
		{"/health/detail", false},
		{"/healthcheck", false},
		{"/ready", true},
		{"/live", true},
		{"/metrics", true},
		{"/auth/token", true},
		{"/products", false},
		{"/products/1", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsPublicEndpoint(tt.path); got != tt.want {
				t.Errorf("IsPublicEndpoint(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
