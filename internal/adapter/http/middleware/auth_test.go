package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/bankledger/internal/infrastructure/auth"
)

func TestAuthMiddleware(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)
	token, err := manager.Generate(auth.Principal{Subject: "teller-1", Role: auth.RoleOperator})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		expected int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *auth.Principal
			h := AuthMiddleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = PrincipalFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
			if tt.expected == http.StatusOK && (got == nil || got.Subject != "teller-1") {
				t.Fatalf("expected principal in context, got %+v", got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)

	tests := []struct {
		name     string
		role     auth.Role
		min      auth.Role
		expected int
	}{
		{"admin may check ledger", auth.RoleAdmin, auth.RoleAdmin, http.StatusOK},
		{"operator may transfer", auth.RoleOperator, auth.RoleOperator, http.StatusOK},
		{"viewer may not transfer", auth.RoleViewer, auth.RoleOperator, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _ := manager.Generate(auth.Principal{Subject: "u", Role: tt.role})

			h := AuthMiddleware(manager)(RequireRole(tt.min)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}

	rec := httptest.NewRecorder()
	RequireRole(auth.RoleViewer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", rec.Code)
	}
}
