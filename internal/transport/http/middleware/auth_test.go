package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kaiaworks/internal/domain/auth"
)

const testSecret = "test-secret"

func authProbe(t *testing.T) (http.Handler, *auth.UserContext) {
	t.Helper()
	var captured auth.UserContext
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := GetUser(r.Context()); ok {
			captured = user
		}
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &captured
}

func TestAuthValidToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-1", Role: auth.RoleFinance}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler, captured := authProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured.UserID != "u-1" || captured.Role != auth.RoleFinance {
		t.Fatalf("unexpected user context: %+v", *captured)
	}
}

func TestAuthBadTokenIsAnonymous(t *testing.T) {
	handler, captured := authProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured.UserID != "" {
		t.Fatalf("bad token should not attach a user, got %+v", *captured)
	}
}

func TestAuthExpiredToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-1", Role: auth.RoleWorker}, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler, captured := authProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured.UserID != "" {
		t.Fatalf("expired token should not attach a user, got %+v", *captured)
	}
}

func TestRequirePermission(t *testing.T) {
	handler := RequirePermission(auth.PermPayrollRun)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		user *auth.UserContext
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"worker denied", &auth.UserContext{UserID: "u-1", Role: auth.RoleWorker}, http.StatusForbidden},
		{"payroll officer allowed", &auth.UserContext{UserID: "u-2", Role: auth.RolePayrollOfficer}, http.StatusOK},
		{"ceo allowed", &auth.UserContext{UserID: "u-3", Role: auth.RoleCEO}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
