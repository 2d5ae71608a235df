package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cecepns/stroke-care/internal/usecase"
)

type fakeVerifier struct {
	claims *usecase.Claims
}

func (f *fakeVerifier) VerifyToken(token string) (*usecase.Claims, error) {
	if token == "valid" && f.claims != nil {
		return f.claims, nil
	}
	return nil, errors.New("invalid token")
}

func TestRequireAuth_NoToken(t *testing.T) {
	handler := RequireAuth(&fakeVerifier{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	handler := RequireAuth(&fakeVerifier{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_ValidTokenSetsClaims(t *testing.T) {
	verifier := &fakeVerifier{claims: &usecase.Claims{UserID: 7, Role: "user"}}

	var got *usecase.Claims
	handler := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got == nil || got.UserID != 7 {
		t.Errorf("Expected claims on context, got %+v", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// No claims at all
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 without claims, got %d", w.Code)
	}

	// User claims
	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithClaims(req.Context(), &usecase.Claims{UserID: 7, Role: "user"}))
	w = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for user role, got %d", w.Code)
	}

	// Admin claims
	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithClaims(req.Context(), &usecase.Claims{UserID: 1, Role: "admin"}))
	w = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin role, got %d", w.Code)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"", ""},
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic abc123", ""},
		{"abc123", ""},
	}

	for _, tc := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := BearerToken(req); got != tc.expected {
			t.Errorf("header %q: expected %q, got %q", tc.header, tc.expected, got)
		}
	}
}
