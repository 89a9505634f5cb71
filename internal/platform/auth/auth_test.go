package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestTokenRoundTrip(t *testing.T) {
	key := []byte("test-secret")
	issuer := NewTokenIssuer(key, time.Hour)

	token, err := issuer.Issue("user-42", RoleDoctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID, gotRole string
	handler := JWTMiddleware(JWTConfig{SigningKey: key})(func(c echo.Context) error {
		gotID = UserIDFromContext(c.Request().Context())
		gotRole = RoleFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "user-42" {
		t.Errorf("expected user id user-42, got %q", gotID)
	}
	if gotRole != RoleDoctor {
		t.Errorf("expected role doctor, got %q", gotRole)
	}
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	key := []byte("test-secret")
	issuer := NewTokenIssuer(key, time.Hour)
	good, err := issuer.Issue("user-42", RolePatient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	otherKey, err := NewTokenIssuer([]byte("other-secret"), time.Hour).Issue("user-42", RolePatient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expired, err := NewTokenIssuer(key, -time.Hour).Issue("user-42", RolePatient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic " + good,
		"garbage token":  "Bearer not-a-token",
		"wrong key":      "Bearer " + otherKey,
		"expired":        "Bearer " + expired,
	}

	mw := JWTMiddleware(JWTConfig{SigningKey: key})
	for name, header := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %v", name, err)
		}
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		allowed []string
		pass    bool
	}{
		{"exact match", RoleDoctor, []string{RoleDoctor}, true},
		{"one of several", RolePatient, []string{RoleDoctor, RolePatient}, true},
		{"mismatch", RolePatient, []string{RoleDoctor}, false},
		{"no role on context", "", []string{RoleDoctor}, false},
		{"super admin passes everything", RoleSuperAdmin, []string{RoleDoctor}, true},
	}

	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tc.role != "" {
			ctx := context.WithValue(req.Context(), UserRoleKey, tc.role)
			c.SetRequest(req.WithContext(ctx))
		}

		err := RequireRole(tc.allowed...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c)

		if tc.pass && err != nil {
			t.Errorf("%s: expected pass, got %v", tc.name, err)
		}
		if !tc.pass {
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusForbidden {
				t.Errorf("%s: expected 403, got %v", tc.name, err)
			}
		}
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	var gotRole string
	err := DevAuthMiddleware()(func(c echo.Context) error {
		gotRole = RoleFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRole != RoleSuperAdmin {
		t.Errorf("expected super_admin in dev mode, got %q", gotRole)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash equals the plaintext password")
	}
	if !CheckPassword(hash, "secret123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "secret124") {
		t.Error("wrong password accepted")
	}
}
