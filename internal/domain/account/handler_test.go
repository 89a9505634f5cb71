package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerRegister(t *testing.T) {
	h := NewHandler(newTestService(newMockUserRepo()))

	body := `{"name":"Asha","email":"asha@example.com","password":"secret123","role":"patient"}`
	c, rec := newJSONContext(t, http.MethodPost, "/users/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret123") {
		t.Error("response leaks the password")
	}

	var u User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if u.Role != RolePatient {
		t.Errorf("expected role patient, got %q", u.Role)
	}
}

func TestHandlerRegister_Invalid(t *testing.T) {
	h := NewHandler(newTestService(newMockUserRepo()))

	body := `{"name":"Asha","email":"asha@example.com","password":"ab","role":"patient"}`
	c, _ := newJSONContext(t, http.MethodPost, "/users/register", body)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerLogin(t *testing.T) {
	svc := newTestService(newMockUserRepo())
	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewHandler(svc)

	c, rec := newJSONContext(t, http.MethodPost, "/users/login",
		`{"email":"asha@example.com","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if resp.User == nil || resp.User.Email != "asha@example.com" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}
}

func TestHandlerLogin_BadCredentials(t *testing.T) {
	svc := newTestService(newMockUserRepo())
	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewHandler(svc)

	c, _ := newJSONContext(t, http.MethodPost, "/users/login",
		`{"email":"asha@example.com","password":"nope-wrong"}`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerListUsers_DefaultsToDoctors(t *testing.T) {
	svc := newTestService(newMockUserRepo())
	if _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Dr. Rao", Email: "rao@example.com", Password: "secret123",
		Role: RoleDoctor, Specialization: "cardiology",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewHandler(svc)

	c, rec := newJSONContext(t, http.MethodGet, "/users", "")
	if err := h.ListUsers(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data  []*User `json:"data"`
		Total int     `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("expected 1 doctor, got total=%d len=%d", resp.Total, len(resp.Data))
	}
	if resp.Data[0].Role != RoleDoctor {
		t.Errorf("expected a doctor, got %q", resp.Data[0].Role)
	}
}

func TestHandlerDeleteDoctor_RejectsPatientID(t *testing.T) {
	svc := newTestService(newMockUserRepo())
	patient, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewHandler(svc)

	c, _ := newJSONContext(t, http.MethodDelete, "/doctors/"+patient.ID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(patient.ID.String())

	err = h.DeleteDoctor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
