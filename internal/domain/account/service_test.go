package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
)

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(ctx context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	var out []*User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role string, limit, offset int) ([]*User, int, error) {
	var all []*User
	for _, u := range m.users {
		if u.Role == role {
			cp := *u
			all = append(all, &cp)
		}
	}
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func newTestService(repo UserRepository) *Service {
	issuer := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	return NewService(repo, issuer)
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     RolePatient,
	}
}

func TestRegister_Patient(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	u, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Error("expected an assigned id")
	}
	if u.Role != RolePatient {
		t.Errorf("expected role patient, got %q", u.Role)
	}
	if u.PasswordHash == "secret123" {
		t.Error("password stored in the clear")
	}
	if !auth.CheckPassword(u.PasswordHash, "secret123") {
		t.Error("stored hash does not verify the original password")
	}
}

func TestRegister_DoctorNeedsSpecialization(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	req := validRegistration()
	req.Role = RoleDoctor
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	req.Specialization = "dermatology"
	u, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Specialization == nil || *u.Specialization != "dermatology" {
		t.Errorf("specialization not recorded: %+v", u)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	cases := map[string]func(*RegisterRequest){
		"missing name":     func(r *RegisterRequest) { r.Name = "" },
		"missing email":    func(r *RegisterRequest) { r.Email = "" },
		"missing password": func(r *RegisterRequest) { r.Password = "" },
		"missing role":     func(r *RegisterRequest) { r.Role = "" },
		"bad email":        func(r *RegisterRequest) { r.Email = "not-an-email" },
		"short password":   func(r *RegisterRequest) { r.Password = "abc" },
		"admin role":       func(r *RegisterRequest) { r.Role = RoleSuperAdmin },
	}
	for name, mutate := range cases {
		req := validRegistration()
		mutate(&req)
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(context.Background(), validRegistration())
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	registered, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, u, err := svc.Login(context.Background(), "asha@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if u.ID != registered.ID {
		t.Error("login returned a different user")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "asha@example.com", "wrongpass"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for unknown email, got %v", err)
	}
}

func TestCreateAccount_SpecializationOptional(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	u, err := svc.CreateAccount(context.Background(), RoleDoctor, RegisterRequest{
		Name:     "Dr. Rao",
		Email:    "rao@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != RoleDoctor {
		t.Errorf("expected role doctor, got %q", u.Role)
	}
	if u.Specialization != nil {
		t.Errorf("expected nil specialization, got %q", *u.Specialization)
	}
}

func TestDeleteAccount_RoleChecked(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The doctor endpoint must not be able to delete a patient.
	if err := svc.DeleteAccount(context.Background(), u.ID, RoleDoctor); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for role mismatch, got %v", err)
	}
	if err := svc.DeleteAccount(context.Background(), u.ID, RolePatient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDisplayNames(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	doctor, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Dr. Rao", Email: "rao@example.com", Password: "secret123",
		Role: RoleDoctor, Specialization: "cardiology",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	patient, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, err := svc.DisplayNames(context.Background(), []uuid.UUID{doctor.ID, patient.ID, uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 resolved users, got %d", len(names))
	}
	if names[doctor.ID].Name != "Dr. Rao" {
		t.Errorf("doctor not resolved: %+v", names[doctor.ID])
	}
}
