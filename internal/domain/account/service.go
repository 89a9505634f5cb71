package account

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const minPasswordLen = 6

type Service struct {
	users  UserRepository
	issuer *auth.TokenIssuer
}

func NewService(users UserRepository, issuer *auth.TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// RegisterRequest is a self-registration payload. Only patient and doctor
// roles may self-register.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Specialization string `json:"specialization"`
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalid)
	}
	if !emailRe.MatchString(strings.ToLower(req.Email)) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalid)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", ErrInvalid, minPasswordLen)
	}
	if req.Role != RolePatient && req.Role != RoleDoctor {
		return nil, fmt.Errorf("%w: invalid role %q", ErrInvalid, req.Role)
	}
	if req.Role == RoleDoctor && req.Specialization == "" {
		return nil, fmt.Errorf("%w: specialization is required for doctors", ErrInvalid)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if req.Specialization != "" {
		u.Specialization = &req.Specialization
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and returns a session token plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", ErrInvalid)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}

	token, err := s.issuer.Issue(u.ID.String(), u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListByRole(ctx context.Context, role string, limit, offset int) ([]*User, int, error) {
	return s.users.ListByRole(ctx, role, limit, offset)
}

// CreateAccount provisions a doctor or patient on behalf of the super-admin.
// Unlike Register, specialization stays optional for doctors.
func (s *Service) CreateAccount(ctx context.Context, role string, req RegisterRequest) (*User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email, and password are required", ErrInvalid)
	}
	if role != RolePatient && role != RoleDoctor {
		return nil, fmt.Errorf("%w: invalid role %q", ErrInvalid, role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if req.Specialization != "" {
		u.Specialization = &req.Specialization
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteAccount removes a user, verifying it holds the expected role so that
// the doctor endpoint cannot delete patients and vice versa.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID, expectedRole string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role != expectedRole {
		return ErrNotFound
	}
	return s.users.Delete(ctx, id)
}

// DisplayNames resolves a set of user ids to their display names and
// specializations, for callers that decorate appointment listings.
func (s *Service) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error) {
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
