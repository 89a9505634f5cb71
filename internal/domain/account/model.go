package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Roles a user account can hold. super_admin accounts are provisioned
// out-of-band; self-registration only accepts patient and doctor.
const (
	RolePatient    = "patient"
	RoleDoctor     = "doctor"
	RoleSuperAdmin = "super_admin"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrInvalid        = errors.New("invalid user")
	ErrBadCredentials = errors.New("invalid credentials")
)

// User maps to the users table.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           string    `db:"role" json:"role"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
