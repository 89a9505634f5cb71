package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts a new appointment. A write that collides with an
	// existing (doctor, scheduled_at) pair fails with ErrSlotTaken.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
	ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
}
