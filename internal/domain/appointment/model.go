package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. New bookings start as pending; the doctor moves
// them to accepted or rejected (or back — there is no transition guard,
// see ValidateTransition).
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

var validStatuses = map[string]bool{
	StatusPending:  true,
	StatusAccepted: true,
	StatusRejected: true,
}

var (
	ErrNotFound  = errors.New("appointment not found")
	ErrSlotTaken = errors.New("this slot is already booked")
	ErrForbidden = errors.New("access denied")
	ErrInvalid   = errors.New("invalid appointment request")
)

// Appointment maps to the appointments table. ScheduledAt is unique per
// doctor across all stored appointments.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient"`
	Symptoms    string    `db:"symptoms" json:"symptoms"`
	ScheduledAt time.Time `db:"scheduled_at" json:"date"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// View is an appointment decorated with the counterpart party's display
// details for listings. The join against the user directory is performed
// by the handler, not the core service.
type View struct {
	*Appointment
	DoctorName           string `json:"doctorName,omitempty"`
	DoctorSpecialization string `json:"doctorSpecialization,omitempty"`
	PatientName          string `json:"patientName,omitempty"`
}

// ValidateTransition is the hook for status transition rules. Any status
// may currently be set from any other at any time; a stricter state
// machine can be layered in here without changing the service contract.
func ValidateTransition(from, to string) error {
	return nil
}
