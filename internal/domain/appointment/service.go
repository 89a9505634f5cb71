package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
)

// Listing scopes accepted by List.
const (
	ScopeDoctor  = "doctor"
	ScopePatient = "patient"
	ScopeAll     = "all"
)

type Service struct {
	appts Repository
}

func NewService(appts Repository) *Service {
	return &Service{appts: appts}
}

// AvailableSlots returns the bookable instants for the doctor on the
// calendar day containing date, ascending. A fully open day yields 32
// slots (09:00–16:45); every booked instant is removed by exact
// millisecond match.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]time.Time, error) {
	if doctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrInvalid)
	}

	from, to := dayWindow(date)
	booked, err := s.appts.ListByDoctorBetween(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	taken := make(map[int64]bool, len(booked))
	for _, a := range booked {
		taken[a.ScheduledAt.UnixMilli()] = true
	}

	available := make([]time.Time, 0, SlotsPerDay)
	for _, slot := range slotGrid(date) {
		if !taken[slot.UnixMilli()] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// Book creates a pending appointment for the patient at the given slot,
// refusing to double-book a doctor. The pre-insert existence check gives
// an early ErrSlotTaken; the store's unique constraint remains the
// authority when two bookings race.
func (s *Service) Book(ctx context.Context, doctorID, patientID uuid.UUID, slot time.Time, symptoms string) (*Appointment, error) {
	if doctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrInvalid)
	}
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrInvalid)
	}
	if strings.TrimSpace(symptoms) == "" {
		return nil, fmt.Errorf("%w: symptoms are required", ErrInvalid)
	}
	if slot.IsZero() {
		return nil, fmt.Errorf("%w: slot is required", ErrInvalid)
	}

	exists, err := s.appts.ExistsAt(ctx, doctorID, slot)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlotTaken
	}

	a := &Appointment{
		DoctorID:    doctorID,
		PatientID:   patientID,
		Symptoms:    symptoms,
		ScheduledAt: slot,
		Status:      StatusPending,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateStatus sets the appointment's status on behalf of its doctor and
// returns the updated record.
func (s *Service) UpdateStatus(ctx context.Context, id, callerID uuid.UUID, newStatus string) (*Appointment, error) {
	if !validStatuses[newStatus] {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalid, newStatus)
	}

	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != callerID {
		return nil, ErrForbidden
	}
	if err := ValidateTransition(a.Status, newStatus); err != nil {
		return nil, err
	}

	a.Status = newStatus
	if err := s.appts.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an appointment permanently. Super-admin only.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, callerRole string) error {
	if callerRole != auth.RoleSuperAdmin {
		return ErrForbidden
	}
	return s.appts.Delete(ctx, id)
}

// List returns the appointments visible to the caller under the given
// scope, in natural store order.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, role, scope string) ([]*Appointment, error) {
	switch scope {
	case ScopeDoctor:
		return s.appts.ListByDoctor(ctx, callerID)
	case ScopePatient:
		return s.appts.ListByPatient(ctx, callerID)
	case ScopeAll:
		switch role {
		case auth.RoleDoctor:
			return s.appts.ListByDoctor(ctx, callerID)
		case auth.RolePatient:
			return s.appts.ListByPatient(ctx, callerID)
		default:
			// super_admin gets the global listing
			return s.appts.ListAll(ctx)
		}
	default:
		return nil, fmt.Errorf("%w: invalid scope %q", ErrInvalid, scope)
	}
}
