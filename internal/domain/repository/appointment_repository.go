package repository

import (
	"context"
	"time"

	"go-doctor-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlotReservation is one (doctor, date, time) held by an active appointment
type SlotReservation struct {
	DoctorID uuid.UUID
	SlotDate string
	SlotTime string
}

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Appointment, error)

	// ExistsActiveSlot reports whether a non-cancelled appointment holds the slot
	ExistsActiveSlot(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, slotDate, slotTime string) (bool, error)
	// FindActiveSlots lists reservations of the given doctors on or after fromDate
	FindActiveSlots(ctx context.Context, db *gorm.DB, doctorIDs []uuid.UUID, fromDate string) ([]SlotReservation, error)

	// TransitionStatus moves an appointment from one status to another.
	// Returns affected rows: 0 means the appointment was not in the expected status.
	TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	SetPaymentOrder(ctx context.Context, db *gorm.DB, id uuid.UUID, orderID string) error
	// MarkPaid sets payment once. Returns affected rows: 0 means it was already paid.
	MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID, paidAt time.Time) (int64, error)
}
