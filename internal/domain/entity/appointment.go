package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus is exhaustive: an appointment is in exactly one state
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is one entry of the ledger. Rows are never deleted.
// At most one non-cancelled row may exist per (doctor_id, slot_date, slot_time);
// the partial unique index uq_appointments_active_slot enforces it.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	SlotDate       string            `gorm:"type:varchar(10);not null" json:"slot_date"`
	SlotTime       string            `gorm:"type:varchar(8);not null" json:"slot_time"`
	Amount         decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status         AppointmentStatus `gorm:"type:appointment_status;not null;index" json:"status"`
	Payment        bool              `gorm:"not null" json:"payment"`
	PaymentOrderID string            `gorm:"type:varchar(64);index" json:"payment_order_id,omitempty"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	PatientData    PatientSnapshot   `gorm:"type:jsonb;not null" json:"patient_data"`
	DoctorData     DoctorSnapshot    `gorm:"type:jsonb;not null" json:"doctor_data"`
	CreatedAt      time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if appointment is waiting for the visit
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsCompleted checks if the doctor marked the visit done
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// HoldsSlot reports whether the appointment still reserves its slot
func (a *Appointment) HoldsSlot() bool {
	return !a.IsCancelled()
}

// MinorUnits returns the amount in the currency's smallest unit
func (a *Appointment) MinorUnits() int64 {
	return a.Amount.Shift(2).Round(0).IntPart()
}
