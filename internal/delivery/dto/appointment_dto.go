package dto

import (
	"time"

	"go-doctor-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	SlotDate string `json:"slot_date" validate:"required,slotdate"`
	SlotTime string `json:"slot_time" validate:"required,slottime"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID                `json:"id"`
	PatientID   uuid.UUID                `json:"patient_id"`
	DoctorID    uuid.UUID                `json:"doctor_id"`
	SlotDate    string                   `json:"slot_date"`
	SlotTime    string                   `json:"slot_time"`
	Amount      decimal.Decimal          `json:"amount"`
	Status      entity.AppointmentStatus `json:"status"`
	Cancelled   bool                     `json:"cancelled"`
	IsCompleted bool                     `json:"is_completed"`
	Payment     bool                     `json:"payment"`
	PaidAt      *time.Time               `json:"paid_at,omitempty"`
	PatientData entity.PatientSnapshot   `json:"patient_data"`
	DoctorData  entity.DoctorSnapshot    `json:"doctor_data"`
	CreatedAt   time.Time                `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
