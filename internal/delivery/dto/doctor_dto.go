package dto

import (
	"time"

	"go-doctor-appointment/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateDoctorRequest is read from a multipart form; the image part is handled separately
type CreateDoctorRequest struct {
	Name         string `form:"name" validate:"required,min=2,max=255"`
	Email        string `form:"email" validate:"required,email"`
	Password     string `form:"password" validate:"required,min=8"`
	Speciality   string `form:"speciality" validate:"required,max=100"`
	Degree       string `form:"degree" validate:"required,max=100"`
	Experience   string `form:"experience" validate:"required,max=50"`
	About        string `form:"about" validate:"required"`
	Fees         string `form:"fees" validate:"required,numeric"`
	AddressLine1 string `form:"address_line1" validate:"required"`
	AddressLine2 string `form:"address_line2" validate:"omitempty"`
}

// UpdateDoctorProfileRequest is read from a multipart form; the image part is optional
type UpdateDoctorProfileRequest struct {
	Speciality   string `form:"speciality" validate:"required,max=100"`
	Degree       string `form:"degree" validate:"required,max=100"`
	Experience   string `form:"experience" validate:"required,max=50"`
	About        string `form:"about" validate:"required"`
	Fees         string `form:"fees" validate:"required,numeric"`
	AddressLine1 string `form:"address_line1" validate:"required"`
	AddressLine2 string `form:"address_line2" validate:"omitempty"`
	Available    string `form:"available" validate:"required,boolean"`
}

// Response DTOs

type AddressResponse struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

type DoctorResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email,omitempty"`
	Image       string              `json:"image"`
	Speciality  string              `json:"speciality"`
	Degree      string              `json:"degree"`
	Experience  string              `json:"experience"`
	About       string              `json:"about"`
	Fees        decimal.Decimal     `json:"fees"`
	Address     AddressResponse     `json:"address"`
	Available   bool                `json:"available"`
	SlotsBooked map[string][]string `json:"slots_booked"`
	CreatedAt   time.Time           `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type DoctorSlotsResponse struct {
	DoctorID  uuid.UUID  `json:"doctor_id"`
	Available bool       `json:"available"`
	Days      []slot.Day `json:"days"`
}

type AvailabilityResponse struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Available bool      `json:"available"`
}
