package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// UpdatePatientProfileRequest is read from a multipart form; the image part is optional
type UpdatePatientProfileRequest struct {
	Name         string `form:"name" validate:"required,min=2,max=255"`
	Phone        string `form:"phone" validate:"required,min=6,max=20"`
	AddressLine1 string `form:"address_line1" validate:"omitempty"`
	AddressLine2 string `form:"address_line2" validate:"omitempty"`
	DateOfBirth  string `form:"dob" validate:"required"`
	Gender       string `form:"gender" validate:"required,oneof=Male Female 'NOT SELECTED'"`
}

// Response DTOs

type PatientProfileResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Image       string          `json:"image"`
	Phone       string          `json:"phone"`
	Address     AddressResponse `json:"address"`
	DateOfBirth string          `json:"dob"`
	Gender      string          `json:"gender"`
}
