package entity

import (
	"github.com/google/uuid"
)

// Profile sentinels used instead of empty values
const (
	NotSelected  = "NOT SELECTED"
	DefaultPhone = "000000000000"
)

// Gender constants
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	PhoneNumber string    `gorm:"type:varchar(20);not null" json:"phone_number"`
	Address     Address   `gorm:"type:jsonb;not null" json:"address"`
	DateOfBirth string    `gorm:"type:varchar(20);not null" json:"date_of_birth"`
	Gender      string    `gorm:"type:varchar(20);not null" json:"gender"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// NewPatientProfile returns a profile filled with sentinel defaults
func NewPatientProfile(userID uuid.UUID) *PatientProfile {
	return &PatientProfile{
		UserID:      userID,
		PhoneNumber: DefaultPhone,
		Address:     Address{Line1: " ", Line2: " "},
		DateOfBirth: NotSelected,
		Gender:      NotSelected,
	}
}
