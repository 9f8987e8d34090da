package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data.
// Booked slots are not stored here; they are derived from active appointments.
type DoctorProfile struct {
	UserID     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Speciality string          `gorm:"type:varchar(100);not null;index" json:"speciality"`
	Degree     string          `gorm:"type:varchar(100);not null" json:"degree"`
	Experience string          `gorm:"type:varchar(50);not null" json:"experience"`
	About      string          `gorm:"type:text;not null" json:"about"`
	Fees       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"fees"`
	Address    Address         `gorm:"type:jsonb;not null" json:"address"`
	Available  bool            `gorm:"not null;index" json:"available"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// ToggleAvailability flips the availability flag and returns the new value
func (p *DoctorProfile) ToggleAvailability() bool {
	p.Available = !p.Available
	return p.Available
}
