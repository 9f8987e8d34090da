package entity

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	result := map[string]interface{}{}
	if err := scanJSONB(value, &result); err != nil {
		return err
	}
	*j = JSON(result)
	return nil
}

// Address is stored as a JSONB object with two lines
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(value interface{}) error {
	return scanJSONB(value, a)
}

// PatientSnapshot is the patient display data copied onto an appointment at booking time
type PatientSnapshot struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Image       string  `json:"image"`
	PhoneNumber string  `json:"phone_number"`
	DateOfBirth string  `json:"date_of_birth"`
	Gender      string  `json:"gender"`
	Address     Address `json:"address"`
}

func (s PatientSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *PatientSnapshot) Scan(value interface{}) error {
	return scanJSONB(value, s)
}

// DoctorSnapshot is the doctor display data copied onto an appointment at booking time
type DoctorSnapshot struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Image      string          `json:"image"`
	Speciality string          `json:"speciality"`
	Degree     string          `json:"degree"`
	Experience string          `json:"experience"`
	Fees       decimal.Decimal `json:"fees"`
	Address    Address         `json:"address"`
}

func (s DoctorSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *DoctorSnapshot) Scan(value interface{}) error {
	return scanJSONB(value, s)
}

func scanJSONB(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, dest)
}
