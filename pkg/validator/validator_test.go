package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingForm struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	SlotDate string `json:"slot_date" validate:"required,slotdate"`
	SlotTime string `json:"slot_time" validate:"required,slottime"`
}

func TestValidate_SlotTags(t *testing.T) {
	v := NewValidator()

	ok := bookingForm{DoctorID: "5f0c7f36-4c1e-4d8e-9a51-5d8b3f8f2a11", SlotDate: "2025-06-10", SlotTime: "10:00 AM"}
	assert.NoError(t, v.Validate(&ok))

	bad := bookingForm{DoctorID: "nope", SlotDate: "10/06/2025", SlotTime: "10:15 AM"}
	err := v.Validate(&bad)
	require.Error(t, err)

	messages := v.FormatValidationErrors(err)
	assert.Equal(t, "doctor_id must be a valid UUID", messages["doctor_id"])
	assert.Contains(t, messages["slot_date"], "YYYY-MM-DD")
	assert.Contains(t, messages["slot_time"], "half-hour slot")
}

func TestFormatValidationErrors_Required(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&bookingForm{})
	require.Error(t, err)

	messages := v.FormatValidationErrors(err)
	assert.Len(t, messages, 3)
	assert.Equal(t, "slot_date is required", messages["slot_date"])
}
