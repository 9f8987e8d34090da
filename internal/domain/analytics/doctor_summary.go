package analytics

import (
	"go-doctor-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorSummary is the dashboard of a single doctor
type DoctorSummary struct {
	Earnings     decimal.Decimal      `json:"earnings"`
	Appointments int                  `json:"appointments"`
	Patients     int                  `json:"patients"`
	Latest       []entity.Appointment `json:"latest_appointments"`
}

// SummarizeDoctor counts earnings from visits that were completed or paid
func SummarizeDoctor(appointments []entity.Appointment) DoctorSummary {
	summary := DoctorSummary{
		Earnings:     decimal.Zero,
		Appointments: len(appointments),
	}

	patients := make(map[uuid.UUID]struct{})
	for _, a := range appointments {
		if a.IsCompleted() || a.Payment {
			summary.Earnings = summary.Earnings.Add(a.Amount)
		}
		patients[a.PatientID] = struct{}{}
	}
	summary.Patients = len(patients)

	latest := newestFirst(appointments)
	if len(latest) > DoctorLatestSize {
		latest = latest[:DoctorLatestSize]
	}
	summary.Latest = latest

	return summary
}
