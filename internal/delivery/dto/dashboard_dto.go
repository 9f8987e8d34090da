package dto

import (
	"go-doctor-appointment/internal/domain/analytics"

	"github.com/shopspring/decimal"
)

type AdminDashboardResponse struct {
	TotalAppointments  int                           `json:"total_appointments"`
	TodaysAppointments int                           `json:"todays_appointments"`
	TotalDoctors       int64                         `json:"total_doctors"`
	TotalPatients      int64                         `json:"total_patients"`
	TotalRevenue       decimal.Decimal               `json:"total_revenue"`
	Last7Days          []analytics.DayCount          `json:"last_7_days"`
	StatusDistribution analytics.StatusDistribution  `json:"status_distribution"`
	RecentAppointments []analytics.RecentAppointment `json:"recent_appointments"`
	TopDoctors         []analytics.DoctorRank        `json:"top_doctors"`
}

type DoctorDashboardResponse struct {
	Earnings           decimal.Decimal       `json:"earnings"`
	Appointments       int                   `json:"appointments"`
	Patients           int                   `json:"patients"`
	LatestAppointments []AppointmentResponse `json:"latest_appointments"`
}
