package converter

import (
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/analytics"
)

func SummaryToAdminDashboard(summary analytics.Summary, totalDoctors, totalPatients int64) *dto.AdminDashboardResponse {
	return &dto.AdminDashboardResponse{
		TotalAppointments:  summary.TotalAppointments,
		TodaysAppointments: summary.TodaysAppointments,
		TotalDoctors:       totalDoctors,
		TotalPatients:      totalPatients,
		TotalRevenue:       summary.TotalRevenue,
		Last7Days:          summary.Last7Days,
		StatusDistribution: summary.StatusDistribution,
		RecentAppointments: summary.Recent,
		TopDoctors:         summary.TopDoctors,
	}
}

func DoctorSummaryToDashboard(summary analytics.DoctorSummary) *dto.DoctorDashboardResponse {
	return &dto.DoctorDashboardResponse{
		Earnings:           summary.Earnings,
		Appointments:       summary.Appointments,
		Patients:           summary.Patients,
		LatestAppointments: AppointmentsToResponses(summary.Latest),
	}
}
