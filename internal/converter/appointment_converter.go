package converter

import (
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// The cancelled and is_completed flags are derived from the status.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          appointment.ID,
		PatientID:   appointment.PatientID,
		DoctorID:    appointment.DoctorID,
		SlotDate:    appointment.SlotDate,
		SlotTime:    appointment.SlotTime,
		Amount:      appointment.Amount,
		Status:      appointment.Status,
		Cancelled:   appointment.IsCancelled(),
		IsCompleted: appointment.IsCompleted(),
		Payment:     appointment.Payment,
		PaidAt:      appointment.PaidAt,
		PatientData: appointment.PatientData,
		DoctorData:  appointment.DoctorData,
		CreatedAt:   appointment.CreatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
