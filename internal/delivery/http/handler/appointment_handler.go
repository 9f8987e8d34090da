package handler

import (
	"context"
	"net/http"

	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/delivery/http/middleware"
	"go-doctor-appointment/internal/usecase"
	"go-doctor-appointment/pkg/response"
	"go-doctor-appointment/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxIdempotencyKeyLength = 128

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	log                *logrus.Logger
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator, log *logrus.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		log:                log,
	}
}

// Book reserves a slot for the authenticated patient.
// A retried request carrying the same Idempotency-Key returns the first result.
// @Summary Book appointment
// @Tags Patient
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client retry key"
// @Param request body dto.BookAppointmentRequest true "Booking Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /user/appointments [post]
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	idempotencyKey := r.Header.Get(middleware.IdempotencyKeyHeader)
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		response.BadRequest(w, "Idempotency-Key is too long")
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), patientID, &req, idempotencyKey)
	if err != nil {
		writeAppointmentError(w, h.log, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// @Router /user/appointments [get]
func (h *AppointmentHandler) ListForPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointments, err := h.appointmentUsecase.ListForPatient(r.Context(), patientID)
	if err != nil {
		writeAppointmentError(w, h.log, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// @Router /doctor/appointments [get]
func (h *AppointmentHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointments, err := h.appointmentUsecase.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		writeAppointmentError(w, h.log, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// @Router /admin/appointments [get]
func (h *AppointmentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.ListAll(r.Context())
	if err != nil {
		writeAppointmentError(w, h.log, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// @Router /user/appointments/{id}/cancel [post]
func (h *AppointmentHandler) CancelByPatient(w http.ResponseWriter, r *http.Request) {
	h.actorAction(w, r, h.appointmentUsecase.CancelByPatient, "Appointment cancelled successfully", "Failed to cancel appointment", "Unauthorized access")
}

// @Router /doctor/appointments/{id}/cancel [post]
func (h *AppointmentHandler) CancelByDoctor(w http.ResponseWriter, r *http.Request) {
	h.actorAction(w, r, h.appointmentUsecase.CancelByDoctor, "Appointment cancelled successfully", "Failed to cancel appointment", "Not authorized")
}

// @Router /doctor/appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.actorAction(w, r, h.appointmentUsecase.Complete, "Appointment completed", "Failed to complete appointment", "Not authorized")
}

// @Router /admin/appointments/{id}/cancel [post]
func (h *AppointmentHandler) CancelByAdmin(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.CancelByAdmin(r.Context(), appointmentID)
	if err != nil {
		writeAppointmentError(w, h.log, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

// actorAction runs a state change on the appointment in the path on behalf of the authenticated patient or doctor
func (h *AppointmentHandler) actorAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, actorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error),
	successMessage, failureMessage, notOwnedMessage string,
) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := action(r.Context(), actorID, appointmentID)
	if err == usecase.ErrAppointmentNotOwned {
		response.Forbidden(w, notOwnedMessage)
		return
	}
	if err != nil {
		writeAppointmentError(w, h.log, err, failureMessage)
		return
	}

	response.Success(w, http.StatusOK, successMessage, appointment)
}

func writeAppointmentError(w http.ResponseWriter, log *logrus.Logger, err error, fallback string) {
	switch err {
	case usecase.ErrInvalidSlot:
		response.BadRequest(w, "Invalid slot date or time")
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrUserNotFound, usecase.ErrPatientNotFound:
		response.NotFound(w, "User not found")
	case usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case usecase.ErrDoctorUnavailable:
		response.Conflict(w, "Doctor is not available")
	case usecase.ErrSlotUnavailable:
		response.Conflict(w, "Slot is not available")
	case usecase.ErrBookingInProgress:
		response.Conflict(w, "A booking with this Idempotency-Key is in progress")
	case usecase.ErrAppointmentNotOwned:
		response.Forbidden(w, "Unauthorized access")
	case usecase.ErrAppointmentCompleted:
		response.Conflict(w, "Appointment is already completed")
	case usecase.ErrAppointmentCancelled:
		response.Conflict(w, "Appointment is cancelled")
	case usecase.ErrAppointmentChanged:
		response.Conflict(w, "Appointment was modified, please retry")
	default:
		log.Warnf("%s: %+v", fallback, err)
		response.InternalServerError(w, fallback)
	}
}
