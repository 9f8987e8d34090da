package handler

import (
	"net/http"

	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/delivery/http/middleware"
	"go-doctor-appointment/internal/usecase"
	"go-doctor-appointment/pkg/response"
	"go-doctor-appointment/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
		log:            log,
	}
}

// CreateOrder opens a gateway order for an unpaid appointment
// @Router /user/payments/order [post]
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreatePaymentOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.paymentUsecase.CreateOrder(r.Context(), patientID, &req)
	if err != nil {
		h.writePaymentError(w, err, "Failed to create payment order")
		return
	}

	response.Success(w, http.StatusCreated, "Payment order created", order)
}

// Verify marks the appointment paid once the gateway reports the order paid
// @Router /user/payments/verify [post]
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.paymentUsecase.Verify(r.Context(), patientID, &req)
	if err != nil {
		h.writePaymentError(w, err, "Failed to verify payment")
		return
	}

	response.Success(w, http.StatusOK, "Payment successful", appointment)
}

func (h *PaymentHandler) writePaymentError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPaymentNotAllowed:
		response.BadRequest(w, "Appointment cancelled or not found")
	case usecase.ErrAlreadyPaid:
		response.Conflict(w, "Appointment is already paid")
	case usecase.ErrPaymentNotCompleted:
		response.Error(w, http.StatusPaymentRequired, "Payment failed", nil)
	default:
		writeAppointmentError(w, h.log, err, fallback)
	}
}
