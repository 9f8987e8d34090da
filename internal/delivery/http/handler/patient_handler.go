package handler

import (
	"net/http"

	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/delivery/http/middleware"
	"go-doctor-appointment/internal/service"
	"go-doctor-appointment/internal/usecase"
	"go-doctor-appointment/pkg/response"
	"go-doctor-appointment/pkg/validator"

	"github.com/sirupsen/logrus"
)

type PatientHandler struct {
	patientUsecase usecase.PatientProfileUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
	maxUploadBytes int64
}

func NewPatientHandler(patientUsecase usecase.PatientProfileUsecase, validator *validator.CustomValidator, log *logrus.Logger, maxUploadBytes int64) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

// @Router /user/profile [get]
func (h *PatientHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	profile, err := h.patientUsecase.GetProfile(r.Context(), patientID)
	if err != nil {
		h.writePatientError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateProfile reads a multipart form; the image part is optional
// @Accept multipart/form-data
// @Router /user/profile [put]
func (h *PatientHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid form data", nil)
		return
	}

	req := dto.UpdatePatientProfileRequest{
		Name:         r.FormValue("name"),
		Phone:        r.FormValue("phone"),
		AddressLine1: r.FormValue("address_line1"),
		AddressLine2: r.FormValue("address_line2"),
		DateOfBirth:  r.FormValue("dob"),
		Gender:       r.FormValue("gender"),
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	image, closer, err := formImage(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid image file", nil)
		return
	}
	defer closeQuietly(closer)

	profile, err := h.patientUsecase.UpdateProfile(r.Context(), patientID, &req, image)
	if err != nil {
		h.writePatientError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated", profile)
}

func (h *PatientHandler) writePatientError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrUserNotFound, usecase.ErrPatientNotFound:
		response.NotFound(w, "User not found")
	case service.ErrUnsupportedImageType:
		response.BadRequest(w, "Image must be a JPEG, PNG or WebP file")
	default:
		h.log.Warnf("%s: %+v", fallback, err)
		response.InternalServerError(w, fallback)
	}
}
