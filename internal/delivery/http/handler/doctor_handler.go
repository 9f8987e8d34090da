package handler

import (
	"net/http"

	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/delivery/http/middleware"
	"go-doctor-appointment/internal/service"
	"go-doctor-appointment/internal/usecase"
	"go-doctor-appointment/pkg/response"
	"go-doctor-appointment/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type DoctorHandler struct {
	doctorUsecase  usecase.DoctorProfileUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
	maxUploadBytes int64
}

func NewDoctorHandler(doctorUsecase usecase.DoctorProfileUsecase, validator *validator.CustomValidator, log *logrus.Logger, maxUploadBytes int64) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase:  doctorUsecase,
		validator:      validator,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateDoctor adds a doctor from a multipart form with a required image
// @Summary Add doctor
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/doctors [post]
func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid form data", nil)
		return
	}

	req := dto.CreateDoctorRequest{
		Name:         r.FormValue("name"),
		Email:        r.FormValue("email"),
		Password:     r.FormValue("password"),
		Speciality:   r.FormValue("speciality"),
		Degree:       r.FormValue("degree"),
		Experience:   r.FormValue("experience"),
		About:        r.FormValue("about"),
		Fees:         r.FormValue("fees"),
		AddressLine1: r.FormValue("address_line1"),
		AddressLine2: r.FormValue("address_line2"),
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

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), &req, image)
	if err != nil {
		switch err {
		case usecase.ErrImageRequired:
			response.BadRequest(w, "Image file is required")
		case service.ErrUnsupportedImageType:
			response.BadRequest(w, "Image must be a JPEG, PNG or WebP file")
		case usecase.ErrInvalidFees:
			response.BadRequest(w, "Fees must be greater than zero")
		case usecase.ErrDoctorEmailExists:
			response.Conflict(w, "Email already exists")
		default:
			h.log.Warnf("Failed to create doctor: %+v", err)
			response.InternalServerError(w, "Failed to add doctor")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Doctor added", doctor)
}

// ListDoctors is the public directory; emails are hidden
// @Summary List doctors
// @Tags Doctor
// @Produce json
// @Success 200 {object} response.Response
// @Router /doctors [get]
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	h.listDoctors(w, r, false)
}

// ListDoctorsForAdmin includes doctor emails
// @Router /admin/doctors [get]
func (h *DoctorHandler) ListDoctorsForAdmin(w http.ResponseWriter, r *http.Request) {
	h.listDoctors(w, r, true)
}

func (h *DoctorHandler) listDoctors(w http.ResponseWriter, r *http.Request, withEmail bool) {
	doctors, err := h.doctorUsecase.ListDoctors(r.Context(), withEmail)
	if err != nil {
		h.log.Warnf("Failed to list doctors: %+v", err)
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

// @Router /doctors/{id} [get]
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

// GetDoctorSlots returns the next seven days of open half-hour slots
// @Router /doctors/{id}/slots [get]
func (h *DoctorHandler) GetDoctorSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	slots, err := h.doctorUsecase.GetDoctorSlots(r.Context(), doctorID)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

// @Router /admin/doctors/{id}/availability [post]
func (h *DoctorHandler) ChangeAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	availability, err := h.doctorUsecase.ChangeAvailability(r.Context(), doctorID)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to change availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability changed", availability)
}

// @Router /doctor/profile [get]
func (h *DoctorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	doctor, err := h.doctorUsecase.GetProfile(r.Context(), doctorID)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", doctor)
}

// UpdateProfile reads a multipart form; the image part is optional
// @Summary Update own doctor profile
// @Tags Doctor
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctor/profile [put]
func (h *DoctorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid form data", nil)
		return
	}

	req := dto.UpdateDoctorProfileRequest{
		Speciality:   r.FormValue("speciality"),
		Degree:       r.FormValue("degree"),
		Experience:   r.FormValue("experience"),
		About:        r.FormValue("about"),
		Fees:         r.FormValue("fees"),
		AddressLine1: r.FormValue("address_line1"),
		AddressLine2: r.FormValue("address_line2"),
		Available:    r.FormValue("available"),
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

	doctor, err := h.doctorUsecase.UpdateProfile(r.Context(), doctorID, &req, image)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated", doctor)
}

func (h *DoctorHandler) writeDoctorError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrInvalidFees:
		response.BadRequest(w, "Fees must be greater than zero")
	case usecase.ErrInvalidAvailable:
		response.BadRequest(w, "Available must be true or false")
	case service.ErrUnsupportedImageType:
		response.BadRequest(w, "Image must be a JPEG, PNG or WebP file")
	default:
		h.log.Warnf("%s: %+v", fallback, err)
		response.InternalServerError(w, fallback)
	}
}
