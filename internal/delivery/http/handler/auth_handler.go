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
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	log         *logrus.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		log:         log,
	}
}

// RegisterPatient handles patient sign up
// @Summary Register a new patient
// @Tags Patient
// @Accept json
// @Produce json
// @Param request body dto.RegisterPatientRequest true "Register Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /user/register [post]
func (h *AuthHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.authUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.Conflict(w, "Email already exists")
		default:
			h.log.Warnf("Failed to register patient: %+v", err)
			response.InternalServerError(w, "Failed to register user")
		}
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", token)
}

// LoginPatient handles patient login
// @Summary Login patient
// @Tags Patient
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /user/login [post]
func (h *AuthHandler) LoginPatient(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authUsecase.LoginPatient)
}

// LoginDoctor handles doctor login
// @Router /doctor/login [post]
func (h *AuthHandler) LoginDoctor(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authUsecase.LoginDoctor)
}

// LoginAdmin checks the configured administrator credentials
// @Router /admin/login [post]
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authUsecase.LoginAdmin)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, login func(context.Context, *dto.LoginRequest) (*dto.TokenResponse, error)) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.Error(w, http.StatusUnauthorized, "User not found", nil)
		case usecase.ErrInvalidCredentials:
			response.Error(w, http.StatusUnauthorized, "Invalid credentials", nil)
		default:
			h.log.Warnf("Failed to login: %+v", err)
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", token)
}

// Logout revokes the token the request was authenticated with
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	if err := h.authUsecase.Logout(r.Context(), claims); err != nil {
		h.log.Warnf("Failed to logout: %+v", err)
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logged out successfully", nil)
}
