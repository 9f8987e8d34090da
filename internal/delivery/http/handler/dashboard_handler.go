package handler

import (
	"net/http"

	"go-doctor-appointment/internal/delivery/http/middleware"
	"go-doctor-appointment/internal/usecase"
	"go-doctor-appointment/pkg/response"

	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
	log              *logrus.Logger
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase, log *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
		log:              log,
	}
}

// AdminDashboard is recomputed from the full ledger on every call
// @Router /admin/dashboard [get]
func (h *DashboardHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardUsecase.AdminDashboard(r.Context())
	if err != nil {
		h.log.Warnf("Failed to build admin dashboard: %+v", err)
		response.InternalServerError(w, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

// @Router /doctor/dashboard [get]
func (h *DashboardHandler) DoctorDashboard(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	dashboard, err := h.dashboardUsecase.DoctorDashboard(r.Context(), doctorID)
	if err != nil {
		h.log.Warnf("Failed to build doctor dashboard: %+v", err)
		response.InternalServerError(w, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}
