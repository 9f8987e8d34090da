package http

import (
	"net/http"

	"go-doctor-appointment/config"
	"go-doctor-appointment/internal/delivery/http/handler"
	"go-doctor-appointment/internal/delivery/http/middleware"
	"go-doctor-appointment/pkg/response"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	patientHandler     *handler.PatientHandler
	appointmentHandler *handler.AppointmentHandler
	paymentHandler     *handler.PaymentHandler
	dashboardHandler   *handler.DashboardHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	requestMiddleware  *middleware.RequestMiddleware
	rateLimit          config.RateLimitConfig
	gatherer           prometheus.Gatherer
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	appointmentHandler *handler.AppointmentHandler,
	paymentHandler *handler.PaymentHandler,
	dashboardHandler *handler.DashboardHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	requestMiddleware *middleware.RequestMiddleware,
	rateLimit config.RateLimitConfig,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		doctorHandler:      doctorHandler,
		patientHandler:     patientHandler,
		appointmentHandler: appointmentHandler,
		paymentHandler:     paymentHandler,
		dashboardHandler:   dashboardHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		requestMiddleware:  requestMiddleware,
		rateLimit:          rateLimit,
		gatherer:           gatherer,
	}
}

func (r *Router) Setup() http.Handler {
	r.router.Use(r.requestMiddleware.Handle)
	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.router.MethodNotAllowedHandler = methodNotAllowed

	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// API versioning
	api := r.subrouter(r.router, "/api/v1")

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	loginLimit := middleware.LoginRateLimit(r.rateLimit.LoginRequests, r.rateLimit.LoginWindow)

	// Patient routes
	user := r.subrouter(api, "/user")
	user.HandleFunc("/register", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	user.Handle("/login", loginLimit(http.HandlerFunc(r.authHandler.LoginPatient))).Methods(http.MethodPost)

	userProtected := r.subrouter(api, "/user")
	userProtected.Use(r.authMiddleware.Patient)
	userProtected.HandleFunc("/profile", r.patientHandler.GetProfile).Methods(http.MethodGet)
	userProtected.HandleFunc("/profile", r.patientHandler.UpdateProfile).Methods(http.MethodPut)
	userProtected.HandleFunc("/appointments", r.appointmentHandler.Book).Methods(http.MethodPost)
	userProtected.HandleFunc("/appointments", r.appointmentHandler.ListForPatient).Methods(http.MethodGet)
	userProtected.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelByPatient).Methods(http.MethodPost)
	userProtected.HandleFunc("/payments/order", r.paymentHandler.CreateOrder).Methods(http.MethodPost)
	userProtected.HandleFunc("/payments/verify", r.paymentHandler.Verify).Methods(http.MethodPost)
	userProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Doctor routes
	doctor := r.subrouter(api, "/doctor")
	doctor.Handle("/login", loginLimit(http.HandlerFunc(r.authHandler.LoginDoctor))).Methods(http.MethodPost)

	doctorProtected := r.subrouter(api, "/doctor")
	doctorProtected.Use(r.authMiddleware.Doctor)
	doctorProtected.HandleFunc("/appointments", r.appointmentHandler.ListForDoctor).Methods(http.MethodGet)
	doctorProtected.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)
	doctorProtected.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelByDoctor).Methods(http.MethodPost)
	doctorProtected.HandleFunc("/dashboard", r.dashboardHandler.DoctorDashboard).Methods(http.MethodGet)
	doctorProtected.HandleFunc("/profile", r.doctorHandler.GetProfile).Methods(http.MethodGet)
	doctorProtected.HandleFunc("/profile", r.doctorHandler.UpdateProfile).Methods(http.MethodPut)
	doctorProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Admin routes
	admin := r.subrouter(api, "/admin")
	admin.Handle("/login", loginLimit(http.HandlerFunc(r.authHandler.LoginAdmin))).Methods(http.MethodPost)

	adminProtected := r.subrouter(api, "/admin")
	adminProtected.Use(r.authMiddleware.Admin)
	adminProtected.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	adminProtected.HandleFunc("/doctors", r.doctorHandler.ListDoctorsForAdmin).Methods(http.MethodGet)
	adminProtected.HandleFunc("/doctors/{id}/availability", r.doctorHandler.ChangeAvailability).Methods(http.MethodPost)
	adminProtected.HandleFunc("/appointments", r.appointmentHandler.ListAll).Methods(http.MethodGet)
	adminProtected.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelByAdmin).Methods(http.MethodPost)
	adminProtected.HandleFunc("/dashboard", r.dashboardHandler.AdminDashboard).Methods(http.MethodGet)
	adminProtected.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	adminProtected.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)
	adminProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Doctor directory (public); must follow the /doctor subrouters, whose prefix also matches /doctors
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/slots", r.doctorHandler.GetDoctorSlots).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests are answered before route matching
	return r.corsMiddleware.Handle(r.router)
}

// subrouter answers a method mismatch itself, since a later sibling with the same
// prefix clears the mismatch
func (r *Router) subrouter(parent *mux.Router, prefix string) *mux.Router {
	sub := parent.PathPrefix(prefix).Subrouter()
	sub.MethodNotAllowedHandler = methodNotAllowed
	return sub
}

var methodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	response.MethodNotAllowed(w, "Method not allowed")
})

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}
