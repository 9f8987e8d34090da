package middleware

import (
	"context"
	"net/http"

	"go-doctor-appointment/config"
	"go-doctor-appointment/internal/service"
	"go-doctor-appointment/pkg/jwt"
	"go-doctor-appointment/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const claimsKey contextKey = "claims"

// Token headers, one per caller kind
const (
	PatientTokenHeader = "token"
	DoctorTokenHeader  = "dtoken"
	AdminTokenHeader   = "atoken"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	denylist   service.TokenDenylist
	admin      config.AdminConfig
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, denylist service.TokenDenylist, admin config.AdminConfig, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		denylist:   denylist,
		admin:      admin,
		log:        log,
	}
}

func (m *AuthMiddleware) Patient(next http.Handler) http.Handler {
	return m.Authenticate(PatientTokenHeader, jwt.RolePatient)(next)
}

func (m *AuthMiddleware) Doctor(next http.Handler) http.Handler {
	return m.Authenticate(DoctorTokenHeader, jwt.RoleDoctor)(next)
}

func (m *AuthMiddleware) Admin(next http.Handler) http.Handler {
	return m.Authenticate(AdminTokenHeader, jwt.RoleAdmin)(next)
}

// Authenticate reads the raw token from header and requires it to be issued for role
func (m *AuthMiddleware) Authenticate(header string, role jwt.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get(header)
			if tokenString == "" {
				response.Unauthorized(w, "Not authorized. Login again.")
				return
			}

			claims, err := m.jwtService.ValidateToken(tokenString, role)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			// Admin tokens stay bound to the configured identity
			if role == jwt.RoleAdmin && (m.admin.Email == "" || claims.Email != m.admin.Email) {
				response.Unauthorized(w, "Not authorized. Login again.")
				return
			}

			revoked, err := m.denylist.IsRevoked(r.Context(), claims.TokenID)
			if err != nil {
				m.log.Warnf("Failed to check token denylist: %+v", err)
				response.InternalServerError(w, "Failed to validate token")
				return
			}
			if revoked {
				response.Unauthorized(w, "Token has been revoked")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext extracts the verified token claims from context
func GetClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*jwt.Claims)
	return claims, ok
}

// GetUserIDFromContext extracts the patient or doctor id from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := GetClaimsFromContext(ctx)
	if !ok || claims.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// WithClaims stores claims in ctx the same way Authenticate does
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
