package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-doctor-appointment/config"
	"go-doctor-appointment/pkg/jwt"
	"go-doctor-appointment/pkg/response"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDenylist struct {
	revoked map[string]bool
	err     error
}

func (d *fakeDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	d.revoked[tokenID] = true
	return nil
}

func (d *fakeDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return d.revoked[tokenID], d.err
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "middleware-secret",
		PatientExpiry: time.Hour,
		DoctorExpiry:  time.Hour,
		AdminExpiry:   time.Hour,
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// claimsEcho writes the authenticated identity back so tests can assert the context was populated
var claimsEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	response.Success(w, http.StatusOK, "ok", claims.Identity())
})

func TestAuthenticate(t *testing.T) {
	jwtService := newTestJWT()
	admin := config.AdminConfig{Email: "admin@clinic.test", Password: "secret-pass"}

	patientID := uuid.New()
	patientToken, _, err := jwtService.GeneratePatientToken(patientID)
	require.NoError(t, err)
	doctorToken, _, err := jwtService.GenerateDoctorToken(uuid.New())
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateAdminToken(admin.Email)
	require.NoError(t, err)
	staleAdminToken, _, err := jwtService.GenerateAdminToken("former@clinic.test")
	require.NoError(t, err)
	revokedToken, revokedClaims, err := jwtService.GeneratePatientToken(uuid.New())
	require.NoError(t, err)

	denylist := &fakeDenylist{revoked: map[string]bool{revokedClaims.TokenID: true}}
	m := NewAuthMiddleware(jwtService, denylist, admin, newTestLogger())

	tests := []struct {
		name       string
		guard      func(http.Handler) http.Handler
		header     string
		token      string
		wantStatus int
		wantMsg    string
		wantData   string
	}{
		{"missing patient token", m.Patient, PatientTokenHeader, "", http.StatusUnauthorized, "Not authorized. Login again.", ""},
		{"garbage token", m.Patient, PatientTokenHeader, "not-a-jwt", http.StatusUnauthorized, "Invalid or expired token", ""},
		{"patient ok", m.Patient, PatientTokenHeader, patientToken, http.StatusOK, "ok", patientID.String()},
		{"doctor token on patient route", m.Patient, PatientTokenHeader, doctorToken, http.StatusUnauthorized, "Invalid or expired token", ""},
		{"patient token in doctor header", m.Doctor, DoctorTokenHeader, patientToken, http.StatusUnauthorized, "Invalid or expired token", ""},
		{"patient token in wrong header", m.Patient, DoctorTokenHeader, patientToken, http.StatusUnauthorized, "Not authorized. Login again.", ""},
		{"admin ok", m.Admin, AdminTokenHeader, adminToken, http.StatusOK, "ok", admin.Email},
		{"admin email changed", m.Admin, AdminTokenHeader, staleAdminToken, http.StatusUnauthorized, "Not authorized. Login again.", ""},
		{"revoked", m.Patient, PatientTokenHeader, revokedToken, http.StatusUnauthorized, "Token has been revoked", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.Header.Set(tt.header, tt.token)
			}
			rec := httptest.NewRecorder()

			tt.guard(claimsEcho).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantMsg, body.Message)
			if tt.wantData != "" {
				assert.Equal(t, tt.wantData, body.Data)
			}
		})
	}
}

func TestAuthenticate_DenylistUnavailable(t *testing.T) {
	jwtService := newTestJWT()
	token, _, err := jwtService.GenerateDoctorToken(uuid.New())
	require.NoError(t, err)

	denylist := &fakeDenylist{revoked: map[string]bool{}, err: errors.New("redis down")}
	m := NewAuthMiddleware(jwtService, denylist, config.AdminConfig{}, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DoctorTokenHeader, token)
	rec := httptest.NewRecorder()

	m.Doctor(claimsEcho).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthenticate_AdminWithoutConfiguredEmail(t *testing.T) {
	jwtService := newTestJWT()
	token, _, err := jwtService.GenerateAdminToken("admin@clinic.test")
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtService, &fakeDenylist{revoked: map[string]bool{}}, config.AdminConfig{}, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(AdminTokenHeader, token)
	rec := httptest.NewRecorder()

	m.Admin(claimsEcho).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDFromContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	adminCtx := WithClaims(context.Background(), &jwt.Claims{Role: jwt.RoleAdmin, Email: "admin@clinic.test"})
	_, ok = GetUserIDFromContext(adminCtx)
	assert.False(t, ok)

	id := uuid.New()
	got, ok := GetUserIDFromContext(WithClaims(context.Background(), &jwt.Claims{Role: jwt.RolePatient, UserID: id}))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
