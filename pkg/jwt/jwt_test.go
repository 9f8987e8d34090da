package jwt

import (
	"testing"
	"time"

	"go-doctor-appointment/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		PatientExpiry: 7 * 24 * time.Hour,
		DoctorExpiry:  7 * 24 * time.Hour,
		AdminExpiry:   time.Hour,
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, issued, err := svc.GeneratePatientToken(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	claims, err := svc.ValidateToken(token, RolePatient)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RolePatient, claims.Role)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.Equal(t, userID.String(), claims.Identity())
}

func TestValidateToken_RoleMismatch(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateDoctorToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token, RolePatient)
	assert.ErrorIs(t, err, ErrRoleMismatch)
}

func TestValidateToken_AdminCarriesEmail(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateAdminToken("admin@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, uuid.Nil, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Identity())
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService()
	issuedAt := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, issued, err := svc.GenerateAdminToken("admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, issued.TTL(issuedAt))

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token, RoleAdmin)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _, err := newTestService().GeneratePatientToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "other", PatientExpiry: time.Hour})
	_, err = other.ValidateToken(token, RolePatient)
	assert.Error(t, err)
}

func TestValidateToken_RejectsClaimWithoutIdentity(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.generate(Claims{Role: RolePatient})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token, RolePatient)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
