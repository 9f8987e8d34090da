package jwt

import (
	"errors"
	"time"

	"go-doctor-appointment/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role tags which caller a token identifies
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRoleMismatch = errors.New("token role mismatch")
)

// Claims is a tagged variant: patient and doctor tokens carry UserID,
// admin tokens carry Email.
type Claims struct {
	Role    Role      `json:"role"`
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email,omitempty"`
	TokenID string    `json:"token_id"`
	jwt.RegisteredClaims
}

// Identity returns the identity the claim was issued for
func (c *Claims) Identity() string {
	if c.Role == RoleAdmin {
		return c.Email
	}
	return c.UserID.String()
}

// TTL returns the remaining lifetime of the token at now
func (c *Claims) TTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

func (c *Claims) valid() bool {
	switch c.Role {
	case RolePatient, RoleDoctor:
		return c.UserID != uuid.Nil
	case RoleAdmin:
		return c.Email != ""
	default:
		return false
	}
}

type JWTService struct {
	config config.JWTConfig
	now    func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{config: cfg, now: time.Now}
}

func (s *JWTService) GeneratePatientToken(userID uuid.UUID) (string, *Claims, error) {
	return s.generate(Claims{Role: RolePatient, UserID: userID})
}

func (s *JWTService) GenerateDoctorToken(userID uuid.UUID) (string, *Claims, error) {
	return s.generate(Claims{Role: RoleDoctor, UserID: userID})
}

func (s *JWTService) GenerateAdminToken(email string) (string, *Claims, error) {
	return s.generate(Claims{Role: RoleAdmin, Email: email})
}

func (s *JWTService) generate(claims Claims) (string, *Claims, error) {
	now := s.now()
	claims.TokenID = uuid.New().String()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        claims.TokenID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ExpiryFor(claims.Role))),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", nil, err
	}

	return signedToken, &claims, nil
}

// ValidateToken verifies signature and expiry, then checks the token was issued for the expected role
func (s *JWTService) ValidateToken(tokenString string, expected Role) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.valid() {
		return nil, ErrInvalidToken
	}

	if claims.Role != expected {
		return nil, ErrRoleMismatch
	}

	return claims, nil
}

func (s *JWTService) ExpiryFor(role Role) time.Duration {
	switch role {
	case RoleAdmin:
		return s.config.AdminExpiry
	case RoleDoctor:
		return s.config.DoctorExpiry
	default:
		return s.config.PatientExpiry
	}
}
