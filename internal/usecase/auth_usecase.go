package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go-doctor-appointment/config"
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/entity"
	"go-doctor-appointment/internal/domain/repository"
	"go-doctor-appointment/internal/service"
	"go-doctor-appointment/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.TokenResponse, error)
	LoginPatient(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	LoginDoctor(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	denylist           service.TokenDenylist
	admin              config.AdminConfig
	clock              func() time.Time
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	denylist service.TokenDenylist,
	admin config.AdminConfig,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		jwtService:         jwtService,
		denylist:           denylist,
		admin:              admin,
		clock:              time.Now,
	}
}

// RegisterPatient creates the user and a profile filled with sentinel defaults, then signs the patient in
func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := u.userRepo.FindByEmail(ctx, u.db, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     req.Name,
		RoleID:   entity.RoleIDPatient,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := u.patientProfileRepo.Create(ctx, tx, entity.NewPatientProfile(user.ID)); err != nil {
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	actor := service.UserActor(user.ID, entity.RolePatient)
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionPatientRegister, "user", user.ID.String(), map[string]string{"email": user.Email, "name": user.Name}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient %s registered", user.ID)

	return u.issue(u.jwtService.GeneratePatientToken(user.ID))
}

func (u *authUsecase) LoginPatient(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsPatient() {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issue(u.jwtService.GeneratePatientToken(user.ID))
}

// LoginDoctor does not reveal whether the email exists
func (u *authUsecase) LoginDoctor(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsDoctor() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issue(u.jwtService.GenerateDoctorToken(user.ID))
}

// LoginAdmin checks the credentials against the configured administrator
func (u *authUsecase) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if u.admin.Email == "" || u.admin.Password == "" {
		u.log.Warn("Admin login attempted but no admin credentials are configured")
		return nil, ErrInvalidCredentials
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(strings.ToLower(req.Email)), []byte(strings.ToLower(u.admin.Email)))
	passwordMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(u.admin.Password))
	if emailMatch&passwordMatch != 1 {
		return nil, ErrInvalidCredentials
	}

	return u.issue(u.jwtService.GenerateAdminToken(u.admin.Email))
}

// Logout denylists the token until it would have expired anyway
func (u *authUsecase) Logout(ctx context.Context, claims *jwt.Claims) error {
	ttl := claims.TTL(u.clock())
	if ttl <= 0 {
		return nil
	}

	if err := u.denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		u.log.Warnf("Failed to revoke token %s: %+v", claims.TokenID, err)
		return err
	}

	return nil
}

func (u *authUsecase) issue(token string, claims *jwt.Claims, err error) (*dto.TokenResponse, error) {
	if err != nil {
		u.log.Warnf("Failed to generate token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     token,
		Role:      string(claims.Role),
		ExpiresIn: int64(u.jwtService.ExpiryFor(claims.Role).Seconds()),
	}, nil
}
