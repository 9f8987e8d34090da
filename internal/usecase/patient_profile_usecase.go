package usecase

import (
	"context"
	"errors"

	"go-doctor-appointment/internal/converter"
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/entity"
	"go-doctor-appointment/internal/domain/repository"
	"go-doctor-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound = errors.New("patient profile not found")
)

const patientImageFolder = "patients"

type PatientProfileUsecase interface {
	GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientProfileResponse, error)
	UpdateProfile(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientProfileRequest, image *service.ImageUpload) (*dto.PatientProfileResponse, error)
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	imageStorage       service.ImageStorage
	defaultAvatarURL   string
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	imageStorage service.ImageStorage,
	defaultAvatarURL string,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		imageStorage:       imageStorage,
		defaultAvatarURL:   defaultAvatarURL,
	}
}

func (u *patientProfileUsecase) GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientProfileResponse, error) {
	user, profile, err := u.load(ctx, u.db, patientID)
	if err != nil {
		return nil, err
	}

	return converter.PatientProfileToResponse(user, profile, u.defaultAvatarURL), nil
}

// UpdateProfile replaces name, phone, dob and gender. The address is kept when both
// lines are empty, and the image is only replaced when a new one is uploaded.
func (u *patientProfileUsecase) UpdateProfile(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientProfileRequest, image *service.ImageUpload) (*dto.PatientProfileResponse, error) {
	var imageURL string
	if image != nil {
		url, err := u.imageStorage.Upload(ctx, patientImageFolder, *image)
		if err != nil {
			if !errors.Is(err, service.ErrUnsupportedImageType) {
				u.log.Warnf("Failed to upload patient image: %+v", err)
			}
			return nil, err
		}
		imageURL = url
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, profile, err := u.load(ctx, tx, patientID)
	if err != nil {
		return nil, err
	}

	// Capture old value for audit
	oldValue := converter.PatientProfileToResponse(user, profile, u.defaultAvatarURL)

	user.Name = req.Name
	if imageURL != "" {
		user.Image = imageURL
	}
	profile.PhoneNumber = req.Phone
	if req.AddressLine1 != "" || req.AddressLine2 != "" {
		profile.Address = entity.Address{Line1: req.AddressLine1, Line2: req.AddressLine2}
	}
	profile.DateOfBirth = req.DateOfBirth
	profile.Gender = req.Gender

	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	if err := u.patientProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	newValue := converter.PatientProfileToResponse(user, profile, u.defaultAvatarURL)
	actor := service.UserActor(patientID, entity.RolePatient)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionProfileUpdate, "patient_profile", patientID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *patientProfileUsecase) load(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (*entity.User, *entity.PatientProfile, error) {
	user, err := u.userRepo.FindByID(ctx, db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, nil, err
	}
	if user == nil || !user.IsPatient() {
		return nil, nil, ErrUserNotFound
	}

	profile, err := u.patientProfileRepo.FindByUserID(ctx, db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, ErrPatientNotFound
	}

	return user, profile, nil
}
