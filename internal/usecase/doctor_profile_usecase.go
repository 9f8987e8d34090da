package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-doctor-appointment/internal/converter"
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/entity"
	"go-doctor-appointment/internal/domain/repository"
	"go-doctor-appointment/internal/domain/slot"
	"go-doctor-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDoctorEmailExists  = errors.New("email already exists")
	ErrDoctorRoleNotFound = errors.New("role not found")
	ErrInvalidFees        = errors.New("fees must be greater than zero")
	ErrImageRequired      = errors.New("image file is required")
	ErrInvalidAvailable   = errors.New("available must be true or false")
)

const doctorImageFolder = "doctors"

type DoctorProfileUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest, image *service.ImageUpload) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context, withEmail bool) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetDoctorSlots(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorSlotsResponse, error)
	ChangeAvailability(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityResponse, error)
	GetProfile(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest, image *service.ImageUpload) (*dto.DoctorResponse, error)
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	appointmentRepo   repository.AppointmentRepository
	auditService      service.AuditService
	imageStorage      service.ImageStorage
	clock             func() time.Time
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	imageStorage service.ImageStorage,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		appointmentRepo:   appointmentRepo,
		auditService:      auditService,
		imageStorage:      imageStorage,
		clock:             time.Now,
	}
}

// CreateDoctor uploads the image first, then creates user and profile in a single insert.
// New doctors start available.
func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest, image *service.ImageUpload) (*dto.DoctorResponse, error) {
	if image == nil {
		return nil, ErrImageRequired
	}

	fees, err := parseFees(req.Fees)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	imageURL, err := u.imageStorage.Upload(ctx, doctorImageFolder, *image)
	if err != nil {
		if !errors.Is(err, service.ErrUnsupportedImageType) {
			u.log.Warnf("Failed to upload doctor image: %+v", err)
		}
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctorProfile := &entity.DoctorProfile{
		Speciality: req.Speciality,
		Degree:     req.Degree,
		Experience: req.Experience,
		About:      req.About,
		Fees:       fees,
		Address:    entity.Address{Line1: req.AddressLine1, Line2: req.AddressLine2},
		Available:  true,
		User: entity.User{
			Email:    strings.ToLower(strings.TrimSpace(req.Email)),
			Password: string(hashedPassword),
			Name:     req.Name,
			Image:    imageURL,
			RoleID:   entity.RoleIDDoctor,
		},
	}
	if err := u.doctorProfileRepo.Create(ctx, tx, doctorProfile); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrDoctorRoleNotFound
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	response := converter.DoctorProfileToResponse(doctorProfile, nil, true)
	if err := u.auditService.LogCreate(ctx, tx, service.AdminActor(), entity.AuditActionDoctorCreate, "doctor_profile", doctorProfile.UserID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor %s added", doctorProfile.UserID)

	return response, nil
}

func (u *doctorProfileUsecase) ListDoctors(ctx context.Context, withEmail bool) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all doctor profiles: %+v", err)
		return nil, err
	}

	ids := make([]uuid.UUID, len(profiles))
	for i := range profiles {
		ids[i] = profiles[i].UserID
	}

	booked, err := u.bookedSlots(ctx, ids, "")
	if err != nil {
		return nil, err
	}

	doctors := converter.DoctorProfilesToResponses(profiles, booked, withEmail)

	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}, nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	return u.getDoctor(ctx, doctorID, false)
}

// GetDoctorSlots lists the open slots of the coming week
func (u *doctorProfileUsecase) GetDoctorSlots(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorSlotsResponse, error) {
	profile, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	now := u.clock()
	booked, err := u.bookedSlots(ctx, []uuid.UUID{doctorID}, now.Format(slot.DateLayout))
	if err != nil {
		return nil, err
	}

	return &dto.DoctorSlotsResponse{
		DoctorID:  doctorID,
		Available: profile.Available,
		Days:      slot.Generate(booked[doctorID], now),
	}, nil
}

func (u *doctorProfileUsecase) ChangeAvailability(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	previous := profile.Available
	available := profile.ToggleAvailability()

	if err := u.doctorProfileRepo.UpdateAvailability(ctx, tx, doctorID, available); err != nil {
		u.log.Warnf("Failed to update doctor availability: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, service.AdminActor(), entity.AuditActionDoctorAvailability, "doctor_profile", doctorID.String(),
		map[string]bool{"available": previous}, map[string]bool{"available": available}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.AvailabilityResponse{DoctorID: doctorID, Available: available}, nil
}

func (u *doctorProfileUsecase) GetProfile(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	return u.getDoctor(ctx, doctorID, true)
}

// UpdateProfile replaces the descriptive fields, fees, address and availability.
// The image is only replaced when a new one is uploaded.
func (u *doctorProfileUsecase) UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest, image *service.ImageUpload) (*dto.DoctorResponse, error) {
	fees, err := parseFees(req.Fees)
	if err != nil {
		return nil, err
	}

	available, err := strconv.ParseBool(req.Available)
	if err != nil {
		return nil, ErrInvalidAvailable
	}

	var imageURL string
	if image != nil {
		url, err := u.imageStorage.Upload(ctx, doctorImageFolder, *image)
		if err != nil {
			if !errors.Is(err, service.ErrUnsupportedImageType) {
				u.log.Warnf("Failed to upload doctor image: %+v", err)
			}
			return nil, err
		}
		imageURL = url
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	// Capture old value for audit
	oldValue := converter.DoctorProfileToResponse(profile, nil, true)

	profile.Speciality = req.Speciality
	profile.Degree = req.Degree
	profile.Experience = req.Experience
	profile.About = req.About
	profile.Fees = fees
	profile.Address = entity.Address{Line1: req.AddressLine1, Line2: req.AddressLine2}
	profile.Available = available

	if err := u.doctorProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	if imageURL != "" {
		profile.User.Image = imageURL
		if err := u.userRepo.Update(ctx, tx, &profile.User); err != nil {
			u.log.Warnf("Failed to update doctor image: %+v", err)
			return nil, err
		}
	}

	newValue := converter.DoctorProfileToResponse(profile, nil, true)
	actor := service.UserActor(doctorID, entity.RoleDoctor)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionDoctorUpdate, "doctor_profile", doctorID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.getDoctor(ctx, doctorID, true)
}

func (u *doctorProfileUsecase) getDoctor(ctx context.Context, doctorID uuid.UUID, withEmail bool) (*dto.DoctorResponse, error) {
	profile, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	booked, err := u.bookedSlots(ctx, []uuid.UUID{doctorID}, "")
	if err != nil {
		return nil, err
	}

	return converter.DoctorProfileToResponse(profile, booked[doctorID], withEmail), nil
}

func (u *doctorProfileUsecase) findDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	return profile, nil
}

// bookedSlots derives the booked slot map of each doctor from active appointments
func (u *doctorProfileUsecase) bookedSlots(ctx context.Context, doctorIDs []uuid.UUID, fromDate string) (map[uuid.UUID]slot.BookedSlots, error) {
	reservations, err := u.appointmentRepo.FindActiveSlots(ctx, u.db, doctorIDs, fromDate)
	if err != nil {
		u.log.Warnf("Failed to find booked slots: %+v", err)
		return nil, err
	}

	booked := make(map[uuid.UUID]slot.BookedSlots, len(doctorIDs))
	for _, id := range doctorIDs {
		booked[id] = slot.BookedSlots{}
	}
	for _, r := range reservations {
		booked[r.DoctorID].Add(r.SlotDate, r.SlotTime)
	}
	return booked, nil
}

func parseFees(raw string) (decimal.Decimal, error) {
	fees, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !fees.IsPositive() {
		return decimal.Zero, ErrInvalidFees
	}
	return fees.Round(2), nil
}
