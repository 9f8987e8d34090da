package usecase

import (
	"context"
	"time"

	"go-doctor-appointment/internal/converter"
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/analytics"
	"go-doctor-appointment/internal/domain/entity"
	"go-doctor-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

type DashboardUsecase interface {
	AdminDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
	DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDashboardResponse, error)
}

type dashboardUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	clock           func() time.Time
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		clock:           time.Now,
	}
}

// AdminDashboard loads the ledger and the user counts concurrently, then reduces them.
// Nothing is cached; every call reflects the current ledger.
func (u *dashboardUsecase) AdminDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	var (
		appointments  []entity.Appointment
		totalDoctors  int64
		totalPatients int64
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		appointments, err = u.appointmentRepo.FindAll(ctx, u.db)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		totalDoctors, err = u.userRepo.CountByRole(ctx, u.db, entity.RoleIDDoctor)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		totalPatients, err = u.userRepo.CountByRole(ctx, u.db, entity.RoleIDPatient)
		return err
	})

	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to load admin dashboard: %+v", err)
		return nil, err
	}

	summary := analytics.Summarize(appointments, u.clock())

	return converter.SummaryToAdminDashboard(summary, totalDoctors, totalPatients), nil
}

func (u *dashboardUsecase) DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDashboardResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return converter.DoctorSummaryToDashboard(analytics.SummarizeDoctor(appointments)), nil
}
