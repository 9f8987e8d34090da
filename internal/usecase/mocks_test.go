package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"go-doctor-appointment/internal/domain/entity"
	"go-doctor-appointment/internal/domain/repository"
	"go-doctor-appointment/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB returns a gorm DB whose transactions are checked by sqlmock.
// Repositories are mocked, so only BEGIN, COMMIT and ROLLBACK reach the driver.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, sqlMock
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// --- repositories ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	args := m.Called(ctx, db, user)
	if args.Error(0) == nil && user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(ctx, db, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, db, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return m.Called(ctx, db, user).Error(0)
}

func (m *mockUserRepository) CountByRole(ctx context.Context, db *gorm.DB, roleID int) (int64, error) {
	args := m.Called(ctx, db, roleID)
	return args.Get(0).(int64), args.Error(1)
}

type mockDoctorProfileRepository struct {
	mock.Mock
}

func (m *mockDoctorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	args := m.Called(ctx, db, profile)
	if args.Error(0) == nil && profile.UserID == uuid.Nil {
		profile.UserID = uuid.New()
		profile.User.ID = profile.UserID
	}
	return args.Error(0)
}

func (m *mockDoctorProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	args := m.Called(ctx, db, userID)
	profile, _ := args.Get(0).(*entity.DoctorProfile)
	return profile, args.Error(1)
}

func (m *mockDoctorProfileRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.DoctorProfile, error) {
	args := m.Called(ctx, db)
	profiles, _ := args.Get(0).([]entity.DoctorProfile)
	return profiles, args.Error(1)
}

func (m *mockDoctorProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return m.Called(ctx, db, profile).Error(0)
}

func (m *mockDoctorProfileRepository) UpdateAvailability(ctx context.Context, db *gorm.DB, userID uuid.UUID, available bool) error {
	return m.Called(ctx, db, userID, available).Error(0)
}

type mockPatientProfileRepository struct {
	mock.Mock
}

func (m *mockPatientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return m.Called(ctx, db, profile).Error(0)
}

func (m *mockPatientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	args := m.Called(ctx, db, userID)
	profile, _ := args.Get(0).(*entity.PatientProfile)
	return profile, args.Error(1)
}

func (m *mockPatientProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return m.Called(ctx, db, profile).Error(0)
}

type mockAppointmentRepository struct {
	mock.Mock
}

func (m *mockAppointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(ctx, db, appointment)
	if args.Error(0) == nil && appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAppointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(ctx, db, id)
	appointment, _ := args.Get(0).(*entity.Appointment)
	return appointment, args.Error(1)
}

func (m *mockAppointmentRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(ctx, db, patientID)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(ctx, db, doctorID)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Appointment, error) {
	args := m.Called(ctx, db)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepository) ExistsActiveSlot(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, slotDate, slotTime string) (bool, error) {
	args := m.Called(ctx, db, doctorID, slotDate, slotTime)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentRepository) FindActiveSlots(ctx context.Context, db *gorm.DB, doctorIDs []uuid.UUID, fromDate string) ([]repository.SlotReservation, error) {
	args := m.Called(ctx, db, doctorIDs, fromDate)
	reservations, _ := args.Get(0).([]repository.SlotReservation)
	return reservations, args.Error(1)
}

func (m *mockAppointmentRepository) TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	args := m.Called(ctx, db, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepository) SetPaymentOrder(ctx context.Context, db *gorm.DB, id uuid.UUID, orderID string) error {
	return m.Called(ctx, db, id, orderID).Error(0)
}

func (m *mockAppointmentRepository) MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID, paidAt time.Time) (int64, error) {
	args := m.Called(ctx, db, id, paidAt)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return m.Called(ctx, db, log).Error(0)
}

func (m *mockAuditLogRepository) FindAll(ctx context.Context, db *gorm.DB, limit int) ([]entity.AuditLog, error) {
	args := m.Called(ctx, db, limit)
	logs, _ := args.Get(0).([]entity.AuditLog)
	return logs, args.Error(1)
}

func (m *mockAuditLogRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(ctx, db, id)
	log, _ := args.Get(0).(*entity.AuditLog)
	return log, args.Error(1)
}

// --- services ---

type mockAuditService struct {
	mock.Mock
}

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, actor service.Actor, action string, entityName string, entityID string, newValue interface{}) error {
	return m.Called(ctx, tx, actor, action, entityName, entityID, newValue).Error(0)
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor service.Actor, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, tx, actor, action, entityName, entityID, oldValue, newValue).Error(0)
}

type mockTokenDenylist struct {
	mock.Mock
}

func (m *mockTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *mockTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) Reserve(ctx context.Context, scope, key string) (string, error) {
	args := m.Called(ctx, scope, key)
	return args.String(0), args.Error(1)
}

func (m *mockIdempotencyStore) Complete(ctx context.Context, scope, key, result string) error {
	return m.Called(ctx, scope, key, result).Error(0)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, scope, key string) error {
	return m.Called(ctx, scope, key).Error(0)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, event service.AppointmentEvent) error {
	return m.Called(ctx, event).Error(0)
}

type mockImageStorage struct {
	mock.Mock
}

func (m *mockImageStorage) Upload(ctx context.Context, folder string, image service.ImageUpload) (string, error) {
	args := m.Called(ctx, folder, image)
	return args.String(0), args.Error(1)
}

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*service.PaymentOrder, error) {
	args := m.Called(ctx, amount, currency, receipt)
	order, _ := args.Get(0).(*service.PaymentOrder)
	return order, args.Error(1)
}

func (m *mockPaymentGateway) FetchOrder(ctx context.Context, orderID string) (*service.PaymentOrder, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*service.PaymentOrder)
	return order, args.Error(1)
}

func gojwtDate(t time.Time) *gojwt.NumericDate {
	return gojwt.NewNumericDate(t)
}
