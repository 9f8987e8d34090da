package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-doctor-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardUsecase_AdminDashboard(t *testing.T) {
	ctx := context.Background()
	db, _ := newMockDB(t)
	users := &mockUserRepository{}
	appointments := &mockAppointmentRepository{}
	uc := NewDashboardUsecase(db, newTestLogger(), users, appointments).(*dashboardUsecase)
	now := time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)
	uc.clock = func() time.Time { return now }

	doctor := uuid.New()
	ledger := []entity.Appointment{
		{ID: uuid.New(), DoctorID: doctor, Status: entity.AppointmentStatusPending, Amount: decimal.RequireFromString("10.10"), Payment: true, CreatedAt: now.Add(-time.Hour)},
		{ID: uuid.New(), DoctorID: doctor, Status: entity.AppointmentStatusCompleted, Amount: decimal.RequireFromString("20.20"), Payment: true, CreatedAt: now.Add(-26 * time.Hour)},
		{ID: uuid.New(), DoctorID: doctor, Status: entity.AppointmentStatusCancelled, Amount: decimal.RequireFromString("30"), CreatedAt: now.Add(-2 * time.Hour)},
	}
	appointments.On("FindAll", mock.Anything, mock.Anything).Return(ledger, nil)
	users.On("CountByRole", mock.Anything, mock.Anything, entity.RoleIDDoctor).Return(int64(4), nil)
	users.On("CountByRole", mock.Anything, mock.Anything, entity.RoleIDPatient).Return(int64(9), nil)

	res, err := uc.AdminDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalAppointments)
	assert.Equal(t, 1, res.TodaysAppointments)
	assert.Equal(t, int64(4), res.TotalDoctors)
	assert.Equal(t, int64(9), res.TotalPatients)
	assert.Equal(t, "30.3", res.TotalRevenue.String())
	assert.Equal(t, 3, res.StatusDistribution.Total())
	assert.Len(t, res.Last7Days, 7)
	assert.Len(t, res.RecentAppointments, 3)
	require.Len(t, res.TopDoctors, 1)
	assert.Equal(t, 2, res.TopDoctors[0].Appointments)
}

func TestDashboardUsecase_AdminDashboardFailsOnLoadError(t *testing.T) {
	db, _ := newMockDB(t)
	users := &mockUserRepository{}
	appointments := &mockAppointmentRepository{}
	uc := NewDashboardUsecase(db, newTestLogger(), users, appointments)

	appointments.On("FindAll", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
	users.On("CountByRole", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := uc.AdminDashboard(context.Background())
	assert.EqualError(t, err, "connection reset")
}

func TestDashboardUsecase_DoctorDashboard(t *testing.T) {
	db, _ := newMockDB(t)
	appointments := &mockAppointmentRepository{}
	uc := NewDashboardUsecase(db, newTestLogger(), &mockUserRepository{}, appointments)

	doctor, patient := uuid.New(), uuid.New()
	appointments.On("FindByDoctorID", mock.Anything, mock.Anything, doctor).Return([]entity.Appointment{
		{ID: uuid.New(), PatientID: patient, DoctorID: doctor, Status: entity.AppointmentStatusCompleted, Amount: decimal.NewFromInt(50)},
		{ID: uuid.New(), PatientID: patient, DoctorID: doctor, Status: entity.AppointmentStatusPending, Amount: decimal.NewFromInt(50)},
	}, nil)

	res, err := uc.DoctorDashboard(context.Background(), doctor)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(res.Earnings))
	assert.Equal(t, 2, res.Appointments)
	assert.Equal(t, 1, res.Patients)
	assert.Len(t, res.LatestAppointments, 2)
}
