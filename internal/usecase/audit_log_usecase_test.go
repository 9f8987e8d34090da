package usecase

import (
	"context"
	"testing"

	"go-doctor-appointment/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_GetAllAuditLogsClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: DefaultAuditLogLimit},
		{name: "as given", limit: 20, want: 20},
		{name: "clamped", limit: 10000, want: MaxAuditLogLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newMockDB(t)
			repo := &mockAuditLogRepository{}
			uc := NewAuditLogUsecase(db, newTestLogger(), repo)
			repo.On("FindAll", mock.Anything, mock.Anything, tt.want).Return([]entity.AuditLog{
				{ID: 2, Action: entity.AuditActionAppointmentCancel, Metadata: entity.JSON{"actor": "admin"}},
				{ID: 1, Action: entity.AuditActionAppointmentBook},
			}, nil)

			res, err := uc.GetAllAuditLogs(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, 2, res.Total)
			assert.Nil(t, res.Logs[0].User)
		})
	}
}

func TestAuditLogUsecase_GetAuditLogNotFound(t *testing.T) {
	db, _ := newMockDB(t)
	repo := &mockAuditLogRepository{}
	uc := NewAuditLogUsecase(db, newTestLogger(), repo)
	repo.On("FindByID", mock.Anything, mock.Anything, int64(42)).Return(nil, nil)

	_, err := uc.GetAuditLog(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
