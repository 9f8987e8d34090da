package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"go-doctor-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingAuditRepo struct {
	logs []*entity.AuditLog
	err  error
}

func (r *recordingAuditRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, log)
	return nil
}

func (r *recordingAuditRepo) FindAll(ctx context.Context, db *gorm.DB, limit int) ([]entity.AuditLog, error) {
	return nil, nil
}

func (r *recordingAuditRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	return nil, nil
}

func newDiscardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAuditService_LogUpdate(t *testing.T) {
	repo := &recordingAuditRepo{}
	svc := NewAuditService(newDiscardLogger(), repo)
	patientID := uuid.New()

	err := svc.LogUpdate(context.Background(), nil, UserActor(patientID, "patient"), "CANCEL_APPOINTMENT",
		"appointment", "a-1", map[string]string{"status": "pending"}, map[string]string{"status": "cancelled"})

	require.NoError(t, err)
	require.Len(t, repo.logs, 1)
	entry := repo.logs[0]
	require.NotNil(t, entry.UserID)
	assert.Equal(t, patientID, *entry.UserID)
	assert.Equal(t, "CANCEL_APPOINTMENT", entry.Action)
	assert.Equal(t, "patient", entry.Metadata["actor"])
	assert.Equal(t, "a-1", entry.Metadata["entity_id"])
}

func TestAuditService_AdminHasNoUser(t *testing.T) {
	repo := &recordingAuditRepo{}
	svc := NewAuditService(newDiscardLogger(), repo)

	err := svc.LogCreate(context.Background(), nil, AdminActor(), "CREATE_DOCTOR", "doctor", "d-1", nil)

	require.NoError(t, err)
	require.Len(t, repo.logs, 1)
	assert.Nil(t, repo.logs[0].UserID)
	assert.Equal(t, "admin", repo.logs[0].Metadata["actor"])
	assert.Nil(t, repo.logs[0].Metadata["old_value"])
}

func TestAuditService_PropagatesFailure(t *testing.T) {
	repo := &recordingAuditRepo{err: errors.New("insert failed")}
	svc := NewAuditService(newDiscardLogger(), repo)

	err := svc.LogCreate(context.Background(), nil, AdminActor(), "CREATE_DOCTOR", "doctor", "d-1", nil)

	assert.Error(t, err)
}

type countingRecorder struct{ events []string }

func (r *countingRecorder) RecordAppointmentEvent(eventType string) {
	r.events = append(r.events, eventType)
}

func TestLogEventPublisher(t *testing.T) {
	recorder := &countingRecorder{}
	publisher := NewLogEventPublisher(recorder, newDiscardLogger())

	err := publisher.Publish(context.Background(), AppointmentEvent{Type: EventAppointmentBooked, AppointmentID: uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, []string{EventAppointmentBooked}, recorder.events)
}

func TestIdempotencyRedisKey(t *testing.T) {
	assert.Equal(t, "idempotency:book:p-1:k-1", idempotencyRedisKey("book:p-1", "k-1"))
}
