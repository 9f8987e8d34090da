package service

import (
	"context"

	"go-doctor-appointment/internal/domain/entity"
	"go-doctor-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Actor identifies who performed an audited action.
// The administrator has no user row, so UserID is nil for admin actions.
type Actor struct {
	UserID *uuid.UUID
	Role   string
}

func AdminActor() Actor {
	return Actor{Role: "admin"}
}

func UserActor(userID uuid.UUID, role string) Actor {
	return Actor{UserID: &userID, Role: role}
}

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor Actor, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor Actor, action string, entityName string, entityID string, oldValue, newValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor Actor, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor Actor, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": newValue,
	})
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, actor Actor, action string, metadata entity.JSON) error {
	metadata["actor"] = actor.Role

	auditLog := &entity.AuditLog{
		UserID:   actor.UserID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log %s: %+v", action, err)
		return err
	}

	return nil
}
