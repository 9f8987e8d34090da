package repository

import (
	"context"
	"errors"
	"time"

	"go-doctor-appointment/internal/domain/entity"
	domainRepo "go-doctor-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).Order("created_at DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) ExistsActiveSlot(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, slotDate, slotTime string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND slot_date = ? AND slot_time = ? AND status <> ?",
			doctorID, slotDate, slotTime, entity.AppointmentStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *appointmentRepository) FindActiveSlots(ctx context.Context, db *gorm.DB, doctorIDs []uuid.UUID, fromDate string) ([]domainRepo.SlotReservation, error) {
	var reservations []domainRepo.SlotReservation
	if len(doctorIDs) == 0 {
		return reservations, nil
	}
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Select("doctor_id, slot_date, slot_time").
		Where("doctor_id IN ? AND slot_date >= ? AND status <> ?", doctorIDs, fromDate, entity.AppointmentStatusCancelled).
		Order("slot_date ASC, created_at ASC").
		Scan(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// TransitionStatus updates the status only when the row is still in the expected one,
// so two concurrent transitions cannot both succeed.
func (r *appointmentRepository) TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) SetPaymentOrder(ctx context.Context, db *gorm.DB, id uuid.UUID, orderID string) error {
	return db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("payment_order_id", orderID).Error
}

func (r *appointmentRepository) MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID, paidAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND payment = ?", id, false).
		Updates(map[string]interface{}{"payment": true, "paid_at": paidAt})
	return result.RowsAffected, result.Error
}
