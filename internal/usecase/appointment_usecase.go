package usecase

import (
	"context"
	"errors"
	"time"

	"go-doctor-appointment/internal/converter"
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/entity"
	"go-doctor-appointment/internal/domain/repository"
	"go-doctor-appointment/internal/domain/slot"
	"go-doctor-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentNotOwned  = errors.New("appointment does not belong to you")
	ErrAppointmentCompleted = errors.New("appointment is already completed")
	ErrAppointmentCancelled = errors.New("appointment is cancelled")
	ErrAppointmentChanged   = errors.New("appointment was modified concurrently")
	ErrDoctorUnavailable    = errors.New("doctor is not available")
	ErrSlotUnavailable      = errors.New("slot is not available")
	ErrInvalidSlot          = errors.New("invalid slot date or time")
	ErrBookingInProgress    = errors.New("booking with this idempotency key is in progress")
)

// activeSlotConstraint is the partial unique index over non-cancelled appointments
const activeSlotConstraint = "uq_appointments_active_slot"

type AppointmentUsecase interface {
	Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest, idempotencyKey string) (*dto.AppointmentResponse, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListAll(ctx context.Context) (*dto.AppointmentListResponse, error)
	CancelByPatient(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	CancelByDoctor(ctx context.Context, doctorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	CancelByAdmin(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, doctorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	appointmentRepo    repository.AppointmentRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	idempotency        service.IdempotencyStore
	publisher          service.EventPublisher
	clock              func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	idempotency service.IdempotencyStore,
	publisher service.EventPublisher,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		appointmentRepo:    appointmentRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		idempotency:        idempotency,
		publisher:          publisher,
		clock:              time.Now,
	}
}

// Book reserves a slot for the patient.
//
// A request carrying an idempotency key is executed at most once per patient and key:
// a retry returns the appointment booked by the first request.
func (u *appointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest, idempotencyKey string) (*dto.AppointmentResponse, error) {
	if idempotencyKey == "" {
		appointment, err := u.book(ctx, patientID, req)
		if err != nil {
			return nil, err
		}
		return converter.AppointmentToResponse(appointment), nil
	}

	scope := patientID.String()
	stored, err := u.idempotency.Reserve(ctx, scope, idempotencyKey)
	if errors.Is(err, service.ErrIdempotencyInFlight) {
		return nil, ErrBookingInProgress
	}
	if err != nil {
		return nil, err
	}
	if stored != "" {
		return u.replay(ctx, patientID, stored)
	}

	appointment, err := u.book(ctx, patientID, req)
	if err != nil {
		if releaseErr := u.idempotency.Release(context.WithoutCancel(ctx), scope, idempotencyKey); releaseErr != nil {
			u.log.Errorf("Failed to release idempotency key for patient %s: %+v", patientID, releaseErr)
		}
		return nil, err
	}

	if err := u.idempotency.Complete(context.WithoutCancel(ctx), scope, idempotencyKey, appointment.ID.String()); err != nil {
		u.log.Errorf("Failed to store idempotency result for appointment %s: %+v", appointment.ID, err)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// book checks, in order: slot format, patient, doctor, availability, free slot.
// The insert itself is the final arbiter: a concurrent booking of the same slot
// violates the active slot index and is reported as an unavailable slot.
func (u *appointmentUsecase) book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*entity.Appointment, error) {
	if !slot.ValidDate(req.SlotDate) || !slot.ValidTime(req.SlotTime) {
		return nil, ErrInvalidSlot
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Available {
		return nil, ErrDoctorUnavailable
	}

	taken, err := u.appointmentRepo.ExistsActiveSlot(ctx, u.db, doctorID, req.SlotDate, req.SlotTime)
	if err != nil {
		u.log.Warnf("Failed to check slot %s %s of doctor %s: %+v", req.SlotDate, req.SlotTime, doctorID, err)
		return nil, err
	}
	if taken {
		return nil, ErrSlotUnavailable
	}

	appointment := &entity.Appointment{
		PatientID:   patientID,
		DoctorID:    doctorID,
		SlotDate:    req.SlotDate,
		SlotTime:    req.SlotTime,
		Amount:      doctor.Fees,
		Status:      entity.AppointmentStatusPending,
		Payment:     false,
		PatientData: patientSnapshot(patient),
		DoctorData:  doctorSnapshot(doctor),
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		if isDuplicateKeyError(err, activeSlotConstraint) {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	actor := service.UserActor(patientID, entity.RolePatient)
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, activeSlotConstraint) {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment %s booked: doctor %s at %s %s", appointment.ID, doctorID, appointment.SlotDate, appointment.SlotTime)
	u.publish(ctx, service.EventAppointmentBooked, appointment, actor)

	return appointment, nil
}

func (u *appointmentUsecase) replay(ctx context.Context, patientID uuid.UUID, storedID string) (*dto.AppointmentResponse, error) {
	id, err := uuid.Parse(storedID)
	if err != nil {
		u.log.Warnf("Malformed idempotency result %q: %+v", storedID, err)
		return nil, ErrAppointmentNotFound
	}

	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, ErrAppointmentNotOwned
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}
	return toListResponse(appointments), nil
}

func (u *appointmentUsecase) ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return toListResponse(appointments), nil
}

func (u *appointmentUsecase) ListAll(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all appointments: %+v", err)
		return nil, err
	}
	return toListResponse(appointments), nil
}

func (u *appointmentUsecase) CancelByPatient(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.cancel(ctx, appointmentID, service.UserActor(patientID, entity.RolePatient), func(a *entity.Appointment) bool {
		return a.PatientID == patientID
	})
}

func (u *appointmentUsecase) CancelByDoctor(ctx context.Context, doctorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.cancel(ctx, appointmentID, service.UserActor(doctorID, entity.RoleDoctor), func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID
	})
}

func (u *appointmentUsecase) CancelByAdmin(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.cancel(ctx, appointmentID, service.AdminActor(), func(*entity.Appointment) bool {
		return true
	})
}

// cancel is idempotent: cancelling a cancelled appointment succeeds without writing.
// A completed appointment cannot be cancelled. The payment flag is left as is.
func (u *appointmentUsecase) cancel(ctx context.Context, appointmentID uuid.UUID, actor service.Actor, owns func(*entity.Appointment) bool) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !owns(appointment) {
		return nil, ErrAppointmentNotOwned
	}

	if appointment.IsPending() {
		changed, err := u.transition(ctx, appointment, entity.AppointmentStatusCancelled, actor, entity.AuditActionAppointmentCancel)
		if err != nil {
			return nil, err
		}
		if changed {
			u.log.Infof("Appointment %s cancelled by %s", appointment.ID, actor.Role)
			u.publish(ctx, service.EventAppointmentCancelled, appointment, actor)
			return converter.AppointmentToResponse(appointment), nil
		}

		// Lost a race with another transition; judge the row as it is now
		if appointment, err = u.findAppointment(ctx, appointmentID); err != nil {
			return nil, err
		}
	}

	switch appointment.Status {
	case entity.AppointmentStatusCancelled:
		return converter.AppointmentToResponse(appointment), nil
	case entity.AppointmentStatusCompleted:
		return nil, ErrAppointmentCompleted
	default:
		return nil, ErrAppointmentChanged
	}
}

// Complete marks a pending visit done. Completing twice succeeds; a cancelled visit cannot be completed.
func (u *appointmentUsecase) Complete(ctx context.Context, doctorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrAppointmentNotOwned
	}

	actor := service.UserActor(doctorID, entity.RoleDoctor)
	if appointment.IsPending() {
		changed, err := u.transition(ctx, appointment, entity.AppointmentStatusCompleted, actor, entity.AuditActionAppointmentComplete)
		if err != nil {
			return nil, err
		}
		if changed {
			u.log.Infof("Appointment %s completed", appointment.ID)
			u.publish(ctx, service.EventAppointmentCompleted, appointment, actor)
			return converter.AppointmentToResponse(appointment), nil
		}

		if appointment, err = u.findAppointment(ctx, appointmentID); err != nil {
			return nil, err
		}
	}

	switch appointment.Status {
	case entity.AppointmentStatusCompleted:
		return converter.AppointmentToResponse(appointment), nil
	case entity.AppointmentStatusCancelled:
		return nil, ErrAppointmentCancelled
	default:
		return nil, ErrAppointmentChanged
	}
}

// transition moves a pending appointment to status and audits it in the same transaction.
// It reports false when another request changed the status first.
func (u *appointmentUsecase) transition(ctx context.Context, appointment *entity.Appointment, status entity.AppointmentStatus, actor service.Actor, action string) (bool, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	from := appointment.Status
	affected, err := u.appointmentRepo.TransitionStatus(ctx, tx, appointment.ID, from, status)
	if err != nil {
		u.log.Warnf("Failed to move appointment %s to %s: %+v", appointment.ID, status, err)
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor, action, "appointment", appointment.ID.String(),
		map[string]entity.AppointmentStatus{"status": from}, map[string]entity.AppointmentStatus{"status": status}); err != nil {
		return false, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return false, err
	}

	appointment.Status = status
	return true, nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// publish is best effort; the appointment is already committed
func (u *appointmentUsecase) publish(ctx context.Context, eventType string, appointment *entity.Appointment, actor service.Actor) {
	publishAppointmentEvent(ctx, u.publisher, u.log, eventType, appointment, actor, u.clock())
}

func publishAppointmentEvent(ctx context.Context, publisher service.EventPublisher, log *logrus.Logger, eventType string, appointment *entity.Appointment, actor service.Actor, now time.Time) {
	event := service.AppointmentEvent{
		Type:          eventType,
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		SlotDate:      appointment.SlotDate,
		SlotTime:      appointment.SlotTime,
		Amount:        appointment.Amount,
		Actor:         actor.Role,
		OccurredAt:    now,
	}
	if err := publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		log.Warnf("Failed to publish %s for appointment %s: %+v", eventType, appointment.ID, err)
	}
}

func patientSnapshot(profile *entity.PatientProfile) entity.PatientSnapshot {
	return entity.PatientSnapshot{
		Name:        profile.User.Name,
		Email:       profile.User.Email,
		Image:       profile.User.Image,
		PhoneNumber: profile.PhoneNumber,
		DateOfBirth: profile.DateOfBirth,
		Gender:      profile.Gender,
		Address:     profile.Address,
	}
}

func doctorSnapshot(profile *entity.DoctorProfile) entity.DoctorSnapshot {
	return entity.DoctorSnapshot{
		Name:       profile.User.Name,
		Email:      profile.User.Email,
		Image:      profile.User.Image,
		Speciality: profile.Speciality,
		Degree:     profile.Degree,
		Experience: profile.Experience,
		Fees:       profile.Fees,
		Address:    profile.Address,
	}
}

func toListResponse(appointments []entity.Appointment) *dto.AppointmentListResponse {
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}
}
