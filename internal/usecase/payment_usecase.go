package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrPaymentNotAllowed   = errors.New("appointment cancelled or not found")
	ErrAlreadyPaid         = errors.New("appointment is already paid")
	ErrPaymentNotCompleted = errors.New("payment failed")
)

type PaymentUsecase interface {
	CreateOrder(ctx context.Context, patientID uuid.UUID, req *dto.CreatePaymentOrderRequest) (*dto.PaymentOrderResponse, error)
	Verify(ctx context.Context, patientID uuid.UUID, req *dto.VerifyPaymentRequest) (*dto.AppointmentResponse, error)
}

type paymentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	gateway         service.PaymentGateway
	publisher       service.EventPublisher
	currency        string
	clock           func() time.Time
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	gateway service.PaymentGateway,
	publisher service.EventPublisher,
	currency string,
) PaymentUsecase {
	return &paymentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		gateway:         gateway,
		publisher:       publisher,
		currency:        currency,
		clock:           time.Now,
	}
}

// CreateOrder opens a gateway order for the appointment amount in minor units.
// The appointment id is the order receipt, which is how Verify finds it again.
func (u *paymentUsecase) CreateOrder(ctx context.Context, patientID uuid.UUID, req *dto.CreatePaymentOrderRequest) (*dto.PaymentOrderResponse, error) {
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, ErrPaymentNotAllowed
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil || appointment.IsCancelled() || appointment.PatientID != patientID {
		return nil, ErrPaymentNotAllowed
	}
	if appointment.Payment {
		return nil, ErrAlreadyPaid
	}

	order, err := u.gateway.CreateOrder(ctx, appointment.MinorUnits(), u.currency, appointment.ID.String())
	if err != nil {
		u.log.Warnf("Failed to create payment order for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	if err := u.appointmentRepo.SetPaymentOrder(ctx, u.db, appointment.ID, order.ID); err != nil {
		u.log.Warnf("Failed to store payment order %s: %+v", order.ID, err)
		return nil, err
	}

	return &dto.PaymentOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}

// Verify asks the gateway for the order state and marks the appointment paid once
func (u *paymentUsecase) Verify(ctx context.Context, patientID uuid.UUID, req *dto.VerifyPaymentRequest) (*dto.AppointmentResponse, error) {
	order, err := u.gateway.FetchOrder(ctx, req.OrderID)
	if err != nil {
		u.log.Warnf("Failed to fetch payment order %s: %+v", req.OrderID, err)
		return nil, err
	}
	if !order.IsPaid() {
		return nil, ErrPaymentNotCompleted
	}

	appointmentID, err := uuid.Parse(order.Receipt)
	if err != nil {
		u.log.Warnf("Payment order %s has unexpected receipt %q", order.ID, order.Receipt)
		return nil, ErrAppointmentNotFound
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patientID {
		return nil, ErrAppointmentNotOwned
	}
	if appointment.Payment {
		return converter.AppointmentToResponse(appointment), nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	paidAt := u.clock()
	affected, err := u.appointmentRepo.MarkPaid(ctx, tx, appointment.ID, paidAt)
	if err != nil {
		u.log.Warnf("Failed to mark appointment %s paid: %+v", appointment.ID, err)
		return nil, err
	}
	if affected == 0 {
		// A concurrent verification got there first
		return converter.AppointmentToResponse(appointment), nil
	}

	actor := service.UserActor(patientID, entity.RolePatient)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionAppointmentPay, "appointment", appointment.ID.String(),
		map[string]interface{}{"payment": false}, map[string]interface{}{"payment": true, "order_id": order.ID}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Payment = true
	appointment.PaidAt = &paidAt

	u.log.Infof("Appointment %s paid with order %s", appointment.ID, order.ID)
	publishAppointmentEvent(ctx, u.publisher, u.log, service.EventAppointmentPaid, appointment, actor, paidAt)

	return converter.AppointmentToResponse(appointment), nil
}
