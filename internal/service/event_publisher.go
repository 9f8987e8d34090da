package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Appointment event types, also used as routing keys
const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentCompleted = "appointment.completed"
	EventAppointmentPaid      = "appointment.paid"
)

type AppointmentEvent struct {
	Type          string          `json:"type"`
	AppointmentID uuid.UUID       `json:"appointment_id"`
	PatientID     uuid.UUID       `json:"patient_id"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	SlotDate      string          `json:"slot_date"`
	SlotTime      string          `json:"slot_time"`
	Amount        decimal.Decimal `json:"amount"`
	Actor         string          `json:"actor"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event AppointmentEvent) error
}

// EventRecorder is notified of every published event type
type EventRecorder interface {
	RecordAppointmentEvent(eventType string)
}

type rabbitMQPublisher struct {
	mu       sync.Mutex
	channel  *amqp091.Channel
	exchange string
	recorder EventRecorder
	log      *logrus.Logger
}

func NewRabbitMQPublisher(channel *amqp091.Channel, exchange string, recorder EventRecorder, log *logrus.Logger) EventPublisher {
	return &rabbitMQPublisher{
		channel:  channel,
		exchange: exchange,
		recorder: recorder,
		log:      log,
	}
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, event AppointmentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		p.log.Warnf("Failed to publish %s for appointment %s: %+v", event.Type, event.AppointmentID, err)
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	if p.recorder != nil {
		p.recorder.RecordAppointmentEvent(event.Type)
	}
	p.log.Debugf("Published %s for appointment %s", event.Type, event.AppointmentID)
	return nil
}

type logEventPublisher struct {
	recorder EventRecorder
	log      *logrus.Logger
}

// NewLogEventPublisher is used when no broker is configured; events are only logged
func NewLogEventPublisher(recorder EventRecorder, log *logrus.Logger) EventPublisher {
	return &logEventPublisher{recorder: recorder, log: log}
}

func (p *logEventPublisher) Publish(ctx context.Context, event AppointmentEvent) error {
	if p.recorder != nil {
		p.recorder.RecordAppointmentEvent(event.Type)
	}
	p.log.WithFields(logrus.Fields{
		"event":          event.Type,
		"appointment_id": event.AppointmentID,
		"doctor_id":      event.DoctorID,
		"slot":           event.SlotDate + " " + event.SlotTime,
	}).Info("Appointment event")
	return nil
}
