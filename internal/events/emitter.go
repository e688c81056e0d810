// Package events publishes appointment lifecycle notifications to Kafka.
// Publishing is best effort: the ledger write is the source of truth and a
// failed emit is logged, never propagated to the caller.
package events

import (
	"context"
	"time"

	"medsched/pkg/config"
	"medsched/pkg/kafka"
	kafka_config "medsched/pkg/kafka/config"
	kafka_middleware "medsched/pkg/kafka/middleware"
	"medsched/pkg/logger"
	"medsched/pkg/model"
)

const (
	TypeAppointmentBooked      = "appointment.booked"
	TypeAppointmentConfirmed   = "appointment.confirmed"
	TypeAppointmentCancelled   = "appointment.cancelled"
	TypeAppointmentRejected    = "appointment.rejected"
	TypeAppointmentRescheduled = "appointment.rescheduled"
	TypeSlotOffer              = "waitlist.slot_offer"
)

// AppointmentEvent is the payload for every ledger transition. FromStatus is
// empty on initial booking.
type AppointmentEvent struct {
	AppointmentID string                   `json:"appointment_id"`
	DoctorID      string                   `json:"doctor_id"`
	PatientID     string                   `json:"patient_id"`
	StartsAt      time.Time                `json:"starts_at"`
	EndsAt        time.Time                `json:"ends_at"`
	FromStatus    config.AppointmentStatus `json:"from_status,omitempty"`
	ToStatus      config.AppointmentStatus `json:"to_status"`
	RescheduledTo string                   `json:"rescheduled_to,omitempty"`
}

// SlotOfferEvent notifies a waitlisted patient that a slot opened up. The
// token is a sealed claim the patient presents when booking.
type SlotOfferEvent struct {
	EntryID    string    `json:"entry_id"`
	DoctorID   string    `json:"doctor_id"`
	PatientID  string    `json:"patient_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	OfferToken string    `json:"offer_token"`
}

type Emitter interface {
	AppointmentTransition(ctx context.Context, eventType string, appt *model.Appointment, fromStatus config.AppointmentStatus)
	SlotOffer(ctx context.Context, offer SlotOfferEvent)
	Close() error
}

type kafkaEmitter struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

// New returns a Kafka-backed emitter, or a no-op one when events are
// disabled in the service configuration.
func New(cfg *config.Config, serviceName string) (Emitter, error) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Event publishing disabled, using no-op emitter")
		return NopEmitter{}, nil
	}

	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.AppointmentsTopic, cfg.AppointmentsDLQ)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware())
	producer.Use(kafka_middleware.MetricsProducerMiddleware())

	cfg.Log.Info("Kafka emitter initialized",
		"topic", cfg.AppointmentsTopic,
		"dlq_topic", cfg.AppointmentsDLQ,
	)

	return &kafkaEmitter{
		producer: producer,
		source:   serviceName,
		log:      cfg.Log,
	}, nil
}

func (e *kafkaEmitter) AppointmentTransition(ctx context.Context, eventType string, appt *model.Appointment, fromStatus config.AppointmentStatus) {
	payload := AppointmentEvent{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		StartsAt:      appt.StartsAt,
		EndsAt:        appt.EndsAt,
		FromStatus:    fromStatus,
		ToStatus:      appt.Status,
		RescheduledTo: appt.RescheduledTo,
	}

	// Keyed by doctor so per-doctor ordering is preserved across partitions.
	msg := kafka.NewMessage().
		WithKey(appt.DoctorID).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(e.source).
		WithSchemaVersion("1").
		Build()

	if err := e.producer.Publish(ctx, msg); err != nil {
		e.log.Error("Failed to publish appointment event",
			"event_type", eventType,
			"appointment_id", appt.ID,
			"error", err,
		)
	}
}

func (e *kafkaEmitter) SlotOffer(ctx context.Context, offer SlotOfferEvent) {
	msg := kafka.NewMessage().
		WithKey(offer.DoctorID).
		WithValue(offer).
		WithEventType(TypeSlotOffer).
		WithSource(e.source).
		WithSchemaVersion("1").
		Build()

	if err := e.producer.Publish(ctx, msg); err != nil {
		e.log.Error("Failed to publish slot offer event",
			"entry_id", offer.EntryID,
			"doctor_id", offer.DoctorID,
			"error", err,
		)
	}
}

func (e *kafkaEmitter) Close() error {
	return e.producer.Close()
}

// NopEmitter drops every event. Used when Kafka is not configured and in
// tests.
type NopEmitter struct{}

func (NopEmitter) AppointmentTransition(context.Context, string, *model.Appointment, config.AppointmentStatus) {
}

func (NopEmitter) SlotOffer(context.Context, SlotOfferEvent) {}

func (NopEmitter) Close() error { return nil }
