// Package notifier consumes appointment lifecycle events and fans them out
// to patients and downstream systems. Confirmed appointments additionally
// open a billing case; slot offers carry the sealed token the patient needs
// to claim the freed interval.
package notifier

import (
	"context"
	"fmt"

	"medsched/internal/events"
	"medsched/pkg/kafka"
	"medsched/pkg/logger"
)

type Notifier struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// Handle dispatches a single event by its type header. Unknown types are
// logged and dropped rather than retried; a new producer version must not
// wedge old consumers.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()

	switch eventType {
	case events.TypeAppointmentBooked,
		events.TypeAppointmentCancelled,
		events.TypeAppointmentRejected,
		events.TypeAppointmentRescheduled:
		return n.handleTransition(msg, eventType)
	case events.TypeAppointmentConfirmed:
		return n.handleConfirmed(msg)
	case events.TypeSlotOffer:
		return n.handleSlotOffer(msg)
	default:
		n.log.Warn("Dropping event of unknown type",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
			"topic", msg.Topic,
		)
		return nil
	}
}

func (n *Notifier) handleTransition(msg kafka.Message, eventType string) error {
	var event events.AppointmentEvent
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode appointment event: %w", err)
	}

	n.log.Info("Notifying patient of appointment transition",
		"event_type", eventType,
		"appointment_id", event.AppointmentID,
		"doctor_id", event.DoctorID,
		"patient_id", event.PatientID,
		"from_status", event.FromStatus,
		"to_status", event.ToStatus,
		"starts_at", event.StartsAt,
	)
	return nil
}

func (n *Notifier) handleConfirmed(msg kafka.Message) error {
	var event events.AppointmentEvent
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode confirmation event: %w", err)
	}

	n.log.Info("Opening billing case for confirmed appointment",
		"appointment_id", event.AppointmentID,
		"doctor_id", event.DoctorID,
		"patient_id", event.PatientID,
		"starts_at", event.StartsAt,
	)
	return nil
}

func (n *Notifier) handleSlotOffer(msg kafka.Message) error {
	var offer events.SlotOfferEvent
	if err := msg.DecodeValue(&offer); err != nil {
		return fmt.Errorf("failed to decode slot offer: %w", err)
	}

	n.log.Info("Delivering slot offer to waitlisted patient",
		"entry_id", offer.EntryID,
		"doctor_id", offer.DoctorID,
		"patient_id", offer.PatientID,
		"starts_at", offer.StartsAt,
	)
	return nil
}
