package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"medsched/internal/events"
	"medsched/pkg/kafka"
	"medsched/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Service: "notifier-test"})
}

func eventMessage(t *testing.T, eventType string, payload any) kafka.Message {
	t.Helper()
	value, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return kafka.Message{
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventType: eventType,
		},
	}
}

func TestHandle_KnownEventTypes(t *testing.T) {
	n := New(testLogger())
	event := events.AppointmentEvent{
		AppointmentID: "64f1b2a3c4d5e6f7a8b9c0d1",
		DoctorID:      "dr-house",
		PatientID:     "pat-42",
		StartsAt:      time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
		EndsAt:        time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC),
		ToStatus:      "CONFIRMED",
	}

	types := []string{
		events.TypeAppointmentBooked,
		events.TypeAppointmentConfirmed,
		events.TypeAppointmentCancelled,
		events.TypeAppointmentRejected,
		events.TypeAppointmentRescheduled,
	}

	for _, eventType := range types {
		t.Run(eventType, func(t *testing.T) {
			msg := eventMessage(t, eventType, event)
			if err := n.Handle(context.Background(), msg); err != nil {
				t.Errorf("Handle(%s) returned error: %v", eventType, err)
			}
		})
	}
}

func TestHandle_SlotOffer(t *testing.T) {
	n := New(testLogger())
	offer := events.SlotOfferEvent{
		EntryID:    "64f1b2a3c4d5e6f7a8b9c0d2",
		DoctorID:   "dr-house",
		PatientID:  "pat-43",
		StartsAt:   time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
		OfferToken: "sealed-token",
	}

	msg := eventMessage(t, events.TypeSlotOffer, offer)
	if err := n.Handle(context.Background(), msg); err != nil {
		t.Errorf("Handle returned error: %v", err)
	}
}

func TestHandle_UnknownTypeIsDropped(t *testing.T) {
	n := New(testLogger())
	msg := eventMessage(t, "appointment.v2.merged", map[string]string{"foo": "bar"})

	if err := n.Handle(context.Background(), msg); err != nil {
		t.Errorf("expected unknown event types to be dropped without error, got %v", err)
	}
}

func TestHandle_MalformedPayloadErrors(t *testing.T) {
	n := New(testLogger())
	msg := kafka.Message{
		Value: []byte("{not-json"),
		Headers: map[string]string{
			kafka.HeaderEventType: events.TypeAppointmentConfirmed,
		},
	}

	if err := n.Handle(context.Background(), msg); err == nil {
		t.Errorf("expected decode error for malformed payload")
	}
}
