package validator

import (
	"testing"
	"time"

	"medsched/pkg/config"
	"medsched/pkg/logger"
	"medsched/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func validAppointment() *model.Appointment {
	starts := time.Now().Add(48 * time.Hour).UTC()
	return &model.Appointment{
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		StartsAt:  starts,
		EndsAt:    starts.Add(30 * time.Minute),
		Status:    config.Booked,
	}
}

func TestValidate(t *testing.T) {
	v := NewAppointmentValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(*model.Appointment)
		wantError bool
	}{
		{
			name:      "valid appointment",
			mutate:    func(a *model.Appointment) {},
			wantError: false,
		},
		{
			name:      "missing doctor",
			mutate:    func(a *model.Appointment) { a.DoctorID = "" },
			wantError: true,
		},
		{
			name:      "missing patient",
			mutate:    func(a *model.Appointment) { a.PatientID = "" },
			wantError: true,
		},
		{
			name:      "unknown status",
			mutate:    func(a *model.Appointment) { a.Status = "PENDING" },
			wantError: true,
		},
		{
			name: "ends before starts",
			mutate: func(a *model.Appointment) {
				a.EndsAt = a.StartsAt.Add(-30 * time.Minute)
			},
			wantError: true,
		},
		{
			name: "zero-length interval",
			mutate: func(a *model.Appointment) {
				a.EndsAt = a.StartsAt
			},
			wantError: true,
		},
		{
			name: "starts in the past",
			mutate: func(a *model.Appointment) {
				a.StartsAt = time.Now().Add(-1 * time.Hour)
				a.EndsAt = a.StartsAt.Add(30 * time.Minute)
			},
			wantError: true,
		},
		{
			name: "malformed id",
			mutate: func(a *model.Appointment) {
				a.ID = "not-an-object-id"
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := validAppointment()
			tt.mutate(appt)

			err := v.Validate(appt)
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected success, got %v", err)
			}
		})
	}
}

func TestValidateReschedule(t *testing.T) {
	v := NewAppointmentValidator(testLogger())
	starts := time.Now().Add(72 * time.Hour).UTC()

	tests := []struct {
		name      string
		req       *model.RescheduleRequest
		wantError bool
	}{
		{
			name: "valid request",
			req: &model.RescheduleRequest{
				StartsAt: starts,
				EndsAt:   starts.Add(30 * time.Minute),
			},
			wantError: false,
		},
		{
			name: "valid request with doctor change",
			req: &model.RescheduleRequest{
				StartsAt: starts,
				EndsAt:   starts.Add(30 * time.Minute),
				DoctorID: "doc-2",
			},
			wantError: false,
		},
		{
			name: "inverted interval",
			req: &model.RescheduleRequest{
				StartsAt: starts,
				EndsAt:   starts.Add(-30 * time.Minute),
			},
			wantError: true,
		},
		{
			name: "target in the past",
			req: &model.RescheduleRequest{
				StartsAt: time.Now().Add(-2 * time.Hour),
				EndsAt:   time.Now().Add(-90 * time.Minute),
			},
			wantError: true,
		},
		{
			name:      "missing times",
			req:       &model.RescheduleRequest{},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateReschedule(tt.req)
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected success, got %v", err)
			}
		})
	}
}
