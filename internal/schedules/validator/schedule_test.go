package validator

import (
	"strings"
	"testing"

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

func validSchedule() *model.DoctorSchedule {
	return &model.DoctorSchedule{
		DoctorID:        "doc-1",
		Department:      "cardiology",
		StartOfDay:      "09:00",
		EndOfDay:        "17:00",
		WorkingDays:     config.DefaultWorkingDays,
		SlotDurationMin: 30,
		TimeZone:        "Europe/Berlin",
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	v := NewScheduleValidator(testLogger())

	tests := []struct {
		name       string
		startOfDay string
		endOfDay   string
		wantError  bool
	}{
		{
			name:       "valid time range",
			startOfDay: "09:00",
			endOfDay:   "18:00",
			wantError:  false,
		},
		{
			name:       "edge case midnight to midnight",
			startOfDay: "00:00",
			endOfDay:   "23:59",
			wantError:  false,
		},
		{
			name:       "invalid start hour",
			startOfDay: "25:00",
			endOfDay:   "18:00",
			wantError:  true,
		},
		{
			name:       "invalid end hour",
			startOfDay: "09:00",
			endOfDay:   "25:00",
			wantError:  true,
		},
		{
			name:       "invalid start minute",
			startOfDay: "09:60",
			endOfDay:   "18:00",
			wantError:  true,
		},
		{
			name:       "wrong format",
			startOfDay: "09-00",
			endOfDay:   "18:00",
			wantError:  true,
		},
		{
			name:       "end before start",
			startOfDay: "18:00",
			endOfDay:   "09:00",
			wantError:  true,
		},
		{
			name:       "end equals start",
			startOfDay: "09:00",
			endOfDay:   "09:00",
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := validSchedule()
			sched.StartOfDay = tt.startOfDay
			sched.EndOfDay = tt.endOfDay

			err := v.Validate(sched)
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected success, got %v", err)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	v := NewScheduleValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(*model.DoctorSchedule)
		wantError bool
	}{
		{
			name:      "valid schedule",
			mutate:    func(s *model.DoctorSchedule) {},
			wantError: false,
		},
		{
			name:      "missing doctor id",
			mutate:    func(s *model.DoctorSchedule) { s.DoctorID = "" },
			wantError: true,
		},
		{
			name:      "empty working days",
			mutate:    func(s *model.DoctorSchedule) { s.WorkingDays = nil },
			wantError: true,
		},
		{
			name:      "unknown weekday",
			mutate:    func(s *model.DoctorSchedule) { s.WorkingDays = []config.Weekday{"Moonday"} },
			wantError: true,
		},
		{
			name:      "slot duration too short",
			mutate:    func(s *model.DoctorSchedule) { s.SlotDurationMin = 2 },
			wantError: true,
		},
		{
			name:      "slot duration too long",
			mutate:    func(s *model.DoctorSchedule) { s.SlotDurationMin = 600 },
			wantError: true,
		},
		{
			name:      "bogus timezone",
			mutate:    func(s *model.DoctorSchedule) { s.TimeZone = "Not/AZone" },
			wantError: true,
		},
		{
			name:      "department too long",
			mutate:    func(s *model.DoctorSchedule) { s.Department = strings.Repeat("x", 150) },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := validSchedule()
			tt.mutate(sched)

			err := v.Validate(sched)
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected success, got %v", err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewScheduleValidator(testLogger())

	short := 2
	ok := 45

	tests := []struct {
		name      string
		update    *model.DoctorScheduleUpdate
		wantError bool
	}{
		{
			name:      "empty update",
			update:    &model.DoctorScheduleUpdate{},
			wantError: false,
		},
		{
			name:      "valid partial update",
			update:    &model.DoctorScheduleUpdate{StartOfDay: "08:30", SlotDurationMin: &ok},
			wantError: false,
		},
		{
			name:      "bad time of day",
			update:    &model.DoctorScheduleUpdate{StartOfDay: "8am"},
			wantError: true,
		},
		{
			name:      "slot duration below minimum",
			update:    &model.DoctorScheduleUpdate{SlotDurationMin: &short},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected success, got %v", err)
			}
		})
	}
}
