package slots

import (
	"testing"
	"time"

	"medsched/pkg/config"
	"medsched/pkg/model"
)

func weekdaySchedule() *model.DoctorSchedule {
	return &model.DoctorSchedule{
		ID:              "64f1c0a2e3b4c5d6e7f80901",
		DoctorID:        "doc-1",
		Department:      "cardiology",
		StartOfDay:      "09:00",
		EndOfDay:        "12:00",
		WorkingDays:     config.DefaultWorkingDays,
		SlotDurationMin: 30,
	}
}

func appt(start, end time.Time, status config.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		StartsAt:  start,
		EndsAt:    end,
		Status:    status,
	}
}

func TestGenerate_PartitionsWorkingHours(t *testing.T) {
	// 2026-09-14 is a Monday.
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	slots, err := Generate(weekdaySchedule(), day, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:00-12:00 in 30 minute steps is 6 segments.
	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}

	first := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	for i, s := range slots {
		wantStart := first.Add(time.Duration(i) * 30 * time.Minute)
		if !s.StartsAt.Equal(wantStart) {
			t.Errorf("slot %d: expected start %v, got %v", i, wantStart, s.StartsAt)
		}
		if !s.EndsAt.Equal(wantStart.Add(30 * time.Minute)) {
			t.Errorf("slot %d: expected 30 minute duration", i)
		}
		if !s.Available {
			t.Errorf("slot %d: expected available with no appointments", i)
		}
		if s.Past {
			t.Errorf("slot %d: expected future slot", i)
		}
	}
}

func TestGenerate_ActiveAppointmentsBlockSlots(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	booked := appt(
		time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC),
		time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		config.Booked,
	)
	confirmed := appt(
		time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 14, 11, 30, 0, 0, time.UTC),
		config.Confirmed,
	)
	cancelled := appt(
		time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
		config.Cancelled,
	)

	slots, err := Generate(weekdaySchedule(), day, []*model.Appointment{booked, confirmed, cancelled}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantAvailable := map[int]bool{0: true, 1: false, 2: true, 3: true, 4: false, 5: true}
	for i, s := range slots {
		if s.Available != wantAvailable[i] {
			t.Errorf("slot %d (%v): expected available=%v, got %v", i, s.StartsAt, wantAvailable[i], s.Available)
		}
	}
}

func TestGenerate_PartialOverlapBlocksSlot(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// 09:15-09:45 straddles the first two slots.
	straddling := appt(
		time.Date(2026, 9, 14, 9, 15, 0, 0, time.UTC),
		time.Date(2026, 9, 14, 9, 45, 0, 0, time.UTC),
		config.Booked,
	)

	slots, err := Generate(weekdaySchedule(), day, []*model.Appointment{straddling}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if slots[0].Available || slots[1].Available {
		t.Error("expected both straddled slots to be unavailable")
	}
	if !slots[2].Available {
		t.Error("expected slot after the overlap to stay available")
	}
}

func TestGenerate_AdjacentAppointmentDoesNotBlock(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// Ends exactly when the 09:30 slot begins.
	adjacent := appt(
		time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC),
		config.Booked,
	)

	slots, err := Generate(weekdaySchedule(), day, []*model.Appointment{adjacent}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if slots[0].Available {
		t.Error("expected occupied slot to be unavailable")
	}
	if !slots[1].Available {
		t.Error("expected back-to-back slot to stay available")
	}
}

func TestGenerate_NonWorkingDay(t *testing.T) {
	// 2026-09-13 is a Sunday.
	day := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	slots, err := Generate(weekdaySchedule(), day, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots != nil {
		t.Errorf("expected no slots on a non-working day, got %d", len(slots))
	}
}

func TestGenerate_NilSchedule(t *testing.T) {
	slots, err := Generate(nil, time.Now(), nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots != nil {
		t.Error("expected nil slots for missing schedule")
	}
}

func TestGenerate_PastFlag(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 14, 10, 15, 0, 0, time.UTC)

	slots, err := Generate(weekdaySchedule(), day, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:00, 09:30 and 10:00 have started by 10:15.
	wantPast := map[int]bool{0: true, 1: true, 2: true, 3: false, 4: false, 5: false}
	for i, s := range slots {
		if s.Past != wantPast[i] {
			t.Errorf("slot %d (%v): expected past=%v, got %v", i, s.StartsAt, wantPast[i], s.Past)
		}
	}
}

func TestGenerate_TimezoneAwareTemplate(t *testing.T) {
	sched := weekdaySchedule()
	sched.TimeZone = "America/New_York"
	sched.StartOfDay = "09:00"
	sched.EndOfDay = "10:00"

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	slots, err := Generate(sched, day, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}

	// 09:00 EDT is 13:00 UTC during September.
	want := time.Date(2026, 9, 14, 13, 0, 0, 0, time.UTC)
	if !slots[0].StartsAt.Equal(want) {
		t.Errorf("expected first slot at %v UTC, got %v", want, slots[0].StartsAt)
	}
}

func TestGenerate_NegativeOffsetKeepsRequestedWeekday(t *testing.T) {
	// A Monday-only template behind UTC: the requested calendar date must be
	// evaluated as Monday, not shifted back to Sunday by the offset.
	sched := weekdaySchedule()
	sched.TimeZone = "America/New_York"
	sched.WorkingDays = []model.Weekday{"Monday"}
	sched.StartOfDay = "09:00"
	sched.EndOfDay = "10:00"

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC) // Monday
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	slots, err := Generate(sched, day, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots on the requested Monday, got %d", len(slots))
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	if got := slots[0].StartsAt.In(loc); got.Weekday() != time.Monday || got.Day() != 14 {
		t.Errorf("expected slots on local Monday the 14th, got %v", got)
	}
}

func TestGenerate_InvalidTimezone(t *testing.T) {
	sched := weekdaySchedule()
	sched.TimeZone = "Mars/Olympus"

	_, err := Generate(sched, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), nil, time.Now())
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestGenerate_TrailingPartialWindowDropped(t *testing.T) {
	sched := weekdaySchedule()
	sched.EndOfDay = "09:45"

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	slots, err := Generate(sched, day, nil, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only 09:00-09:30 fits; the 15 minute remainder is not a slot.
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
}
