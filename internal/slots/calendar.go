// Package slots derives bookable time windows from a doctor's working-hours
// template and the active appointments already on the books. Slots are
// computed per query and never persisted.
package slots

import (
	"fmt"
	"time"

	"medsched/pkg/config"
	"medsched/pkg/model"
)

// Generate partitions the doctor's working hours on the given day into
// fixed-duration segments and marks each one against the supplied
// appointments. Returns nil when the doctor has no template or does not work
// that weekday. Results are ordered ascending by start time, in UTC.
//
// Segments whose start has already elapsed relative to now are flagged
// rather than dropped, so callers can apply their own "in the future" rule.
func Generate(sched *model.DoctorSchedule, day time.Time, appointments []*model.Appointment, now time.Time) ([]model.Slot, error) {
	if sched == nil {
		return nil, nil
	}

	loc := time.UTC
	if sched.TimeZone != "" {
		var err error
		loc, err = time.LoadLocation(sched.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule timezone %q: %w", sched.TimeZone, err)
		}
	}

	// The requested day is a calendar date, not an instant: rebuild it from
	// its date components so a negative-offset timezone does not shift the
	// query onto the previous local day.
	utcDay := day.UTC()
	localDay := time.Date(utcDay.Year(), utcDay.Month(), utcDay.Day(), 0, 0, 0, 0, loc)
	if !worksOn(sched.WorkingDays, localDay.Weekday()) {
		return nil, nil
	}

	dayStart, err := atTimeOfDay(localDay, sched.StartOfDay, loc)
	if err != nil {
		return nil, err
	}
	dayEnd, err := atTimeOfDay(localDay, sched.EndOfDay, loc)
	if err != nil {
		return nil, err
	}
	if !dayEnd.After(dayStart) {
		return nil, nil
	}

	busy := activeOnly(appointments)
	step := time.Duration(sched.SlotDurationMin) * time.Minute

	var result []model.Slot
	for t := dayStart; !t.Add(step).After(dayEnd); t = t.Add(step) {
		end := t.Add(step)
		result = append(result, model.Slot{
			DoctorID:  sched.DoctorID,
			StartsAt:  t.UTC(),
			EndsAt:    end.UTC(),
			Available: !overlapsAny(t, end, busy),
			Past:      t.Before(now),
		})
	}

	return result, nil
}

// activeOnly keeps appointments that actually occupy their interval.
// Cancelled, rejected and retired-rescheduled records free their slot.
func activeOnly(appointments []*model.Appointment) []*model.Appointment {
	var active []*model.Appointment
	for _, a := range appointments {
		if a.Status == config.Booked || a.Status == config.Confirmed {
			active = append(active, a)
		}
	}
	return active
}

func overlapsAny(start, end time.Time, appointments []*model.Appointment) bool {
	for _, a := range appointments {
		if a.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func worksOn(days []config.Weekday, weekday time.Weekday) bool {
	for _, d := range days {
		if d == weekday.String() {
			return true
		}
	}
	return false
}

func atTimeOfDay(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}
