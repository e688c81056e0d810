package flows

import (
	flow "medsched/internal/frontdesk/core"
)

// requires: doctor_id, day
func DailyRoster(ctx *flow.FlowContext) error {
	if err := FetchDoctorTemplate(ctx); err != nil {
		return err
	}
	if err := FetchDoctorSlots(ctx); err != nil {
		return err
	}
	if err := FetchDayAppointments(ctx); err != nil {
		return err
	}
	if err := FetchDayWaitlist(ctx); err != nil {
		return err
	}
	return AssembleRoster(ctx)
}
