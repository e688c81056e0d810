package flows

import (
	flow "medsched/internal/frontdesk/core"
)

// requires: doctor_id, patient_id, day
// optional: reason, department
func BookFirstAvailable(ctx *flow.FlowContext) error {
	if err := FetchDoctorSlots(ctx); err != nil {
		return err
	}
	if err := PickFirstAvailableSlot(ctx); err != nil {
		return err
	}
	return BookChosenSlot(ctx)
}
