// Package policy decides whether a lifecycle operation on an appointment is
// permitted at a given moment. It is a pure function of the operation, the
// appointment, the actor's role and the clock; persistence belongs to the
// ledger.
package policy

import (
	"fmt"
	"time"

	"medsched/pkg/config"
	apperrors "medsched/pkg/errors"
	"medsched/pkg/model"
)

type Operation string

const (
	OpCancel     Operation = "cancel"
	OpReschedule Operation = "reschedule"
	OpApprove    Operation = "approve"
	OpReject     Operation = "reject"
)

// Engine enforces the cancellation cutoff. Staff and doctor initiated
// operations bypass the cutoff; patient-initiated ones must keep the
// configured lead time before the appointment start.
type Engine struct {
	cancelCutoffHours int
}

func NewEngine(cancelCutoffHours int) *Engine {
	return &Engine{cancelCutoffHours: cancelCutoffHours}
}

func (e *Engine) CancelCutoffHours() int {
	return e.cancelCutoffHours
}

// Authorize returns nil when the operation may proceed, or a cutoff
// violation error. It never touches storage.
func (e *Engine) Authorize(op Operation, appt *model.Appointment, role config.ActorRole, now time.Time) error {
	if role == config.RoleStaff || role == config.RoleDoctor {
		return nil
	}

	hoursUntilStart := appt.StartsAt.Sub(now).Hours()
	if hoursUntilStart < float64(e.cancelCutoffHours) {
		return apperrors.CutoffViolation(
			fmt.Sprintf("%s requires at least %d hours notice before the appointment", op, e.cancelCutoffHours),
			map[string]any{
				"operation":         string(op),
				"cutoff_hours":      e.cancelCutoffHours,
				"hours_until_start": hoursUntilStart,
				"starts_at":         appt.StartsAt,
			},
		)
	}

	return nil
}
