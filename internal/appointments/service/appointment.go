package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	appterrors "medsched/internal/appointments/errors"
	"medsched/internal/appointments/repository"
	"medsched/internal/appointments/validator"
	"medsched/internal/events"
	"medsched/internal/policy"
	schedulerrors "medsched/internal/schedules/errors"
	"medsched/internal/slots"
	"medsched/pkg/config"
	apperrors "medsched/pkg/errors"
	"medsched/pkg/model"
	"medsched/pkg/sanitizer"
)

// DoctorScheduleFinder resolves a doctor's working-hours template. Satisfied
// by the schedules repository.
type DoctorScheduleFinder interface {
	FindByDoctorID(ctx context.Context, doctorID string) (*model.DoctorSchedule, error)
}

// SlotFreedNotifier is told when a cancellation, rejection or reschedule
// frees an interval. Satisfied by the waitlist matcher. Failures are logged
// by the ledger and never undo the transition that freed the slot.
type SlotFreedNotifier interface {
	OnSlotFreed(ctx context.Context, doctorID string, startsAt, endsAt time.Time) error
}

type AppointmentService interface {
	CreateBooking(ctx context.Context, appt *model.Appointment) error
	Approve(ctx context.Context, id string) (*model.Appointment, error)
	Reject(ctx context.Context, id string, reason string) (*model.Appointment, error)
	Cancel(ctx context.Context, id string, role config.ActorRole) (*model.Appointment, error)
	Reschedule(ctx context.Context, id string, req *model.RescheduleRequest, role config.ActorRole) (*model.Appointment, error)
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Appointment, int64, error)
	SearchByDoctor(ctx context.Context, doctorID string, startsAt, endsAt *time.Time, limit int, offset int64) ([]*model.Appointment, int64, error)
	GetSlots(ctx context.Context, doctorID string, day time.Time) ([]model.Slot, error)
	CancelCutoffHours() int
}

// allowedTransitions is the appointment lifecycle. Missing states
// (CANCELLED, REJECTED, RESCHEDULED) are terminal.
var allowedTransitions = map[config.AppointmentStatus][]config.AppointmentStatus{
	config.Booked:    {config.Confirmed, config.Cancelled, config.Rejected, config.Rescheduled},
	config.Confirmed: {config.Cancelled, config.Rescheduled},
}

func canTransition(from, to config.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type appointmentService struct {
	repo         repository.AppointmentRepository
	holdRepo     repository.AppointmentHoldRepository
	scheduleRepo DoctorScheduleFinder
	validator    *validator.AppointmentValidator
	policy       *policy.Engine
	emitter      events.Emitter
	matcher      SlotFreedNotifier
	cfg          *config.Config
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	holdRepo repository.AppointmentHoldRepository,
	scheduleRepo DoctorScheduleFinder,
	validator *validator.AppointmentValidator,
	policyEngine *policy.Engine,
	emitter events.Emitter,
	matcher SlotFreedNotifier,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		repo:         repo,
		holdRepo:     holdRepo,
		scheduleRepo: scheduleRepo,
		validator:    validator,
		policy:       policyEngine,
		emitter:      emitter,
		matcher:      matcher,
		cfg:          cfg,
	}
}

func (s *appointmentService) CreateBooking(ctx context.Context, appt *model.Appointment) error {
	s.applyDefaults(appt)
	s.sanitize(appt)
	if err := s.validate(appt); err != nil {
		return err
	}

	// Advisory hold closes the race window between the overlap check and
	// the insert for concurrent requests on the same slot.
	holdID, err := s.acquireSlotHold(ctx, appt.DoctorID, appt.StartsAt)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotHold(ctx, holdID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot hold", "hold_id", holdID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, appt.DoctorID, appt.StartsAt, appt.EndsAt, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, appt); err != nil {
			return apperrors.Internal("Failed to create appointment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create appointment", "error", err)
		return err
	}

	s.emitter.AppointmentTransition(ctx, events.TypeAppointmentBooked, appt, "")
	s.cfg.Log.Info("Appointment booked successfully",
		"id", appt.ID,
		"doctor_id", appt.DoctorID,
		"patient_id", appt.PatientID,
		"starts_at", appt.StartsAt,
	)
	return nil
}

func (s *appointmentService) Approve(ctx context.Context, id string) (*model.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(appt.Status, config.Confirmed) {
		return nil, apperrors.InvalidTransition(appt.Status, config.Confirmed)
	}

	fromStatus := appt.Status
	appt.Status = config.Confirmed
	if _, err := s.repo.Update(ctx, id, appt); err != nil {
		s.cfg.Log.Error("Failed to approve appointment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to approve appointment", err)
	}

	// Confirmation is the billing trigger downstream.
	s.emitter.AppointmentTransition(ctx, events.TypeAppointmentConfirmed, appt, fromStatus)
	s.cfg.Log.Info("Appointment approved", "id", id, "doctor_id", appt.DoctorID)
	return appt, nil
}

func (s *appointmentService) Reject(ctx context.Context, id string, reason string) (*model.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(appt.Status, config.Rejected) {
		return nil, apperrors.InvalidTransition(appt.Status, config.Rejected)
	}

	fromStatus := appt.Status
	appt.Status = config.Rejected
	if reason != "" {
		appt.Reason = sanitizer.NormalizeText(reason)
	}
	if _, err := s.repo.Update(ctx, id, appt); err != nil {
		s.cfg.Log.Error("Failed to reject appointment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to reject appointment", err)
	}

	s.emitter.AppointmentTransition(ctx, events.TypeAppointmentRejected, appt, fromStatus)
	s.notifySlotFreed(ctx, appt)
	s.cfg.Log.Info("Appointment rejected", "id", id, "doctor_id", appt.DoctorID)
	return appt, nil
}

func (s *appointmentService) Cancel(ctx context.Context, id string, role config.ActorRole) (*model.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(appt.Status, config.Cancelled) {
		return nil, apperrors.InvalidTransition(appt.Status, config.Cancelled)
	}

	if err := s.policy.Authorize(policy.OpCancel, appt, role, time.Now().UTC()); err != nil {
		s.cfg.Log.Warn("Cancellation blocked by cutoff policy", "id", id, "role", role)
		return nil, err
	}

	fromStatus := appt.Status
	appt.Status = config.Cancelled
	if _, err := s.repo.Update(ctx, id, appt); err != nil {
		s.cfg.Log.Error("Failed to cancel appointment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel appointment", err)
	}

	s.emitter.AppointmentTransition(ctx, events.TypeAppointmentCancelled, appt, fromStatus)
	s.notifySlotFreed(ctx, appt)
	s.cfg.Log.Info("Appointment cancelled", "id", id, "doctor_id", appt.DoctorID, "role", role)
	return appt, nil
}

func (s *appointmentService) Reschedule(ctx context.Context, id string, req *model.RescheduleRequest, role config.ActorRole) (*model.Appointment, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(existing.Status, config.Rescheduled) {
		return nil, apperrors.InvalidTransition(existing.Status, config.Rescheduled)
	}

	if err := s.policy.Authorize(policy.OpReschedule, existing, role, time.Now().UTC()); err != nil {
		s.cfg.Log.Warn("Reschedule blocked by cutoff policy", "id", id, "role", role)
		return nil, err
	}

	if err := s.validator.ValidateReschedule(req); err != nil {
		s.cfg.Log.Warn("Reschedule validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid reschedule input", map[string]any{"error": err.Error()})
	}

	targetDoctor := existing.DoctorID
	if req.DoctorID != "" {
		targetDoctor = sanitizer.NormalizeID(req.DoctorID)
	}

	replacement := &model.Appointment{
		DoctorID:   targetDoctor,
		PatientID:  existing.PatientID,
		StartsAt:   req.StartsAt.UTC(),
		EndsAt:     req.EndsAt.UTC(),
		Status:     config.Booked,
		Reason:     existing.Reason,
		Department: existing.Department,
	}

	holdID, err := s.acquireSlotHold(ctx, targetDoctor, replacement.StartsAt)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotHold(ctx, holdID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot hold", "hold_id", holdID, "error", releaseErr)
		}
	}()

	fromStatus := existing.Status

	// Retiring the old record and inserting the replacement commit or fail
	// together; a conflict on the target slot leaves the original untouched.
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, targetDoctor, replacement.StartsAt, replacement.EndsAt, existing.ID); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, replacement); err != nil {
			return apperrors.Internal("Failed to create replacement appointment", err)
		}

		existing.Status = config.Rescheduled
		existing.RescheduledTo = replacement.ID
		if _, err := s.repo.Update(sessCtx, existing.ID, existing); err != nil {
			return apperrors.Internal("Failed to retire original appointment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reschedule appointment", "id", id, "error", err)
		return nil, err
	}

	s.emitter.AppointmentTransition(ctx, events.TypeAppointmentRescheduled, existing, fromStatus)
	s.emitter.AppointmentTransition(ctx, events.TypeAppointmentBooked, replacement, "")
	s.notifySlotFreed(ctx, existing)

	s.cfg.Log.Info("Appointment rescheduled",
		"id", id,
		"replacement_id", replacement.ID,
		"doctor_id", targetDoctor,
		"starts_at", replacement.StartsAt,
	)
	return replacement, nil
}

func (s *appointmentService) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		if errors.Is(err, appterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve appointment", err)
	}

	return appt, nil
}

func (s *appointmentService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Appointment, int64, error) {
	var count int64
	var appointments []*model.Appointment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count appointments", "error", errCount)
			errCount = apperrors.Internal("Failed to count appointments", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		appointments, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list appointments", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve appointments", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return appointments, count, nil
}

func (s *appointmentService) SearchByDoctor(ctx context.Context, doctorID string, startsAt, endsAt *time.Time, limit int, offset int64) ([]*model.Appointment, int64, error) {
	if doctorID == "" {
		return nil, 0, apperrors.InvalidInput("DoctorID is required")
	}

	var count int64
	var appointments []*model.Appointment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByDoctorAndRange(ctx, doctorID, startsAt, endsAt)
		if err != nil {
			s.cfg.Log.Error("Failed to count appointments by search",
				"doctor_id", doctorID,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count appointments", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		appointments, err = s.repo.FindByDoctorAndRange(ctx, doctorID, startsAt, endsAt, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search appointments",
				"doctor_id", doctorID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search appointments", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Appointment search completed",
		"doctor_id", doctorID,
		"count", len(appointments),
		"total_count", count,
	)
	return appointments, count, nil
}

func (s *appointmentService) GetSlots(ctx context.Context, doctorID string, day time.Time) ([]model.Slot, error) {
	if doctorID == "" {
		return nil, apperrors.InvalidInput("DoctorID is required")
	}

	sched, err := s.scheduleRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, schedulerrors.ErrNotFound) {
			// No template means no published availability.
			return []model.Slot{}, nil
		}
		return nil, apperrors.Internal("Failed to load doctor schedule", err)
	}

	// A generous window around the requested day keeps timezone-shifted
	// appointments inside the overlap scan.
	dayStart := day.UTC().Truncate(24 * time.Hour).Add(-24 * time.Hour)
	dayEnd := dayStart.Add(72 * time.Hour)

	appointments, err := s.repo.FindByDoctorAndRange(ctx, doctorID, &dayStart, &dayEnd, config.DefaultOverlapScanLimit, 0)
	if err != nil {
		return nil, apperrors.Internal("Failed to load appointments for slot calendar", err)
	}

	result, err := slots.Generate(sched, day, appointments, time.Now().UTC())
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if result == nil {
		result = []model.Slot{}
	}
	return result, nil
}

func (s *appointmentService) CancelCutoffHours() int {
	return s.policy.CancelCutoffHours()
}

// --- Helpers ---

func (s *appointmentService) sanitize(a *model.Appointment) {
	a.DoctorID = sanitizer.NormalizeID(a.DoctorID)
	a.PatientID = sanitizer.NormalizeID(a.PatientID)
	a.Reason = sanitizer.NormalizeText(a.Reason)
	a.Department = sanitizer.NormalizeDepartment(a.Department)
}

func (s *appointmentService) applyDefaults(a *model.Appointment) {
	if a.Status == "" {
		a.Status = config.Booked
	}
	a.StartsAt = a.StartsAt.UTC()
	a.EndsAt = a.EndsAt.UTC()
}

func (s *appointmentService) validate(appt *model.Appointment) error {
	if err := s.validator.Validate(appt); err != nil {
		s.cfg.Log.Warn("Appointment validation failed", "error", err)
		return apperrors.Validation("Appointment validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyAvailability scans active appointments for the doctor around the
// requested interval. excludeID skips the record being rescheduled so it
// cannot conflict with itself.
func (s *appointmentService) verifyAvailability(ctx context.Context, doctorID string, startsAt, endsAt time.Time, excludeID string) error {
	existing, err := s.repo.FindByDoctorAndRange(ctx, doctorID, &startsAt, &endsAt, config.DefaultOverlapScanLimit, 0)
	if err != nil {
		return apperrors.Internal("Failed to check existing appointments", err)
	}

	for _, a := range existing {
		if a.ID == excludeID {
			continue
		}
		if a.Status != config.Booked && a.Status != config.Confirmed {
			continue
		}
		if a.Overlaps(startsAt, endsAt) {
			return apperrors.SlotConflict(fmt.Sprintf(
				"Requested time overlaps an existing appointment (%s - %s)",
				a.StartsAt.Format(time.RFC3339),
				a.EndsAt.Format(time.RFC3339),
			))
		}
	}
	return nil
}

func (s *appointmentService) notifySlotFreed(ctx context.Context, appt *model.Appointment) {
	if s.matcher == nil {
		return
	}
	if err := s.matcher.OnSlotFreed(ctx, appt.DoctorID, appt.StartsAt, appt.EndsAt); err != nil {
		s.cfg.Log.Warn("Waitlist matching failed for freed slot",
			"appointment_id", appt.ID,
			"doctor_id", appt.DoctorID,
			"starts_at", appt.StartsAt,
			"error", err,
		)
	}
}

// acquireSlotHold creates an advisory hold to prevent concurrent booking of
// the same slot. Returns the hold ID if successful, or conflict error if the
// hold already exists.
func (s *appointmentService) acquireSlotHold(ctx context.Context, doctorID string, startsAt time.Time) (string, error) {
	holdID := fmt.Sprintf("hold_%s_%d", doctorID, startsAt.UTC().Unix())

	hold := &model.AppointmentHold{
		ID:        holdID,
		ExpiresAt: time.Now().Add(s.cfg.SlotHoldTTL),
	}

	_, err := s.holdRepo.Create(ctx, hold)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.SlotConflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot hold", err)
	}

	return holdID, nil
}

// releaseSlotHold removes the advisory hold
func (s *appointmentService) releaseSlotHold(ctx context.Context, holdID string) error {
	return s.holdRepo.Delete(ctx, holdID)
}
