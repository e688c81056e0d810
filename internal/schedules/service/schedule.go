package service

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	schedulerrors "medsched/internal/schedules/errors"
	"medsched/internal/schedules/repository"
	"medsched/internal/schedules/validator"
	"medsched/pkg/config"
	apperrors "medsched/pkg/errors"
	"medsched/pkg/model"
	"medsched/pkg/sanitizer"
)

type ScheduleService interface {
	Create(ctx context.Context, sched *model.DoctorSchedule) error
	GetByID(ctx context.Context, id string) (*model.DoctorSchedule, error)
	GetByDoctorID(ctx context.Context, doctorID string) (*model.DoctorSchedule, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.DoctorSchedule, int64, error)
	Update(ctx context.Context, id string, updates *model.DoctorScheduleUpdate) error
	Delete(ctx context.Context, id string) error
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	validator *validator.ScheduleValidator
	cfg       *config.Config
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	validator *validator.ScheduleValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *scheduleService) Create(ctx context.Context, sched *model.DoctorSchedule) error {
	s.sanitize(sched)
	s.applyDefaults(sched)

	if err := s.validator.Validate(sched); err != nil {
		s.cfg.Log.Warn("Schedule validation failed",
			"doctor_id", sched.DoctorID,
			"error", err,
		)
		return apperrors.Validation("Schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// One template per doctor.
		existing, err := s.repo.FindByDoctorID(sessCtx, sched.DoctorID)
		if err != nil && !errors.Is(err, schedulerrors.ErrNotFound) {
			return apperrors.Internal("Failed to check for existing schedule", err)
		}
		if existing != nil {
			return apperrors.Conflict("Doctor already has a schedule template")
		}
		return s.repo.Create(sessCtx, sched)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create doctor schedule",
			"doctor_id", sched.DoctorID,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Doctor schedule created successfully",
		"id", sched.ID,
		"doctor_id", sched.DoctorID,
		"department", sched.Department,
	)
	return nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*model.DoctorSchedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedulerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Schedule", id)
		}
		if errors.Is(err, schedulerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid schedule ID format")
		}
		s.cfg.Log.Error("Failed to get schedule by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve schedule", err)
	}

	return sched, nil
}

func (s *scheduleService) GetByDoctorID(ctx context.Context, doctorID string) (*model.DoctorSchedule, error) {
	if doctorID == "" {
		return nil, apperrors.InvalidInput("DoctorID cannot be empty")
	}

	sched, err := s.repo.FindByDoctorID(ctx, sanitizer.NormalizeID(doctorID))
	if err != nil {
		if errors.Is(err, schedulerrors.ErrNotFound) {
			return nil, apperrors.NotFound("No schedule template for this doctor")
		}
		s.cfg.Log.Error("Failed to get schedule by doctor",
			"doctor_id", doctorID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve schedule", err)
	}

	return sched, nil
}

func (s *scheduleService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.DoctorSchedule, int64, error) {
	var count int64
	var schedules []*model.DoctorSchedule
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count doctor schedules", "error", err)
			errCount = apperrors.Internal("Failed to count schedules", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		schedules, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all doctor schedules",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve schedules", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return schedules, count, nil
}

func (s *scheduleService) Update(ctx context.Context, id string, updates *model.DoctorScheduleUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedulerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Schedule", id)
		}
		if errors.Is(err, schedulerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		return apperrors.Internal("Failed to check schedule existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Schedule update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeScheduleUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Schedule validation failed",
			"doctor_id", merged.DoctorID,
			"id", id,
			"error", err,
		)
		return apperrors.Validation("Schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update doctor schedule",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update schedule", err)
	}

	s.cfg.Log.Info("Doctor schedule updated successfully", "id", id, "doctor_id", merged.DoctorID)
	return nil
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, schedulerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Schedule", id)
			}
			if errors.Is(err, schedulerrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid schedule ID format")
			}
			s.cfg.Log.Error("Failed to delete doctor schedule",
				"id", id,
				"error", err,
			)
			return apperrors.Internal("Failed to delete schedule", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cfg.Log.Info("Doctor schedule deleted successfully", "id", id)
	return nil
}

func (s *scheduleService) sanitize(sched *model.DoctorSchedule) {
	sched.DoctorID = sanitizer.NormalizeID(sched.DoctorID)
	sched.Department = sanitizer.NormalizeDepartment(sched.Department)
}

func (s *scheduleService) applyDefaults(sched *model.DoctorSchedule) {
	if sched.StartOfDay == "" {
		sched.StartOfDay = s.cfg.DefaultStartOfDay
	}
	if sched.EndOfDay == "" {
		sched.EndOfDay = s.cfg.DefaultEndOfDay
	}
	if len(sched.WorkingDays) == 0 {
		sched.WorkingDays = s.cfg.DefaultWorkingDays
	}
	if sched.SlotDurationMin == 0 {
		sched.SlotDurationMin = s.cfg.SlotDurationMin
	}
}

func (s *scheduleService) mergeScheduleUpdates(existing *model.DoctorSchedule, updates *model.DoctorScheduleUpdate) *model.DoctorSchedule {
	merged := *existing

	if updates.Department != "" {
		merged.Department = sanitizer.NormalizeDepartment(updates.Department)
	}
	if updates.StartOfDay != "" {
		merged.StartOfDay = updates.StartOfDay
	}
	if updates.EndOfDay != "" {
		merged.EndOfDay = updates.EndOfDay
	}
	if updates.WorkingDays != nil {
		merged.WorkingDays = updates.WorkingDays
	}
	if updates.SlotDurationMin != nil {
		merged.SlotDurationMin = *updates.SlotDurationMin
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}
