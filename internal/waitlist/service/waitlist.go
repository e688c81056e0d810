package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	waitlisterrors "medsched/internal/waitlist/errors"
	"medsched/internal/waitlist/repository"
	"medsched/internal/waitlist/validator"
	"medsched/pkg/config"
	apperrors "medsched/pkg/errors"
	"medsched/pkg/model"
	"medsched/pkg/sanitizer"
)

type WaitlistService interface {
	Join(ctx context.Context, entry *model.WaitlistEntry) error
	Leave(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.WaitlistEntry, error)
	GetByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.WaitlistEntry, error)
	GetQueue(ctx context.Context, doctorID string, desiredDate string) ([]*model.WaitlistEntry, error)
}

type waitlistService struct {
	repo      repository.WaitlistRepository
	validator *validator.WaitlistValidator
	cfg       *config.Config
}

func NewWaitlistService(
	repo repository.WaitlistRepository,
	validator *validator.WaitlistValidator,
	cfg *config.Config,
) WaitlistService {
	return &waitlistService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *waitlistService) Join(ctx context.Context, entry *model.WaitlistEntry) error {
	entry.DoctorID = sanitizer.NormalizeID(entry.DoctorID)
	entry.PatientID = sanitizer.NormalizeID(entry.PatientID)

	if err := s.validator.Validate(entry); err != nil {
		s.cfg.Log.Warn("Waitlist entry validation failed", "error", err)
		return apperrors.Validation("Waitlist entry validation failed", map[string]any{"error": err.Error()})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		exists, err := s.repo.Exists(sessCtx, entry.DoctorID, entry.PatientID, entry.DesiredDate)
		if err != nil {
			return apperrors.Internal("Failed to check waitlist membership", err)
		}
		if exists {
			return apperrors.Conflict("Patient is already waitlisted for this doctor and date")
		}
		return s.repo.Create(sessCtx, entry)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to join waitlist",
			"doctor_id", entry.DoctorID,
			"patient_id", entry.PatientID,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Waitlist entry created",
		"id", entry.ID,
		"doctor_id", entry.DoctorID,
		"patient_id", entry.PatientID,
		"desired_date", entry.DesiredDate,
	)
	return nil
}

func (s *waitlistService) Leave(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Waitlist entry ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, waitlisterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Waitlist entry", id)
		}
		if errors.Is(err, waitlisterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid waitlist entry ID format")
		}
		s.cfg.Log.Error("Failed to delete waitlist entry", "id", id, "error", err)
		return apperrors.Internal("Failed to delete waitlist entry", err)
	}

	s.cfg.Log.Info("Waitlist entry removed", "id", id)
	return nil
}

func (s *waitlistService) GetByID(ctx context.Context, id string) (*model.WaitlistEntry, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Waitlist entry ID cannot be empty")
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, waitlisterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Waitlist entry", id)
		}
		if errors.Is(err, waitlisterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid waitlist entry ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve waitlist entry", err)
	}

	return entry, nil
}

func (s *waitlistService) GetByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.WaitlistEntry, error) {
	if patientID == "" {
		return nil, apperrors.InvalidInput("PatientID is required")
	}

	entries, err := s.repo.FindByPatient(ctx, sanitizer.NormalizeID(patientID), limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list waitlist entries", "patient_id", patientID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve waitlist entries", err)
	}

	return entries, nil
}

func (s *waitlistService) GetQueue(ctx context.Context, doctorID string, desiredDate string) ([]*model.WaitlistEntry, error) {
	if doctorID == "" || desiredDate == "" {
		return nil, apperrors.InvalidInput("Both doctor_id and desired_date are required")
	}

	entries, err := s.repo.FindByDoctorAndDate(ctx, sanitizer.NormalizeID(doctorID), desiredDate, config.DefaultWaitlistScanLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to load waitlist queue",
			"doctor_id", doctorID,
			"desired_date", desiredDate,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve waitlist queue", err)
	}

	return entries, nil
}
