package service

import (
	"context"
	"testing"

	"medsched/internal/waitlist/validator"
	apperrors "medsched/pkg/errors"
	"medsched/pkg/model"
)

func newTestWaitlistService(repo *mockWaitlistRepository) WaitlistService {
	cfg := testConfig()
	return NewWaitlistService(repo, validator.NewWaitlistValidator(cfg.Log), cfg)
}

func validEntry() *model.WaitlistEntry {
	return &model.WaitlistEntry{
		DoctorID:    "doc-1",
		PatientID:   "pat-1",
		DesiredDate: "2026-09-14",
	}
}

func TestJoin_Success(t *testing.T) {
	created := false
	repo := &mockWaitlistRepository{
		createFunc: func(ctx context.Context, entry *model.WaitlistEntry) error {
			created = true
			return nil
		},
	}

	if err := newTestWaitlistService(repo).Join(context.Background(), validEntry()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected entry to be created")
	}
}

func TestJoin_DuplicateIsConflict(t *testing.T) {
	created := false
	repo := &mockWaitlistRepository{
		existsFunc: func(ctx context.Context, doctorID, patientID, desiredDate string) (bool, error) {
			return true, nil
		},
		createFunc: func(ctx context.Context, entry *model.WaitlistEntry) error {
			created = true
			return nil
		},
	}

	err := newTestWaitlistService(repo).Join(context.Background(), validEntry())
	if err == nil {
		t.Fatal("expected error for duplicate entry")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
	if created {
		t.Error("expected duplicate join to skip creation")
	}
}

func TestJoin_ValidationFailure(t *testing.T) {
	entry := validEntry()
	entry.DesiredDate = "14-09-2026"

	err := newTestWaitlistService(&mockWaitlistRepository{}).Join(context.Background(), entry)
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}
