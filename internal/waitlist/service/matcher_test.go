package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"medsched/internal/events"
	"medsched/pkg/config"
	mongotx "medsched/pkg/db/mongo"
	"medsched/pkg/logger"
	"medsched/pkg/model"
)

// Mock repository for testing
type mockWaitlistRepository struct {
	createFunc              func(ctx context.Context, entry *model.WaitlistEntry) error
	findByIDFunc            func(ctx context.Context, id string) (*model.WaitlistEntry, error)
	findByDoctorAndDateFunc func(ctx context.Context, doctorID string, desiredDate string, limit int) ([]*model.WaitlistEntry, error)
	findByPatientFunc       func(ctx context.Context, patientID string, limit int, offset int64) ([]*model.WaitlistEntry, error)
	existsFunc              func(ctx context.Context, doctorID, patientID, desiredDate string) (bool, error)
	deleteFunc              func(ctx context.Context, id string) error
	countFunc               func(ctx context.Context) (int64, error)
}

func (m *mockWaitlistRepository) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, entry)
	}
	return nil
}

func (m *mockWaitlistRepository) FindByID(ctx context.Context, id string) (*model.WaitlistEntry, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockWaitlistRepository) FindByDoctorAndDate(ctx context.Context, doctorID string, desiredDate string, limit int) ([]*model.WaitlistEntry, error) {
	if m.findByDoctorAndDateFunc != nil {
		return m.findByDoctorAndDateFunc(ctx, doctorID, desiredDate, limit)
	}
	return []*model.WaitlistEntry{}, nil
}

func (m *mockWaitlistRepository) FindByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.WaitlistEntry, error) {
	if m.findByPatientFunc != nil {
		return m.findByPatientFunc(ctx, patientID, limit, offset)
	}
	return []*model.WaitlistEntry{}, nil
}

func (m *mockWaitlistRepository) Exists(ctx context.Context, doctorID, patientID, desiredDate string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, doctorID, patientID, desiredDate)
	}
	return false, nil
}

func (m *mockWaitlistRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockWaitlistRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockWaitlistRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

// recordingEmitter captures published offers
type recordingEmitter struct {
	events.NopEmitter
	offers []events.SlotOfferEvent
}

func (r *recordingEmitter) SlotOffer(_ context.Context, offer events.SlotOfferEvent) {
	r.offers = append(r.offers, offer)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "info",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
	}
}

func TestOnSlotFreed_OffersEarliestEntry(t *testing.T) {
	freedStart := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	freedEnd := freedStart.Add(30 * time.Minute)

	var capturedDate string
	var capturedLimit int
	repo := &mockWaitlistRepository{
		findByDoctorAndDateFunc: func(ctx context.Context, doctorID string, desiredDate string, limit int) ([]*model.WaitlistEntry, error) {
			capturedDate = desiredDate
			capturedLimit = limit
			// Repository returns arrival order; the head is the oldest.
			return []*model.WaitlistEntry{
				{ID: "64f1c0a2e3b4c5d6e7f80901", DoctorID: doctorID, PatientID: "pat-early", DesiredDate: desiredDate},
			}, nil
		},
	}
	emitter := &recordingEmitter{}
	matcher := NewMatcher(repo, emitter, testConfig())

	if err := matcher.OnSlotFreed(context.Background(), "doc-1", freedStart, freedEnd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if capturedDate != "2026-09-14" {
		t.Errorf("expected lookup by freed slot's date, got %q", capturedDate)
	}
	if capturedLimit != 1 {
		t.Errorf("expected single-entry fetch, got limit %d", capturedLimit)
	}

	if len(emitter.offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(emitter.offers))
	}
	offer := emitter.offers[0]
	if offer.PatientID != "pat-early" {
		t.Errorf("expected offer for earliest entry, got %s", offer.PatientID)
	}
	if offer.DoctorID != "doc-1" {
		t.Errorf("expected doctor doc-1, got %s", offer.DoctorID)
	}
	if !offer.StartsAt.Equal(freedStart) || !offer.EndsAt.Equal(freedEnd) {
		t.Error("expected offer to carry the freed interval")
	}
	if offer.OfferToken == "" {
		t.Error("expected a sealed offer token")
	}
}

func TestOnSlotFreed_NoEntriesIsNoOp(t *testing.T) {
	repo := &mockWaitlistRepository{
		findByDoctorAndDateFunc: func(ctx context.Context, doctorID string, desiredDate string, limit int) ([]*model.WaitlistEntry, error) {
			return []*model.WaitlistEntry{}, nil
		},
	}
	emitter := &recordingEmitter{}
	matcher := NewMatcher(repo, emitter, testConfig())

	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	if err := matcher.OnSlotFreed(context.Background(), "doc-1", start, start.Add(30*time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emitter.offers) != 0 {
		t.Errorf("expected no offers, got %d", len(emitter.offers))
	}
}

func TestOnSlotFreed_RepositoryErrorPropagates(t *testing.T) {
	repoErr := errors.New("connection reset")
	repo := &mockWaitlistRepository{
		findByDoctorAndDateFunc: func(ctx context.Context, doctorID string, desiredDate string, limit int) ([]*model.WaitlistEntry, error) {
			return nil, repoErr
		},
	}
	emitter := &recordingEmitter{}
	matcher := NewMatcher(repo, emitter, testConfig())

	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	err := matcher.OnSlotFreed(context.Background(), "doc-1", start, start.Add(30*time.Minute))
	if !errors.Is(err, repoErr) {
		t.Errorf("expected repository error, got %v", err)
	}
	if len(emitter.offers) != 0 {
		t.Errorf("expected no offers on error, got %d", len(emitter.offers))
	}
}

func TestOnSlotFreed_UsesUTCDateForLookup(t *testing.T) {
	// 23:30 in UTC-5 is 04:30 next day in UTC; the queue is keyed by UTC date.
	loc := time.FixedZone("UTC-5", -5*3600)
	freedStart := time.Date(2026, 9, 13, 23, 30, 0, 0, loc)

	var capturedDate string
	repo := &mockWaitlistRepository{
		findByDoctorAndDateFunc: func(ctx context.Context, doctorID string, desiredDate string, limit int) ([]*model.WaitlistEntry, error) {
			capturedDate = desiredDate
			return nil, nil
		},
	}
	matcher := NewMatcher(repo, &recordingEmitter{}, testConfig())

	if err := matcher.OnSlotFreed(context.Background(), "doc-1", freedStart, freedStart.Add(30*time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedDate != "2026-09-14" {
		t.Errorf("expected UTC date 2026-09-14, got %q", capturedDate)
	}
}
