package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"medsched/internal/events"
	"medsched/internal/appointments/repository"
	appterrors "medsched/internal/appointments/errors"
	"medsched/internal/appointments/validator"
	"medsched/internal/policy"
	schedulerrors "medsched/internal/schedules/errors"
	"medsched/pkg/config"
	mongotx "medsched/pkg/db/mongo"
	apperrors "medsched/pkg/errors"
	"medsched/pkg/logger"
	"medsched/pkg/model"
)

// Mock repository for testing
type mockAppointmentRepository struct {
	createFunc               func(ctx context.Context, appt *model.Appointment) error
	findByIDFunc             func(ctx context.Context, id string) (*model.Appointment, error)
	findAllFunc              func(ctx context.Context, limit int, offset int64) ([]*model.Appointment, error)
	updateFunc               func(ctx context.Context, id string, appt *model.Appointment) (*mongo.UpdateResult, error)
	findByDoctorAndRangeFunc func(ctx context.Context, doctorID string, startsAt, endsAt *time.Time, limit int, offset int64) ([]*model.Appointment, error)
	countByDoctorFunc        func(ctx context.Context, doctorID string, startsAt, endsAt *time.Time) (int64, error)
	countFunc                func(ctx context.Context) (int64, error)
}

func (m *mockAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, appt)
	}
	appt.ID = "64f1c0a2e3b4c5d6e7f80999"
	return nil
}

func (m *mockAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, appterrors.ErrNotFound
}

func (m *mockAppointmentRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Appointment, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Appointment{}, nil
}

func (m *mockAppointmentRepository) Update(ctx context.Context, id string, appt *model.Appointment) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, appt)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockAppointmentRepository) FindByDoctorAndRange(ctx context.Context, doctorID string, startsAt, endsAt *time.Time, limit int, offset int64) ([]*model.Appointment, error) {
	if m.findByDoctorAndRangeFunc != nil {
		return m.findByDoctorAndRangeFunc(ctx, doctorID, startsAt, endsAt, limit, offset)
	}
	return []*model.Appointment{}, nil
}

func (m *mockAppointmentRepository) CountByDoctorAndRange(ctx context.Context, doctorID string, startsAt, endsAt *time.Time) (int64, error) {
	if m.countByDoctorFunc != nil {
		return m.countByDoctorFunc(ctx, doctorID, startsAt, endsAt)
	}
	return 0, nil
}

func (m *mockAppointmentRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockAppointmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockHoldRepository struct {
	createFunc func(ctx context.Context, hold *model.AppointmentHold) (*model.AppointmentHold, error)
	deleteFunc func(ctx context.Context, holdID string) error
	deleted    []string
}

func (m *mockHoldRepository) Create(ctx context.Context, hold *model.AppointmentHold) (*model.AppointmentHold, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, hold)
	}
	return hold, nil
}

func (m *mockHoldRepository) Delete(ctx context.Context, holdID string) error {
	m.deleted = append(m.deleted, holdID)
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, holdID)
	}
	return nil
}

type mockScheduleFinder struct {
	findFunc func(ctx context.Context, doctorID string) (*model.DoctorSchedule, error)
}

func (m *mockScheduleFinder) FindByDoctorID(ctx context.Context, doctorID string) (*model.DoctorSchedule, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, doctorID)
	}
	return nil, errors.New("no schedule")
}

type mockMatcher struct {
	calls []freedSlot
	err   error
}

type freedSlot struct {
	doctorID string
	startsAt time.Time
	endsAt   time.Time
}

func (m *mockMatcher) OnSlotFreed(_ context.Context, doctorID string, startsAt, endsAt time.Time) error {
	m.calls = append(m.calls, freedSlot{doctorID: doctorID, startsAt: startsAt, endsAt: endsAt})
	return m.err
}

type recordingEmitter struct {
	events.NopEmitter
	transitions []string
}

func (r *recordingEmitter) AppointmentTransition(_ context.Context, eventType string, _ *model.Appointment, _ config.AppointmentStatus) {
	r.transitions = append(r.transitions, eventType)
}

func duplicateKeyErr() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000}},
	}
}

func newTestService(repo repository.AppointmentRepository, holdRepo repository.AppointmentHoldRepository, matcher SlotFreedNotifier, emitter events.Emitter) AppointmentService {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:               log,
		SlotHoldTTL:       10 * time.Second,
		CancelCutoffHours: 12,
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return NewAppointmentService(
		repo,
		holdRepo,
		&mockScheduleFinder{},
		validator.NewAppointmentValidator(log),
		policy.NewEngine(cfg.CancelCutoffHours),
		emitter,
		matcher,
		cfg,
	)
}

func futureAppointment(hoursAhead int) *model.Appointment {
	starts := time.Now().Add(time.Duration(hoursAhead) * time.Hour).UTC().Truncate(time.Minute)
	return &model.Appointment{
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		StartsAt:  starts,
		EndsAt:    starts.Add(30 * time.Minute),
	}
}

func storedAppointment(id string, status config.AppointmentStatus, hoursAhead int) *model.Appointment {
	a := futureAppointment(hoursAhead)
	a.ID = id
	a.Status = status
	return a
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestCreateBooking_Success(t *testing.T) {
	var created *model.Appointment
	repo := &mockAppointmentRepository{
		createFunc: func(ctx context.Context, appt *model.Appointment) error {
			appt.ID = "64f1c0a2e3b4c5d6e7f80999"
			created = appt
			return nil
		},
	}
	holdRepo := &mockHoldRepository{}
	emitter := &recordingEmitter{}
	svc := newTestService(repo, holdRepo, &mockMatcher{}, emitter)

	appt := futureAppointment(48)
	if err := svc.CreateBooking(context.Background(), appt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected appointment to be persisted")
	}
	if created.Status != config.Booked {
		t.Errorf("expected status %s, got %s", config.Booked, created.Status)
	}
	if len(holdRepo.deleted) != 1 {
		t.Errorf("expected hold to be released exactly once, got %d", len(holdRepo.deleted))
	}
	if len(emitter.transitions) != 1 || emitter.transitions[0] != events.TypeAppointmentBooked {
		t.Errorf("expected booked event, got %v", emitter.transitions)
	}
}

func TestCreateBooking_OverlapConflict(t *testing.T) {
	existing := storedAppointment("64f1c0a2e3b4c5d6e7f80001", config.Booked, 48)

	createCalled := false
	repo := &mockAppointmentRepository{
		findByDoctorAndRangeFunc: func(ctx context.Context, doctorID string, startsAt, endsAt *time.Time, limit int, offset int64) ([]*model.Appointment, error) {
			return []*model.Appointment{existing}, nil
		},
		createFunc: func(ctx context.Context, appt *model.Appointment) error {
			createCalled = true
			return nil
		},
	}
	holdRepo := &mockHoldRepository{}
	svc := newTestService(repo, holdRepo, &mockMatcher{}, nil)

	// Same interval as the existing appointment.
	appt := futureAppointment(48)
	err := svc.CreateBooking(context.Background(), appt)
	if err == nil {
		t.Fatal("expected slot conflict, got nil")
	}
	if code := appErrCode(t, err); code != apperrors.CodeSlotConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeSlotConflict, code)
	}
	if createCalled {
		t.Error("expected create to be skipped on conflict")
	}
	if len(holdRepo.deleted) != 1 {
		t.Error("expected hold to be released after conflict")
	}
}

func TestCreateBooking_CancelledRecordDoesNotBlock(t *testing.T) {
	cancelled := storedAppointment("64f1c0a2e3b4c5d6e7f80001", config.Cancelled, 48)

	repo := &mockAppointmentRepository{
		findByDoctorAndRangeFunc: func(ctx context.Context, doctorID string, startsAt, endsAt *time.Time, limit int, offset int64) ([]*model.Appointment, error) {
			return []*model.Appointment{cancelled}, nil
		},
	}
	svc := newTestService(repo, &mockHoldRepository{}, &mockMatcher{}, nil)

	if err := svc.CreateBooking(context.Background(), futureAppointment(48)); err != nil {
		t.Fatalf("expected cancelled record to free the slot, got %v", err)
	}
}

func TestCreateBooking_ConcurrentHoldConflict(t *testing.T) {
	txnCalled := false
	repo := &mockAppointmentRepository{
		findByDoctorAndRangeFunc: func(ctx context.Context, doctorID string, startsAt, endsAt *time.Time, limit int, offset int64) ([]*model.Appointment, error) {
			txnCalled = true
			return nil, nil
		},
	}
	holdRepo := &mockHoldRepository{
		createFunc: func(ctx context.Context, hold *model.AppointmentHold) (*model.AppointmentHold, error) {
			return nil, duplicateKeyErr()
		},
	}
	svc := newTestService(repo, holdRepo, &mockMatcher{}, nil)

	err := svc.CreateBooking(context.Background(), futureAppointment(48))
	if err == nil {
		t.Fatal("expected conflict when hold is already taken")
	}
	if code := appErrCode(t, err); code != apperrors.CodeSlotConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeSlotConflict, code)
	}
	if txnCalled {
		t.Error("expected overlap check to be skipped when the hold is contested")
	}
}

func TestCreateBooking_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockAppointmentRepository{}, &mockHoldRepository{}, &mockMatcher{}, nil)

	appt := futureAppointment(48)
	appt.PatientID = ""

	err := svc.CreateBooking(context.Background(), appt)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if code := appErrCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %s", apperrors.CodeValidation, code)
	}
}

func TestApprove_Transitions(t *testing.T) {
	tests := []struct {
		name     string
		from     config.AppointmentStatus
		wantCode string
	}{
		{name: "booked can be approved", from: config.Booked, wantCode: ""},
		{name: "confirmed cannot be approved again", from: config.Confirmed, wantCode: apperrors.CodeInvalidTransition},
		{name: "cancelled is terminal", from: config.Cancelled, wantCode: apperrors.CodeInvalidTransition},
		{name: "rejected is terminal", from: config.Rejected, wantCode: apperrors.CodeInvalidTransition},
		{name: "rescheduled is terminal", from: config.Rescheduled, wantCode: apperrors.CodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updated *model.Appointment
			repo := &mockAppointmentRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
					return storedAppointment(id, tt.from, 48), nil
				},
				updateFunc: func(ctx context.Context, id string, appt *model.Appointment) (*mongo.UpdateResult, error) {
					updated = appt
					return &mongo.UpdateResult{MatchedCount: 1}, nil
				},
			}
			emitter := &recordingEmitter{}
			svc := newTestService(repo, &mockHoldRepository{}, &mockMatcher{}, emitter)

			appt, err := svc.Approve(context.Background(), "64f1c0a2e3b4c5d6e7f80001")
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if updated == nil || updated.Status != config.Confirmed {
					t.Error("expected status to become CONFIRMED")
				}
				if appt == nil || appt.Status != config.Confirmed {
					t.Error("expected the confirmed record to be returned")
				}
				if len(emitter.transitions) != 1 || emitter.transitions[0] != events.TypeAppointmentConfirmed {
					t.Errorf("expected confirmed event, got %v", emitter.transitions)
				}
				return
			}
			if err == nil {
				t.Fatal("expected transition error")
			}
			if code := appErrCode(t, err); code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, code)
			}
			if updated != nil {
				t.Error("expected no update on invalid transition")
			}
		})
	}
}

func TestReject_OnlyFromBooked(t *testing.T) {
	matcher := &mockMatcher{}
	repo := &mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(id, config.Booked, 48), nil
		},
	}
	svc := newTestService(repo, &mockHoldRepository{}, matcher, nil)

	rejected, err := svc.Reject(context.Background(), "64f1c0a2e3b4c5d6e7f80001", "double booked")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected == nil || rejected.Status != config.Rejected {
		t.Error("expected the rejected record to be returned")
	}
	if rejected != nil && rejected.Reason != "double booked" {
		t.Errorf("expected reason to be recorded, got %q", rejected.Reason)
	}
	if len(matcher.calls) != 1 {
		t.Error("expected rejection to free the slot for the waitlist")
	}

	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Appointment, error) {
		return storedAppointment(id, config.Confirmed, 48), nil
	}
	_, err = svc.Reject(context.Background(), "64f1c0a2e3b4c5d6e7f80001", "")
	if err == nil {
		t.Fatal("expected transition error for confirmed appointment")
	}
	if code := appErrCode(t, err); code != apperrors.CodeInvalidTransition {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidTransition, code)
	}
}

func TestCancel_CutoffEnforcement(t *testing.T) {
	tests := []struct {
		name       string
		hoursAhead int
		role       config.ActorRole
		wantCode   string
	}{
		{name: "patient outside cutoff succeeds", hoursAhead: 13, role: config.RolePatient, wantCode: ""},
		{name: "patient inside cutoff blocked", hoursAhead: 11, role: config.RolePatient, wantCode: apperrors.CodeCutoffViolation},
		{name: "staff inside cutoff succeeds", hoursAhead: 11, role: config.RoleStaff, wantCode: ""},
		{name: "doctor inside cutoff succeeds", hoursAhead: 1, role: config.RoleDoctor, wantCode: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updated *model.Appointment
			repo := &mockAppointmentRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
					return storedAppointment(id, config.Confirmed, tt.hoursAhead), nil
				},
				updateFunc: func(ctx context.Context, id string, appt *model.Appointment) (*mongo.UpdateResult, error) {
					updated = appt
					return &mongo.UpdateResult{MatchedCount: 1}, nil
				},
			}
			matcher := &mockMatcher{}
			svc := newTestService(repo, &mockHoldRepository{}, matcher, nil)

			appt, err := svc.Cancel(context.Background(), "64f1c0a2e3b4c5d6e7f80001", tt.role)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if updated == nil || updated.Status != config.Cancelled {
					t.Error("expected status to become CANCELLED")
				}
				if appt == nil || appt.Status != config.Cancelled {
					t.Error("expected the cancelled record to be returned")
				}
				if len(matcher.calls) != 1 {
					t.Error("expected waitlist notification after cancel")
				}
				return
			}
			if err == nil {
				t.Fatal("expected cutoff violation")
			}
			if code := appErrCode(t, err); code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, code)
			}
			if updated != nil {
				t.Error("expected no update when policy blocks the cancel")
			}
			if len(matcher.calls) != 0 {
				t.Error("expected no waitlist notification when cancel is blocked")
			}
		})
	}
}

func TestCancel_MatcherFailureDoesNotUndoCancel(t *testing.T) {
	repo := &mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(id, config.Booked, 48), nil
		},
	}
	matcher := &mockMatcher{err: errors.New("kafka unreachable")}
	svc := newTestService(repo, &mockHoldRepository{}, matcher, nil)

	if _, err := svc.Cancel(context.Background(), "64f1c0a2e3b4c5d6e7f80001", config.RoleStaff); err != nil {
		t.Fatalf("cancel must succeed even when matching fails, got %v", err)
	}
}

func TestCancel_TerminalStateRejected(t *testing.T) {
	repo := &mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(id, config.Cancelled, 48), nil
		},
	}
	svc := newTestService(repo, &mockHoldRepository{}, &mockMatcher{}, nil)

	_, err := svc.Cancel(context.Background(), "64f1c0a2e3b4c5d6e7f80001", config.RoleStaff)
	if err == nil {
		t.Fatal("expected transition error")
	}
	if code := appErrCode(t, err); code != apperrors.CodeInvalidTransition {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidTransition, code)
	}
}

func TestReschedule_RetiresOriginalAndCreatesReplacement(t *testing.T) {
	original := storedAppointment("64f1c0a2e3b4c5d6e7f80001", config.Confirmed, 48)

	var created *model.Appointment
	var updated *model.Appointment
	repo := &mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			copy := *original
			return &copy, nil
		},
		createFunc: func(ctx context.Context, appt *model.Appointment) error {
			appt.ID = "64f1c0a2e3b4c5d6e7f80002"
			created = appt
			return nil
		},
		updateFunc: func(ctx context.Context, id string, appt *model.Appointment) (*mongo.UpdateResult, error) {
			updated = appt
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	matcher := &mockMatcher{}
	emitter := &recordingEmitter{}
	svc := newTestService(repo, &mockHoldRepository{}, matcher, emitter)

	newStart := time.Now().Add(96 * time.Hour).UTC().Truncate(time.Minute)
	req := &model.RescheduleRequest{
		StartsAt: newStart,
		EndsAt:   newStart.Add(30 * time.Minute),
	}

	replacement, err := svc.Reschedule(context.Background(), original.ID, req, config.RoleStaff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil || created.Status != config.Booked {
		t.Fatal("expected replacement to be created as BOOKED")
	}
	if replacement.PatientID != original.PatientID {
		t.Error("expected replacement to keep the patient")
	}
	if updated == nil || updated.Status != config.Rescheduled {
		t.Fatal("expected original to be retired as RESCHEDULED")
	}
	if updated.RescheduledTo != "64f1c0a2e3b4c5d6e7f80002" {
		t.Errorf("expected audit link to replacement, got %q", updated.RescheduledTo)
	}
	if len(matcher.calls) != 1 {
		t.Fatal("expected old interval to be offered to the waitlist")
	}
	if !matcher.calls[0].startsAt.Equal(original.StartsAt) {
		t.Error("expected freed interval to be the original slot")
	}
	if len(emitter.transitions) != 2 {
		t.Errorf("expected rescheduled and booked events, got %v", emitter.transitions)
	}
}

func TestReschedule_ConflictLeavesOriginalUntouched(t *testing.T) {
	original := storedAppointment("64f1c0a2e3b4c5d6e7f80001", config.Booked, 48)
	blocker := storedAppointment("64f1c0a2e3b4c5d6e7f80003", config.Booked, 96)

	updateCalled := false
	repo := &mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			copy := *original
			return &copy, nil
		},
		findByDoctorAndRangeFunc: func(ctx context.Context, doctorID string, startsAt, endsAt *time.Time, limit int, offset int64) ([]*model.Appointment, error) {
			return []*model.Appointment{blocker}, nil
		},
		updateFunc: func(ctx context.Context, id string, appt *model.Appointment) (*mongo.UpdateResult, error) {
			updateCalled = true
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	matcher := &mockMatcher{}
	svc := newTestService(repo, &mockHoldRepository{}, matcher, nil)

	req := &model.RescheduleRequest{
		StartsAt: blocker.StartsAt,
		EndsAt:   blocker.EndsAt,
	}

	_, err := svc.Reschedule(context.Background(), original.ID, req, config.RoleStaff)
	if err == nil {
		t.Fatal("expected slot conflict")
	}
	if code := appErrCode(t, err); code != apperrors.CodeSlotConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeSlotConflict, code)
	}
	if updateCalled {
		t.Error("expected original to stay untouched on conflict")
	}
	if len(matcher.calls) != 0 {
		t.Error("expected no waitlist notification on failed reschedule")
	}
}

func TestReschedule_PatientInsideCutoffBlocked(t *testing.T) {
	repo := &mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(id, config.Booked, 5), nil
		},
	}
	svc := newTestService(repo, &mockHoldRepository{}, &mockMatcher{}, nil)

	newStart := time.Now().Add(96 * time.Hour).UTC()
	req := &model.RescheduleRequest{StartsAt: newStart, EndsAt: newStart.Add(30 * time.Minute)}

	_, err := svc.Reschedule(context.Background(), "64f1c0a2e3b4c5d6e7f80001", req, config.RolePatient)
	if err == nil {
		t.Fatal("expected cutoff violation")
	}
	if code := appErrCode(t, err); code != apperrors.CodeCutoffViolation {
		t.Errorf("expected %s, got %s", apperrors.CodeCutoffViolation, code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&mockAppointmentRepository{}, &mockHoldRepository{}, &mockMatcher{}, nil)

	_, err := svc.GetByID(context.Background(), "64f1c0a2e3b4c5d6e7f80404")
	if err == nil {
		t.Fatal("expected not found")
	}
	if code := appErrCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, code)
	}
}

func TestGetAll_CountAndListTogether(t *testing.T) {
	repo := &mockAppointmentRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(5 * time.Millisecond)
			return 7, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Appointment, error) {
			time.Sleep(5 * time.Millisecond)
			return []*model.Appointment{storedAppointment("64f1c0a2e3b4c5d6e7f80001", config.Booked, 48)}, nil
		},
	}
	svc := newTestService(repo, &mockHoldRepository{}, &mockMatcher{}, nil)

	for i := 0; i < 10; i++ {
		appointments, count, err := svc.GetAll(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if count != 7 {
			t.Errorf("iteration %d: expected count 7, got %d", i, count)
		}
		if len(appointments) != 1 {
			t.Errorf("iteration %d: expected 1 appointment, got %d", i, len(appointments))
		}
	}
}

func TestGetSlots_NoTemplateMeansNoAvailability(t *testing.T) {
	log := logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log, SlotHoldTTL: 10 * time.Second}

	svc := NewAppointmentService(
		&mockAppointmentRepository{},
		&mockHoldRepository{},
		&mockScheduleFinder{findFunc: func(ctx context.Context, doctorID string) (*model.DoctorSchedule, error) {
			return nil, schedulerrors.ErrNotFound
		}},
		validator.NewAppointmentValidator(log),
		policy.NewEngine(12),
		events.NopEmitter{},
		&mockMatcher{},
		cfg,
	)

	slots, err := svc.GetSlots(context.Background(), "doc-unknown", time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots, got %d", len(slots))
	}
}
