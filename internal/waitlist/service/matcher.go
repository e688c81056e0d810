package service

import (
	"context"
	"time"

	"medsched/internal/events"
	"medsched/internal/waitlist/repository"
	"medsched/pkg/config"
	"medsched/pkg/sealer"
)

// Matcher offers freed slots to waitlisted patients, first come first
// served. An offer is a notification with a sealed token, not a booking:
// the entry stays on the waitlist until the patient acts.
type Matcher struct {
	repo    repository.WaitlistRepository
	emitter events.Emitter
	cfg     *config.Config
}

func NewMatcher(repo repository.WaitlistRepository, emitter events.Emitter, cfg *config.Config) *Matcher {
	return &Matcher{
		repo:    repo,
		emitter: emitter,
		cfg:     cfg,
	}
}

// OnSlotFreed finds the earliest-joined entry for the doctor on the freed
// slot's day and publishes an offer for it. No entry means no-op.
func (m *Matcher) OnSlotFreed(ctx context.Context, doctorID string, startsAt, endsAt time.Time) error {
	desiredDate := startsAt.UTC().Format("2006-01-02")

	entries, err := m.repo.FindByDoctorAndDate(ctx, doctorID, desiredDate, 1)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		m.cfg.Log.Debug("No waitlist entries for freed slot",
			"doctor_id", doctorID,
			"desired_date", desiredDate,
		)
		return nil
	}

	head := entries[0]

	token, err := sealer.SealOffer(doctorID, startsAt)
	if err != nil {
		return err
	}

	m.emitter.SlotOffer(ctx, events.SlotOfferEvent{
		EntryID:    head.ID,
		DoctorID:   doctorID,
		PatientID:  head.PatientID,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		OfferToken: token,
	})

	m.cfg.Log.Info("Slot offer published",
		"entry_id", head.ID,
		"doctor_id", doctorID,
		"patient_id", head.PatientID,
		"starts_at", startsAt,
	)
	return nil
}
