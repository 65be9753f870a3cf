// Package retention removes reservations that have aged past the retention
// window. A sweep runs at server startup and on demand through the cleanup
// endpoint.
package retention

import (
	"context"
	"fmt"
	"time"

	"yoyaku/internal/events"
	"yoyaku/internal/reservations/repository"
	"yoyaku/pkg/config"
	"yoyaku/pkg/dateutil"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/kafka"
	"yoyaku/pkg/model"
)

const eventSource = "yoyaku-sweeper"

// ReservationSource is the slice of the reservation repository the sweeper
// needs.
type ReservationSource interface {
	FindDatedBefore(ctx context.Context, cutoff string) ([]*model.Reservation, error)
	Delete(ctx context.Context, id string) error
}

var _ ReservationSource = (repository.ReservationRepository)(nil)

// Result reports one sweep run. Failures are collected per reservation so a
// single bad delete never aborts the rest of the sweep.
type Result struct {
	Cutoff     string
	DeletedIDs []string
	Failed     map[string]error
}

func (r Result) DeletedCount() int {
	return len(r.DeletedIDs)
}

type Sweeper struct {
	repo     ReservationSource
	producer *kafka.Producer
	cfg      *config.Config
}

func NewSweeper(repo ReservationSource, producer *kafka.Producer, cfg *config.Config) *Sweeper {
	return &Sweeper{
		repo:     repo,
		producer: producer,
		cfg:      cfg,
	}
}

// Eligible reports whether a reservation dated on date should be removed
// given the reference day and retention window: strictly before
// reference minus retentionDays. With a 7 day window and reference
// 2024-06-10, 2024-06-02 goes and 2024-06-03 stays.
func Eligible(date, reference string, retentionDays int) bool {
	cutoff, err := dateutil.Cutoff(reference, retentionDays)
	if err != nil {
		return false
	}
	return dateutil.BeforeDay(date, cutoff)
}

// Sweep deletes every reservation dated strictly before
// reference − retentionDays. Each deletion is independent; failures are
// collected in the result and the sweep continues.
func (s *Sweeper) Sweep(ctx context.Context, reference string, retentionDays int) (Result, error) {
	cutoff, err := dateutil.Cutoff(reference, retentionDays)
	if err != nil {
		return Result{}, apperrors.InvalidInput(fmt.Sprintf("invalid reference day %q", reference))
	}
	result := Result{Cutoff: cutoff, Failed: map[string]error{}}

	stale, err := s.repo.FindDatedBefore(ctx, cutoff)
	if err != nil {
		s.cfg.Log.Error("Retention sweep failed to list reservations", "cutoff", cutoff, "error", err)
		return result, apperrors.Internal("Failed to list expired reservations", err)
	}

	for _, reservation := range stale {
		if err := s.repo.Delete(ctx, reservation.ID); err != nil {
			s.cfg.Log.Warn("Retention sweep failed to delete reservation",
				"id", reservation.ID, "date", reservation.Date, "error", err)
			result.Failed[reservation.ID] = err
			continue
		}
		result.DeletedIDs = append(result.DeletedIDs, reservation.ID)
		s.publishSwept(ctx, reservation)
	}

	s.cfg.Log.Info("Retention sweep completed",
		"cutoff", cutoff,
		"deleted", len(result.DeletedIDs),
		"failed", len(result.Failed),
	)
	return result, nil
}

// SweepNow runs a sweep against today's date with the given window, falling
// back to the configured retention window when days is negative.
func (s *Sweeper) SweepNow(ctx context.Context, days int) (Result, error) {
	if days < 0 {
		days = s.cfg.RetentionDays
	}
	return s.Sweep(ctx, dateutil.Today(), days)
}

func (s *Sweeper) publishSwept(ctx context.Context, reservation *model.Reservation) {
	payload := events.ReservationEvent{
		ReservationID: reservation.ID,
		Date:          reservation.Date,
		UserID:        reservation.UserID,
		EquipmentID:   reservation.EquipmentID,
		TimeSlots:     reservation.TimeSlots,
		OccurredAt:    time.Now().UTC(),
	}

	msg, err := kafka.NewMessage(events.TypeReservationSwept, eventSource, reservation.ID, payload)
	if err != nil {
		s.cfg.Log.Warn("Failed to build swept event", "id", reservation.ID, "error", err)
		return
	}
	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish swept event", "id", reservation.ID, "error", err)
	}
}
