package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"yoyaku/internal/events"
	reserrors "yoyaku/internal/reservations/errors"
	"yoyaku/internal/reservations/repository"
	"yoyaku/internal/reservations/validator"
	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/kafka"
	"yoyaku/pkg/model"
	"yoyaku/pkg/timeslot"
)

const (
	slotLockTTL = 10 * time.Second
	eventSource = "yoyaku-server"
)

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context) ([]*model.Reservation, error)
	SetCheckedOut(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type reservationService struct {
	repo      repository.ReservationRepository
	lockRepo  repository.SlotLockRepository
	validator *validator.ReservationValidator
	producer  *kafka.Producer
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.SlotLockRepository,
	validator *validator.ReservationValidator,
	producer *kafka.Producer,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		producer:  producer,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	reservation.ID = ""
	reservation.IsCheckedOut = false
	reservation.TimeSlots = timeslot.Sort(reservation.TimeSlots)

	sameDay, err := s.sameDayReservations(ctx, reservation)
	if err != nil {
		return err
	}
	if err := s.validator.Validate(reservation, sameDay); err != nil {
		return err
	}

	// Advisory lock serializes concurrent submissions for the same
	// equipment/day pair.
	lockID, err := s.acquireSlotLock(ctx, reservation.EquipmentID, reservation.Date)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Re-check inside the transaction: another writer may have
		// committed between validation and here.
		count, err := s.repo.CountConflicting(sessCtx, reservation.EquipmentID, reservation.Date, reservation.TimeSlots)
		if err != nil {
			return apperrors.Internal("Failed to re-check slot availability", err)
		}
		if count > 0 {
			return apperrors.Conflict(fmt.Sprintf(
				"equipment %s is already reserved on %s for an overlapping slot",
				reservation.EquipmentID, reservation.Date))
		}
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			if errors.Is(err, reserrors.ErrSlotTaken) {
				return apperrors.Conflict(err.Error())
			}
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"equipment_id", reservation.EquipmentID,
		"date", reservation.Date,
		"slots", timeslot.Strings(reservation.TimeSlots),
	)
	s.publishEvent(ctx, events.TypeReservationCreated, reservation)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context) ([]*model.Reservation, error) {
	reservations, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) SetCheckedOut(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return nil, err
	}

	reservation, err := s.repo.SetCheckedOut(ctx, id, *update.IsCheckedOut)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to update reservation", err)
	}

	s.cfg.Log.Info("Reservation checkout toggled", "id", id, "checked_out", *update.IsCheckedOut)
	return reservation, nil
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid reservation ID format")
		}
		return apperrors.Internal("Failed to check reservation existence", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		return apperrors.Internal("Failed to delete reservation", err)
	}

	s.cfg.Log.Info("Reservation deleted successfully", "id", id)
	s.publishEvent(ctx, events.TypeReservationDeleted, reservation)
	return nil
}

// --- Helpers ---

func (s *reservationService) sameDayReservations(ctx context.Context, reservation *model.Reservation) ([]*model.Reservation, error) {
	if reservation.EquipmentID == "" || reservation.Date == "" {
		// Struct validation will report the missing fields.
		return nil, nil
	}
	existing, err := s.repo.FindByEquipmentAndDate(ctx, reservation.EquipmentID, reservation.Date)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing reservations", err)
	}
	return existing, nil
}

// acquireSlotLock creates an advisory lock for the equipment/day pair.
// Returns the lock ID if successful, or conflict error if the lock is held.
func (s *reservationService) acquireSlotLock(ctx context.Context, equipmentID, date string) (string, error) {
	lockID := fmt.Sprintf("%s:%s", equipmentID, date)

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(slotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This slot is currently being reserved by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *reservationService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// publishEvent emits a lifecycle event. Publishing is best effort: a broker
// failure is logged and never fails the reservation operation.
func (s *reservationService) publishEvent(ctx context.Context, eventType string, reservation *model.Reservation) {
	payload := events.ReservationEvent{
		ReservationID: reservation.ID,
		Date:          reservation.Date,
		UserID:        reservation.UserID,
		EquipmentID:   reservation.EquipmentID,
		TimeSlots:     reservation.TimeSlots,
		OccurredAt:    time.Now().UTC(),
	}

	msg, err := kafka.NewMessage(eventType, eventSource, reservation.ID, payload)
	if err != nil {
		s.cfg.Log.Warn("Failed to build reservation event", "type", eventType, "error", err)
		return
	}
	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event", "type", eventType, "error", err)
	}
}
