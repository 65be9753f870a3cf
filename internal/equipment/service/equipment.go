package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	equipmenterrors "yoyaku/internal/equipment/errors"
	"yoyaku/internal/equipment/repository"
	"yoyaku/internal/equipment/validator"
	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
	"yoyaku/pkg/sanitizer"
)

// ReservationCascade is the slice of the reservation repository needed to
// cascade an equipment deletion.
type ReservationCascade interface {
	DeleteByEquipmentID(ctx context.Context, equipmentID string) (int64, error)
}

type EquipmentService interface {
	Create(ctx context.Context, equipment *model.Equipment) error
	CreateIfAbsent(ctx context.Context, equipment *model.Equipment) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
	GetAll(ctx context.Context) ([]*model.Equipment, error)
	Delete(ctx context.Context, id string) error
}

type equipmentService struct {
	repo            repository.EquipmentRepository
	reservationRepo ReservationCascade
	validator       *validator.EquipmentValidator
	cfg             *config.Config
}

func NewEquipmentService(
	repo repository.EquipmentRepository,
	reservationRepo ReservationCascade,
	validator *validator.EquipmentValidator,
	cfg *config.Config,
) EquipmentService {
	return &equipmentService{
		repo:            repo,
		reservationRepo: reservationRepo,
		validator:       validator,
		cfg:             cfg,
	}
}

func (s *equipmentService) Create(ctx context.Context, equipment *model.Equipment) error {
	equipment.ID = ""
	s.sanitize(equipment)
	if err := s.validator.Validate(equipment); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, equipment); err != nil {
		s.cfg.Log.Error("Failed to create equipment", "error", err)
		return apperrors.Internal("Failed to create equipment", err)
	}

	s.cfg.Log.Info("Equipment created successfully", "id", equipment.ID, "name", equipment.Name)
	return nil
}

// CreateIfAbsent creates the equipment unless an item with the same name
// already exists. Returns true when an item was created.
func (s *equipmentService) CreateIfAbsent(ctx context.Context, equipment *model.Equipment) (bool, error) {
	s.sanitize(equipment)
	if err := s.validator.Validate(equipment); err != nil {
		return false, err
	}

	_, err := s.repo.FindByName(ctx, equipment.Name)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, equipmenterrors.ErrNotFound):
		// Proceed with creation.
	default:
		return false, apperrors.Internal("Failed to check existing equipment", err)
	}

	if err := s.repo.Create(ctx, equipment); err != nil {
		return false, apperrors.Internal("Failed to create equipment", err)
	}
	return true, nil
}

func (s *equipmentService) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Equipment ID cannot be empty")
	}

	equipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, equipmenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Equipment", id)
		}
		if errors.Is(err, equipmenterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid equipment ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve equipment", err)
	}

	return equipment, nil
}

func (s *equipmentService) GetAll(ctx context.Context) ([]*model.Equipment, error) {
	equipment, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list equipment", "error", err)
		return nil, apperrors.Internal("Failed to retrieve equipment", err)
	}
	return equipment, nil
}

// Delete removes the equipment and every reservation against it in one
// transaction.
func (s *equipmentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Equipment ID cannot be empty")
	}

	var cascaded int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, equipmenterrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Equipment", id)
			}
			if errors.Is(err, equipmenterrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid equipment ID format")
			}
			return apperrors.Internal("Failed to delete equipment", err)
		}

		deleted, err := s.reservationRepo.DeleteByEquipmentID(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete equipment reservations", err)
		}
		cascaded = deleted
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Equipment deleted successfully", "id", id, "cascaded_reservations", cascaded)
	return nil
}

func (s *equipmentService) sanitize(e *model.Equipment) {
	e.Name = sanitizer.NormalizeName(e.Name)
	e.Description = sanitizer.TrimAndNormalize(e.Description)
}
