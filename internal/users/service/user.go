package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	userserrors "yoyaku/internal/users/errors"
	"yoyaku/internal/users/repository"
	"yoyaku/internal/users/validator"
	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/locale"
	"yoyaku/pkg/model"
	"yoyaku/pkg/sanitizer"
)

// ReservationCascade is the slice of the reservation repository needed to
// cascade a user deletion.
type ReservationCascade interface {
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}

type UserService interface {
	Create(ctx context.Context, user *model.User) error
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo            repository.UserRepository
	reservationRepo ReservationCascade
	validator       *validator.UserValidator
	cfg             *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	reservationRepo ReservationCascade,
	validator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:            repo,
		reservationRepo: reservationRepo,
		validator:       validator,
		cfg:             cfg,
	}
}

func (s *userService) Create(ctx context.Context, user *model.User) error {
	user.ID = ""
	s.sanitize(user)
	if err := s.validator.Validate(user); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.cfg.Log.Error("Failed to create user", "error", err)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID, "kana", user.Kana)
	return nil
}

// CreateIfAbsent creates the user unless another user with the same kana
// reading already exists. Returns true when a user was created.
func (s *userService) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	s.sanitize(user)
	if err := s.validator.Validate(user); err != nil {
		return false, err
	}

	_, err := s.repo.FindByKana(ctx, user.Kana)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, userserrors.ErrNotFound):
		// Proceed with creation.
	default:
		return false, apperrors.Internal("Failed to check existing user", err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return false, apperrors.Internal("Failed to create user", err)
	}
	return true, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

// GetAll lists users in kana order under Japanese collation. The database
// sort is byte-wise, so the collation-aware ordering is applied here and
// holds regardless of insertion order.
func (s *userService) GetAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to retrieve users", err)
	}

	locale.SortByKana(users, func(u *model.User) string { return u.Kana })
	return users, nil
}

// Delete removes the user and every reservation they hold in one
// transaction.
func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	var cascaded int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, userserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("User", id)
			}
			if errors.Is(err, userserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid user ID format")
			}
			return apperrors.Internal("Failed to delete user", err)
		}

		deleted, err := s.reservationRepo.DeleteByUserID(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete user reservations", err)
		}
		cascaded = deleted
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("User deleted successfully", "id", id, "cascaded_reservations", cascaded)
	return nil
}

func (s *userService) sanitize(u *model.User) {
	u.Name = sanitizer.NormalizeName(u.Name)
	u.Kana = sanitizer.NormalizeKana(u.Kana)
	u.Department = sanitizer.TrimAndNormalize(u.Department)
	u.Email = sanitizer.NormalizeEmail(u.Email)
}
