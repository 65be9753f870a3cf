package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	equipmenterrors "yoyaku/internal/equipment/errors"
	"yoyaku/internal/equipment/validator"
	"yoyaku/pkg/config"
	mongotx "yoyaku/pkg/db/mongo"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

type mockEquipmentRepo struct {
	createFn     func(ctx context.Context, equipment *model.Equipment) error
	findByIDFn   func(ctx context.Context, id string) (*model.Equipment, error)
	findByNameFn func(ctx context.Context, name string) (*model.Equipment, error)
	findAllFn    func(ctx context.Context) ([]*model.Equipment, error)
	deleteFn     func(ctx context.Context, id string) error
	countFn      func(ctx context.Context) (int64, error)
}

func (m *mockEquipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	return m.createFn(ctx, e)
}

func (m *mockEquipmentRepo) FindByID(ctx context.Context, id string) (*model.Equipment, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockEquipmentRepo) FindByName(ctx context.Context, name string) (*model.Equipment, error) {
	return m.findByNameFn(ctx, name)
}

func (m *mockEquipmentRepo) FindAll(ctx context.Context) ([]*model.Equipment, error) {
	return m.findAllFn(ctx)
}

func (m *mockEquipmentRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockEquipmentRepo) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockEquipmentRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockCascade struct {
	deleteByEquipmentIDFn func(ctx context.Context, equipmentID string) (int64, error)
}

func (m *mockCascade) DeleteByEquipmentID(ctx context.Context, equipmentID string) (int64, error) {
	return m.deleteByEquipmentIDFn(ctx, equipmentID)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: "text", Service: "test"}),
	}
}

func TestCreateRejectsMissingName(t *testing.T) {
	svc := NewEquipmentService(&mockEquipmentRepo{}, &mockCascade{}, validator.NewEquipmentValidator(), testConfig())

	err := svc.Create(context.Background(), &model.Equipment{Description: "会議室のプロジェクター"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("code = %q, want %q", apperrors.AsAppError(err).Code, apperrors.CodeInvalidInput)
	}
}

func TestCreateAssignsServerID(t *testing.T) {
	repo := &mockEquipmentRepo{
		createFn: func(_ context.Context, e *model.Equipment) error {
			e.ID = "generated-id"
			return nil
		},
	}
	svc := NewEquipmentService(repo, &mockCascade{}, validator.NewEquipmentValidator(), testConfig())

	equipment := &model.Equipment{ID: "client-chosen", Name: " プロジェクター "}
	if err := svc.Create(context.Background(), equipment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if equipment.ID != "generated-id" {
		t.Errorf("id = %q, client-supplied ids must be ignored", equipment.ID)
	}
	if equipment.Name != "プロジェクター" {
		t.Errorf("name = %q, want trimmed name", equipment.Name)
	}
}

func TestCreateIfAbsentSkipsExistingName(t *testing.T) {
	repo := &mockEquipmentRepo{
		findByNameFn: func(_ context.Context, name string) (*model.Equipment, error) {
			if name == "プロジェクター" {
				return &model.Equipment{ID: "e1", Name: name}, nil
			}
			return nil, equipmenterrors.ErrNotFound
		},
		createFn: func(_ context.Context, e *model.Equipment) error {
			e.ID = "new-id"
			return nil
		},
	}
	svc := NewEquipmentService(repo, &mockCascade{}, validator.NewEquipmentValidator(), testConfig())

	created, err := svc.CreateIfAbsent(context.Background(), &model.Equipment{Name: "プロジェクター"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected existing name to be skipped")
	}

	created, err = svc.CreateIfAbsent(context.Background(), &model.Equipment{Name: "社用車"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected new name to be created")
	}
}

func TestDeleteCascadesReservations(t *testing.T) {
	var deletedEquipment, cascadedEquipment string
	repo := &mockEquipmentRepo{
		deleteFn: func(_ context.Context, id string) error {
			deletedEquipment = id
			return nil
		},
	}
	cascade := &mockCascade{
		deleteByEquipmentIDFn: func(_ context.Context, equipmentID string) (int64, error) {
			cascadedEquipment = equipmentID
			return 3, nil
		},
	}
	svc := NewEquipmentService(repo, cascade, validator.NewEquipmentValidator(), testConfig())

	if err := svc.Delete(context.Background(), "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedEquipment != "e1" || cascadedEquipment != "e1" {
		t.Errorf("deleted %q, cascaded %q, want e1 for both", deletedEquipment, cascadedEquipment)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := &mockEquipmentRepo{
		deleteFn: func(_ context.Context, _ string) error {
			return equipmenterrors.ErrNotFound
		},
	}
	svc := NewEquipmentService(repo, &mockCascade{}, validator.NewEquipmentValidator(), testConfig())

	err := svc.Delete(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("code = %q, want %q", apperrors.AsAppError(err).Code, apperrors.CodeNotFound)
	}
}
