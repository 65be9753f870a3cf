package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	userserrors "yoyaku/internal/users/errors"
	"yoyaku/internal/users/validator"
	"yoyaku/pkg/config"
	mongotx "yoyaku/pkg/db/mongo"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

type mockUserRepo struct {
	createFn     func(ctx context.Context, user *model.User) error
	findByIDFn   func(ctx context.Context, id string) (*model.User, error)
	findByKanaFn func(ctx context.Context, kana string) (*model.User, error)
	findAllFn    func(ctx context.Context) ([]*model.User, error)
	deleteFn     func(ctx context.Context, id string) error
	countFn      func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	return m.createFn(ctx, u)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepo) FindByKana(ctx context.Context, kana string) (*model.User, error) {
	return m.findByKanaFn(ctx, kana)
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	return m.findAllFn(ctx)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockUserRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockCascade struct {
	deleteByUserIDFn func(ctx context.Context, userID string) (int64, error)
}

func (m *mockCascade) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	return m.deleteByUserIDFn(ctx, userID)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: "text", Service: "test"}),
	}
}

func TestGetAllSortsByKanaRegardlessOfStoredOrder(t *testing.T) {
	// Two permutations of the same users must list identically.
	orderings := [][]*model.User{
		{
			{ID: "u3", Name: "田中", Kana: "たなか"},
			{ID: "u1", Name: "佐藤", Kana: "さとう"},
			{ID: "u2", Name: "鈴木", Kana: "すずき"},
		},
		{
			{ID: "u2", Name: "鈴木", Kana: "すずき"},
			{ID: "u3", Name: "田中", Kana: "たなか"},
			{ID: "u1", Name: "佐藤", Kana: "さとう"},
		},
	}
	want := []string{"u1", "u2", "u3"}

	for i, stored := range orderings {
		repo := &mockUserRepo{
			findAllFn: func(_ context.Context) ([]*model.User, error) {
				return stored, nil
			},
		}
		svc := NewUserService(repo, &mockCascade{}, validator.NewUserValidator(), testConfig())

		users, err := svc.GetAll(context.Background())
		if err != nil {
			t.Fatalf("ordering %d: unexpected error: %v", i, err)
		}
		for j, u := range users {
			if u.ID != want[j] {
				t.Errorf("ordering %d: position %d = %s, want %s", i, j, u.ID, want[j])
			}
		}
	}
}

func TestCreateValidatesAndSanitizes(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(_ context.Context, u *model.User) error {
			u.ID = "generated-id"
			created = u
			return nil
		},
	}
	svc := NewUserService(repo, &mockCascade{}, validator.NewUserValidator(), testConfig())

	user := &model.User{Name: "  佐藤  一郎 ", Kana: " さとう いちろう ", Department: "総務部"}
	if err := svc.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Name != "佐藤 一郎" {
		t.Errorf("name = %q, want normalized whitespace", created.Name)
	}
	if user.ID != "generated-id" {
		t.Errorf("id = %q, want server-assigned id", user.ID)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, &mockCascade{}, validator.NewUserValidator(), testConfig())

	err := svc.Create(context.Background(), &model.User{Name: "佐藤"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("code = %q, want %q", apperrors.AsAppError(err).Code, apperrors.CodeInvalidInput)
	}
}

func TestCreateIfAbsentSkipsExistingKana(t *testing.T) {
	repo := &mockUserRepo{
		findByKanaFn: func(_ context.Context, kana string) (*model.User, error) {
			if kana == "さとう" {
				return &model.User{ID: "u1", Kana: kana}, nil
			}
			return nil, userserrors.ErrNotFound
		},
		createFn: func(_ context.Context, u *model.User) error {
			u.ID = "new-id"
			return nil
		},
	}
	svc := NewUserService(repo, &mockCascade{}, validator.NewUserValidator(), testConfig())

	created, err := svc.CreateIfAbsent(context.Background(), &model.User{Name: "佐藤", Kana: "さとう", Department: "総務部"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected existing kana to be skipped")
	}

	created, err = svc.CreateIfAbsent(context.Background(), &model.User{Name: "高橋", Kana: "たかはし", Department: "営業部"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected new kana to be created")
	}
}

func TestDeleteCascadesReservations(t *testing.T) {
	var deletedUser string
	var cascadedUser string
	repo := &mockUserRepo{
		deleteFn: func(_ context.Context, id string) error {
			deletedUser = id
			return nil
		},
	}
	cascade := &mockCascade{
		deleteByUserIDFn: func(_ context.Context, userID string) (int64, error) {
			cascadedUser = userID
			return 2, nil
		},
	}
	svc := NewUserService(repo, cascade, validator.NewUserValidator(), testConfig())

	if err := svc.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedUser != "u1" || cascadedUser != "u1" {
		t.Errorf("deleted user %q, cascaded %q, want u1 for both", deletedUser, cascadedUser)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := &mockUserRepo{
		deleteFn: func(_ context.Context, _ string) error {
			return userserrors.ErrNotFound
		},
	}
	svc := NewUserService(repo, &mockCascade{}, validator.NewUserValidator(), testConfig())

	err := svc.Delete(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("code = %q, want %q", apperrors.AsAppError(err).Code, apperrors.CodeNotFound)
	}
}
