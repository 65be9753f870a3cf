package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"yoyaku/internal/retention"
	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
	"yoyaku/pkg/timeslot"
)

type mockReservationService struct {
	createFn        func(ctx context.Context, reservation *model.Reservation) error
	getByIDFn       func(ctx context.Context, id string) (*model.Reservation, error)
	getAllFn        func(ctx context.Context) ([]*model.Reservation, error)
	setCheckedOutFn func(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (m *mockReservationService) Create(ctx context.Context, r *model.Reservation) error {
	return m.createFn(ctx, r)
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockReservationService) GetAll(ctx context.Context) ([]*model.Reservation, error) {
	return m.getAllFn(ctx)
}

func (m *mockReservationService) SetCheckedOut(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error) {
	return m.setCheckedOutFn(ctx, id, update)
}

func (m *mockReservationService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type staleRepo struct {
	reservations []*model.Reservation
	deleted      []string
}

func (r *staleRepo) FindDatedBefore(_ context.Context, cutoff string) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, res := range r.reservations {
		if res.Date < cutoff {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *staleRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func passthroughGuard(next httprouter.Handle) httprouter.Handle {
	return next
}

func newTestRouter(svc *mockReservationService, repo *staleRepo) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Format: "text", Service: "test"})
	cfg := &config.Config{Log: log, RetentionDays: 7}
	if repo == nil {
		repo = &staleRepo{}
	}

	router := httprouter.New()
	NewReservationHandler(svc, retention.NewSweeper(repo, nil, cfg), passthroughGuard, log).RegisterRoutes(router)
	return router
}

func TestGetAllWrapsItemsEnvelope(t *testing.T) {
	svc := &mockReservationService{
		getAllFn: func(_ context.Context) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{ID: "r1", Date: "2024-06-10", UserID: "u1", EquipmentID: "e1", TimeSlots: []timeslot.TimeSlot{timeslot.Period1}},
			}, nil
		},
	}
	router := newTestRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Items []struct {
			ObjectData model.Reservation `json:"objectData"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ObjectData.ID != "r1" {
		t.Errorf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestCreateReturnsObjectEnvelope(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(_ context.Context, r *model.Reservation) error {
			r.ID = "generated-id"
			return nil
		},
	}
	router := newTestRouter(svc, nil)

	payload := `{"date":"2024-06-10","userId":"u1","equipmentId":"e1","timeSlots":["1","2"]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(payload)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Success    bool              `json:"success"`
		ObjectData model.Reservation `json:"objectData"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Success || body.ObjectData.ID != "generated-id" {
		t.Errorf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestCreateConflictMapsTo409(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(_ context.Context, _ *model.Reservation) error {
			return apperrors.Conflict("slot already reserved")
		},
	}
	router := newTestRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{}`)))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestDeleteByID(t *testing.T) {
	var deleted string
	svc := &mockReservationService{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	router := newTestRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/r42", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if deleted != "r42" {
		t.Errorf("deleted id = %q, want r42", deleted)
	}
}

func TestDeleteUnknownSubpathIs404(t *testing.T) {
	svc := &mockReservationService{
		deleteFn: func(_ context.Context, _ string) error {
			t.Fatal("delete must not be reached for a nested path")
			return nil
		},
	}
	router := newTestRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/utility/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCleanOldReportsDeletedCount(t *testing.T) {
	repo := &staleRepo{reservations: []*model.Reservation{
		{ID: "r1", Date: "2000-01-01"},
		{ID: "r2", Date: "2001-01-01"},
		{ID: "r3", Date: "2999-01-01"},
	}}
	router := newTestRouter(&mockReservationService{}, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/utility/clean-old?days=7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Success      bool `json:"success"`
		DeletedCount int  `json:"deletedCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Success || body.DeletedCount != 2 {
		t.Errorf("unexpected envelope: %s", rec.Body.String())
	}
	if len(repo.deleted) != 2 {
		t.Errorf("deleted %v, want the two dated reservations", repo.deleted)
	}
}

func TestCleanOldRejectsBadDays(t *testing.T) {
	router := newTestRouter(&mockReservationService{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/utility/clean-old?days=-3", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
