package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
	"yoyaku/pkg/timeslot"
)

func newTestStore(t *testing.T, handler http.Handler) (*Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStore(srv.URL, NewRetryPolicy(3, time.Millisecond)), srv
}

func TestList_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"items":[{"objectData":{"id":"u1","name":"山田太郎","kana":"やまだたろう","department":"総務"}}]}`))
	}))

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("server was called %d times, want 3", calls.Load())
	}
	if len(users) != 1 || users[0].Kana != "やまだたろう" {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestList_HardFailsAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := store.ListReservations(context.Background())
	if err == nil {
		t.Fatal("expected hard failure, got fabricated success")
	}
	if calls.Load() != 3 {
		t.Errorf("server was called %d times, want exactly 3", calls.Load())
	}
}

func TestList_CancelledContextStopsRetrying(t *testing.T) {
	var calls atomic.Int32
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	store.retry = NewRetryPolicy(5, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := store.List(ctx, KindEquipment)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if got := calls.Load(); got >= 5 {
		t.Errorf("retry loop ignored cancellation, %d attempts made", got)
	}
}

func TestCreate_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"store down"}`))
	}))

	_, err := store.CreateEquipment(context.Background(), model.Equipment{Name: "iPad"})
	if err == nil {
		t.Fatal("expected create failure to propagate")
	}
	if calls.Load() != 1 {
		t.Errorf("create was attempted %d times, want exactly 1", calls.Load())
	}
}

func TestCreateReservation_DecodesAssignedIdentity(t *testing.T) {
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/reservations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"objectData":{"id":"r1","date":"2024-07-01","userId":"u1","equipmentId":"e1","timeSlots":["3","4"],"createdAt":"2024-06-28T09:00:00Z"}}`))
	}))

	created, err := store.CreateReservation(context.Background(), model.Reservation{
		Date:        "2024-07-01",
		UserID:      "u1",
		EquipmentID: "e1",
		TimeSlots:   []timeslot.TimeSlot{"3", "4"},
	})
	if err != nil {
		t.Fatalf("CreateReservation returned error: %v", err)
	}
	if created.ID != "r1" {
		t.Errorf("created.ID = %q, want server-assigned id", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Error("created.CreatedAt not populated from server")
	}
}

func TestDelete_NotFoundIsReportedNotFatal(t *testing.T) {
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"reservation not found"}`))
	}))

	err := store.Delete(context.Background(), KindReservation, "missing")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("error code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestAuthenticateAdmin_InstallsBearerToken(t *testing.T) {
	var sawAuth atomic.Bool
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/admin":
			w.Write([]byte(`{"success":true,"token":"tok-123"}`))
		case "/api/v1/equipment":
			if r.Header.Get("Authorization") == "Bearer tok-123" {
				sawAuth.Store(true)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true,"objectData":{"id":"e1","name":"iPad"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	token, err := store.AuthenticateAdmin(context.Background(), "secret")
	if err != nil {
		t.Fatalf("AuthenticateAdmin returned error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q", token)
	}

	if _, err := store.CreateEquipment(context.Background(), model.Equipment{Name: "iPad"}); err != nil {
		t.Fatalf("CreateEquipment returned error: %v", err)
	}
	if !sawAuth.Load() {
		t.Error("admin token was not sent as bearer credential")
	}
}

func TestCleanOldReservations_ReturnsCount(t *testing.T) {
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/reservations/utility/clean-old" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("days") != "7" {
			t.Errorf("days = %q, want 7", r.URL.Query().Get("days"))
		}
		w.Write([]byte(`{"success":true,"deletedCount":4}`))
	}))

	count, err := store.CleanOldReservations(context.Background(), 7)
	if err != nil {
		t.Fatalf("CleanOldReservations returned error: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
}
