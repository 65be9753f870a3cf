// The Store type is the entity store gateway: uniform list/create/delete
// over the three entity kinds, backed by the reservation service's REST
// surface. Reads retry with backoff and then fail hard — the gateway never
// substitutes fabricated data, so every caller observes the same state.
// Writes are single-attempt and propagate failures unmodified.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
)

// Kind names one storable entity type.
type Kind string

const (
	KindUser        Kind = "user"
	KindEquipment   Kind = "equipment"
	KindReservation Kind = "reservation"
)

func (k Kind) endpoint() string {
	switch k {
	case KindUser:
		return "/api/v1/users"
	case KindEquipment:
		return "/api/v1/equipment"
	case KindReservation:
		return "/api/v1/reservations"
	}
	panic(fmt.Sprintf("client: unknown entity kind %q", k))
}

type listEnvelope struct {
	Items []struct {
		ObjectData json.RawMessage `json:"objectData"`
	} `json:"items"`
}

type objectEnvelope struct {
	Success    bool            `json:"success"`
	ObjectData json.RawMessage `json:"objectData"`
}

type Store struct {
	http  *HttpClient
	retry RetryPolicy

	mu    sync.RWMutex
	token string
}

func NewStore(baseURL string, retry RetryPolicy) *Store {
	return &Store{
		http:  NewHttpClient(baseURL),
		retry: retry,
	}
}

// WaitForHealthy blocks until the store's health endpoint answers, or maxWait
// elapses.
func (s *Store) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	return s.http.WaitForHealthy(ctx, maxWait)
}

// SetAdminToken installs the bearer credential used on admin-gated writes.
func (s *Store) SetAdminToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Store) headers() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + s.token}
}

// List fetches every entity of the given kind, retrying transient failures
// per the gateway's retry policy before surfacing a hard error.
func (s *Store) List(ctx context.Context, kind Kind) ([]json.RawMessage, error) {
	var raw []json.RawMessage

	err := s.retry.Do(ctx, fmt.Sprintf("list %s", kind), func() error {
		resp, err := s.http.GET(ctx, kind.endpoint(), nil)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("list %s: unexpected status %d: %s", kind, resp.StatusCode, GetErrorMessage(resp))
		}

		var env listEnvelope
		if err := resp.DecodeJSON(&env); err != nil {
			return fmt.Errorf("list %s: malformed response: %w", kind, err)
		}

		raw = raw[:0]
		for _, item := range env.Items {
			raw = append(raw, item.ObjectData)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func listAs[T any](ctx context.Context, s *Store, kind Kind) ([]T, error) {
	raw, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, data := range raw {
		var entity T
		if err := json.Unmarshal(data, &entity); err != nil {
			return nil, fmt.Errorf("list %s: malformed entity: %w", kind, err)
		}
		out = append(out, entity)
	}
	return out, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	return listAs[model.User](ctx, s, KindUser)
}

func (s *Store) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	return listAs[model.Equipment](ctx, s, KindEquipment)
}

func (s *Store) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	return listAs[model.Reservation](ctx, s, KindReservation)
}

// Create stores a new entity in a single attempt. The id and creation
// timestamp are assigned by the service; the payload must not carry an id.
// Failures propagate unmodified to the caller.
func (s *Store) Create(ctx context.Context, kind Kind, payload any, out any) error {
	resp, err := s.http.POST(ctx, kind.endpoint(), payload, s.headers())
	if err != nil {
		return err
	}
	if err := errorFromStatus(resp, kind); err != nil {
		return err
	}

	var env objectEnvelope
	if err := resp.DecodeJSON(&env); err != nil {
		return fmt.Errorf("create %s: malformed response: %w", kind, err)
	}
	if out != nil {
		if err := json.Unmarshal(env.ObjectData, out); err != nil {
			return fmt.Errorf("create %s: malformed entity: %w", kind, err)
		}
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	var created model.User
	err := s.Create(ctx, KindUser, user, &created)
	return created, err
}

func (s *Store) CreateEquipment(ctx context.Context, eq model.Equipment) (model.Equipment, error) {
	var created model.Equipment
	err := s.Create(ctx, KindEquipment, eq, &created)
	return created, err
}

func (s *Store) CreateReservation(ctx context.Context, r model.Reservation) (model.Reservation, error) {
	var created model.Reservation
	err := s.Create(ctx, KindReservation, r, &created)
	return created, err
}

// Delete removes one entity in a single attempt. A missing id surfaces as a
// not-found failure so callers can report it; it never crashes the gateway.
func (s *Store) Delete(ctx context.Context, kind Kind, id string) error {
	resp, err := s.http.DELETE(ctx, kind.endpoint()+"/"+url.PathEscape(id), s.headers())
	if err != nil {
		return err
	}
	return errorFromStatus(resp, kind)
}

// AuthenticateAdmin exchanges the shared admin password for a bearer token
// and installs it for subsequent admin-gated calls.
func (s *Store) AuthenticateAdmin(ctx context.Context, password string) (string, error) {
	resp, err := s.http.POST(ctx, "/api/v1/auth/admin", map[string]string{"password": password}, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Unauthorized(GetErrorMessage(resp))
	}

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return "", fmt.Errorf("admin auth: malformed response: %w", err)
	}
	s.SetAdminToken(body.Token)
	return body.Token, nil
}

// CleanOldReservations asks the service to purge reservations older than the
// retention window and returns the number of rows removed.
func (s *Store) CleanOldReservations(ctx context.Context, days int) (int, error) {
	path := fmt.Sprintf("/api/v1/reservations/utility/clean-old?days=%d", days)
	resp, err := s.http.DELETE(ctx, path, s.headers())
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("clean-old: unexpected status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var body struct {
		Success      bool `json:"success"`
		DeletedCount int  `json:"deletedCount"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return 0, fmt.Errorf("clean-old: malformed response: %w", err)
	}
	return body.DeletedCount, nil
}

func errorFromStatus(resp *Response, kind Kind) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(string(kind))
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(GetErrorMessage(resp))
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return apperrors.New(apperrors.CodeValidation, GetErrorMessage(resp), resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(GetErrorMessage(resp))
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden(GetErrorMessage(resp))
	default:
		return fmt.Errorf("%s request failed with status %d: %s", kind, resp.StatusCode, GetErrorMessage(resp))
	}
}
