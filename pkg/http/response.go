// Package http carries the response envelope shared by every handler. The
// list and create envelopes ({"items":[{"objectData":…}]} and
// {"objectData":…}) are the store's external wire contract and must not
// change shape.
package http

import (
	"encoding/json"
	"net/http"

	apperrors "yoyaku/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// Item wraps one stored entity in the list envelope.
type Item struct {
	ObjectData any `json:"objectData"`
}

type ListResponse struct {
	Items []Item `json:"items"`
}

type ObjectResponse struct {
	Success    bool `json:"success"`
	ObjectData any  `json:"objectData"`
}

type CountResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	resp := ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Code == apperrors.CodeInternal {
		// Never leak wrapped causes to clients.
		resp = ErrorResponse{Error: "Internal server error"}
	}
	return WriteJSON(w, status, resp)
}

// WriteItems renders a collection in the store list envelope.
func WriteItems[T any](w http.ResponseWriter, entities []T) error {
	items := make([]Item, len(entities))
	for i, e := range entities {
		items[i] = Item{ObjectData: e}
	}
	return WriteJSON(w, http.StatusOK, ListResponse{Items: items})
}

// WriteCreated renders a newly stored entity in the create envelope.
func WriteCreated(w http.ResponseWriter, entity any) error {
	return WriteJSON(w, http.StatusCreated, ObjectResponse{
		Success:    true,
		ObjectData: entity,
	})
}

func WriteSuccess(w http.ResponseWriter, entity any) error {
	return WriteJSON(w, http.StatusOK, ObjectResponse{
		Success:    true,
		ObjectData: entity,
	})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteDeletedCount reports how many rows a sweep removed.
func WriteDeletedCount(w http.ResponseWriter, count int) error {
	return WriteJSON(w, http.StatusOK, CountResponse{
		Success:      true,
		DeletedCount: count,
	})
}
