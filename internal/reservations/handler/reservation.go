package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"yoyaku/internal/auth"
	"yoyaku/internal/reservations/service"
	"yoyaku/internal/retention"
	apperrors "yoyaku/pkg/errors"
	httputil "yoyaku/pkg/http"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

const cleanOldPath = "utility/clean-old"

type ReservationHandler struct {
	service   service.ReservationService
	sweeper   *retention.Sweeper
	adminOnly auth.Guard
	log       *logger.Logger
}

func NewReservationHandler(
	service service.ReservationService,
	sweeper *retention.Sweeper,
	adminOnly auth.Guard,
	log *logger.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		service:   service,
		sweeper:   sweeper,
		adminOnly: adminOnly,
		log:       log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &reservation); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reservations, err := h.service.GetAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteItems(w, reservations); err != nil {
		h.log.Error("failed to write list response", "handler", "GetAll", "operation", "WriteItems", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) SetCheckedOut(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetCheckedOut", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.service.SetCheckedOut(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetCheckedOut", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "SetCheckedOut", "operation", "WriteSuccess", "error", err)
	}
}

// deleteDispatch routes DELETE /api/v1/reservations/* by hand: the cleanup
// endpoint lives under the same prefix as deletion by id, which httprouter
// cannot express as two routes.
func (h *ReservationHandler) deleteDispatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	path := strings.Trim(ps.ByName("path"), "/")

	if path == cleanOldPath {
		h.cleanOld(w, r)
		return
	}

	if path == "" || strings.Contains(path, "/") {
		if writeErr := httputil.WriteError(w, apperrors.NotFound("Route")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "deleteDispatch", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	h.delete(w, r, path)
}

func (h *ReservationHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) cleanOld(w http.ResponseWriter, r *http.Request) {
	days := -1
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 0 {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid days parameter: %s", daysStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "cleanOld", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		days = parsed
	}

	result, err := h.sweeper.SweepNow(r.Context(), days)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "cleanOld", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteDeletedCount(w, result.DeletedCount()); err != nil {
		h.log.Error("failed to write count response", "handler", "cleanOld", "operation", "WriteDeletedCount", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetAll)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/:id", h.adminOnly(h.SetCheckedOut))
	router.DELETE("/api/v1/reservations/*path", h.deleteDispatch)
}
