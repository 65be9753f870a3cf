package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"yoyaku/internal/auth"
	"yoyaku/internal/equipment/service"
	httputil "yoyaku/pkg/http"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

type EquipmentHandler struct {
	service   service.EquipmentService
	adminOnly auth.Guard
	log       *logger.Logger
}

func NewEquipmentHandler(service service.EquipmentService, adminOnly auth.Guard, log *logger.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		service:   service,
		adminOnly: adminOnly,
		log:       log,
	}
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var equipment model.Equipment
	if err := json.NewDecoder(r.Body).Decode(&equipment); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &equipment); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, equipment); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *EquipmentHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	equipment, err := h.service.GetAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteItems(w, equipment); err != nil {
		h.log.Error("failed to write list response", "handler", "GetAll", "operation", "WriteItems", "error", err)
	}
}

func (h *EquipmentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	equipment, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, equipment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EquipmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/equipment", h.GetAll)
	router.GET("/api/v1/equipment/id/:id", h.GetByID)
	router.POST("/api/v1/equipment", h.adminOnly(h.Create))
	router.DELETE("/api/v1/equipment/:id", h.adminOnly(h.Delete))
}
