package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"procal/internal/holds/service"
	httputil "procal/pkg/http"
	"procal/pkg/logger"
)

type HoldHandler struct {
	service service.HoldService
	log     *logger.Logger
}

func NewHoldHandler(service service.HoldService, log *logger.Logger) *HoldHandler {
	return &HoldHandler{
		service: service,
		log:     log,
	}
}

type createHoldRequest struct {
	UserID     string `json:"user_id"`
	SlotStart  string `json:"slot_start"`
	SlotEnd    string `json:"slot_end"`
	TTLSeconds int    `json:"ttl_sec"`
}

type holdResponse struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *HoldHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	proID := ps.ByName("proId")
	if proID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "proId parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Create", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req createHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	slotStart, err := httputil.ExtractRFC3339("slot_start", req.SlotStart)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	slotEnd, err := httputil.ExtractRFC3339("slot_end", req.SlotEnd)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	lock, err := h.service.CreateHold(r.Context(), service.CreateHoldInput{
		ProID:      proID,
		UserID:     req.UserID,
		SlotStart:  slotStart,
		SlotEnd:    slotEnd,
		TTLSeconds: req.TTLSeconds,
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, holdResponse{ID: lock.ID, ExpiresAt: lock.TTL}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

type releaseHoldRequest struct {
	SlotStart string `json:"slot_start"`
}

func (h *HoldHandler) Release(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	proID := ps.ByName("proId")
	if proID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "proId parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Release", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req releaseHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Release", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	slotStart, err := httputil.ExtractRFC3339("slot_start", req.SlotStart)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Release", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.ReleaseHold(r.Context(), proID, slotStart); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Release", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, nil); err != nil {
		h.log.Error("failed to write success response", "handler", "Release", "operation", "WriteSuccess", "error", err)
	}
}

type convertHoldRequest struct {
	SlotStart string `json:"slot_start"`
	UserID    string `json:"user_id"`
}

func (h *HoldHandler) Convert(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	proID := ps.ByName("proId")
	if proID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "proId parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Convert", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req convertHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Convert", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	slotStart, err := httputil.ExtractRFC3339("slot_start", req.SlotStart)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Convert", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	booking, err := h.service.ConvertToBooking(r.Context(), proID, slotStart, req.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Convert", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Convert", "operation", "WriteCreated", "error", err)
	}
}

func (h *HoldHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/pros/:proId/holds", h.Create)
	router.POST("/api/v1/pros/:proId/holds/release", h.Release)
	router.POST("/api/v1/pros/:proId/holds/convert", h.Convert)
}
