package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"procal/internal/availability/service"
	apperrors "procal/pkg/errors"
	httputil "procal/pkg/http"
	"procal/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	proID := ps.ByName("proId")
	if proID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "proId parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Get", "operation", "WriteJSON", "error", err)
		}
		return
	}

	from, err := httputil.ExtractDate(r, "from")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	to, err := httputil.ExtractDate(r, "to")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	stepMin := 0
	if s := r.URL.Query().Get("step_min"); s != "" {
		stepMin, err = strconv.Atoi(s)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid step_min parameter: "+s)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	availability, err := h.service.GetAvailability(r.Context(), proID, from, to, stepMin)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/pros/:proId/availability", h.Get)
}
