package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"procal/internal/calendars/service"
	httputil "procal/pkg/http"
	"procal/pkg/logger"
	"procal/pkg/model"
)

type CalendarHandler struct {
	service service.CalendarService
	log     *logger.Logger
}

func NewCalendarHandler(service service.CalendarService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log,
	}
}

func (h *CalendarHandler) Put(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	proID := ps.ByName("proId")
	if proID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "proId parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Put", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var cal model.Calendar
	if err := json.NewDecoder(r.Body).Decode(&cal); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Put", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	cal.ProID = proID

	if err := h.service.Upsert(r.Context(), &cal); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Put", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, cal); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	proID := ps.ByName("proId")
	if proID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "proId parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Get", "operation", "WriteJSON", "error", err)
		}
		return
	}

	cal, err := h.service.GetByProID(r.Context(), proID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, cal); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) PutException(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	proID := ps.ByName("proId")
	date := ps.ByName("date")
	if proID == "" || date == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "proId and date parameters are required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "PutException", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var exc model.CalendarException
	if err := json.NewDecoder(r.Body).Decode(&exc); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "PutException", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	exc.ProID = proID
	exc.Date = date

	if err := h.service.PutException(r.Context(), &exc); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PutException", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, exc); err != nil {
		h.log.Error("failed to write success response", "handler", "PutException", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) DeleteException(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	proID := ps.ByName("proId")
	date := ps.ByName("date")
	if proID == "" || date == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "proId and date parameters are required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "DeleteException", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.DeleteException(r.Context(), proID, date); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteException", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/pros/:proId/calendar", h.Put)
	router.GET("/api/v1/pros/:proId/calendar", h.Get)
	router.PUT("/api/v1/pros/:proId/exceptions/:date", h.PutException)
	router.DELETE("/api/v1/pros/:proId/exceptions/:date", h.DeleteException)
}
