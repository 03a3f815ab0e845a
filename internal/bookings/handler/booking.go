package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"procal/internal/bookings/service"
	apperrors "procal/pkg/errors"
	httputil "procal/pkg/http"
	"procal/pkg/logger"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListByPro(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	q := service.ListQuery{
		ProID:  ps.ByName("proId"),
		Status: query.Get("status"),
	}

	var err error
	if q.From, err = optionalTime(query.Get("from")); err != nil {
		h.writeError(w, "ListByPro", err)
		return
	}
	if q.To, err = optionalTime(query.Get("to")); err != nil {
		h.writeError(w, "ListByPro", err)
		return
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		q.Limit, err = strconv.Atoi(limitStr)
		if err != nil {
			h.writeError(w, "ListByPro", apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr)))
			return
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		q.Offset, err = strconv.ParseInt(offsetStr, 10, 64)
		if err != nil {
			h.writeError(w, "ListByPro", apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr)))
			return
		}
	}

	bookings, total, err := h.service.List(r.Context(), q)
	if err != nil {
		h.writeError(w, "ListByPro", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, q.Limit, q.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByPro", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Confirm(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteSuccess", "error", err)
	}
}

type cancelBookingRequest struct {
	RefundAmount  int64 `json:"refund_amount"`
	PenaltyAmount int64 `json:"penalty_amount"`
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// An empty body cancels with zero refund and zero penalty.
	var req cancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Cancel", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"), req.RefundAmount, req.PenaltyAmount)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Complete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func optionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid RFC 3339 timestamp: %s", value))
	}
	return &t, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/pros/:proId/bookings", h.ListByPro)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.POST("/api/v1/bookings/:id/confirm", h.Confirm)
	router.POST("/api/v1/bookings/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/:id/complete", h.Complete)
}
