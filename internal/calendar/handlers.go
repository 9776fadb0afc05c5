package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fdg312/mealboard/internal/planning"
)

// Handler handles HTTP requests for calendar views.
type Handler struct {
	service *Service
}

// NewHandler creates a new calendar handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleMonth handles GET /v1/calendar/month/{year}/{month}
func (h *Handler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(r.PathValue("year"))
	month, err2 := strconv.Atoi(r.PathValue("month"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "year and month must be integers")
		return
	}

	resp, err := h.service.Month(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleWeeks handles GET /v1/calendar/weeks?start_date=&end_date=
func (h *Handler) HandleWeeks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.Weeks(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDay handles GET /v1/calendar/day/{date}
func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Day(r.Context(), r.PathValue("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planning.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, planning.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}
