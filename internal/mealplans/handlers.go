package mealplans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fdg312/mealboard/internal/planning"
)

// Handler handles HTTP requests for meal plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new meal plans handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/meal-plans?start_date=&end_date= or ?week_start=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		items []MealPlanDTO
		err   error
	)

	switch {
	case q.Get("week_start") != "":
		items, err = h.service.GetWeek(r.Context(), q.Get("week_start"))
	case q.Get("start_date") != "" || q.Get("end_date") != "":
		items, err = h.service.GetRange(r.Context(), q.Get("start_date"), q.Get("end_date"))
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "week_start or start_date and end_date are required")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListMealPlansResponse{MealPlans: items})
}

// HandleGetDay handles GET /v1/meal-plans/{date}
func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	day, err := h.service.GetDay(r.Context(), r.PathValue("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// HandleUpsertDay handles POST /v1/meal-plans
func (h *Handler) HandleUpsertDay(w http.ResponseWriter, r *http.Request) {
	var req UpsertDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	day, err := h.service.UpsertDay(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// HandleAssign handles PUT /v1/meal-plans/{date}
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req AssignSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	day, err := h.service.Assign(r.Context(), r.PathValue("date"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// HandleCopyWeek handles POST /v1/meal-plans/copy-week
func (h *Handler) HandleCopyWeek(w http.ResponseWriter, r *http.Request) {
	var req CopyWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	result, err := h.service.CopyWeek(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleCopyMonth handles POST /v1/meal-plans/copy-month
func (h *Handler) HandleCopyMonth(w http.ResponseWriter, r *http.Request) {
	var req CopyMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	result, err := h.service.CopyMonth(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGetMonth handles GET /v1/meal-plans/month/{year}/{month}
func (h *Handler) HandleGetMonth(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(r.PathValue("year"))
	month, err2 := strconv.Atoi(r.PathValue("month"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "year and month must be integers")
		return
	}

	items, err := h.service.GetMonth(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListMealPlansResponse{MealPlans: items})
}

// HandleWeeksWithPlans handles GET /v1/meal-plans/weeks-with-plans
func (h *Handler) HandleWeeksWithPlans(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.service.WeeksWithPlans(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WeeksWithPlansResponse{Weeks: weeks})
}

// HandleMonthsWithPlans handles GET /v1/meal-plans/months-with-plans
func (h *Handler) HandleMonthsWithPlans(w http.ResponseWriter, r *http.Request) {
	months, err := h.service.MonthsWithPlans(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MonthsWithPlansResponse{Months: months})
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
