package suggestions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/mealboard/internal/planning"
)

// Handler handles HTTP requests for AI meal suggestions.
type Handler struct {
	service *Service
}

// NewHandler creates a new suggestions handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSuggest handles POST /v1/suggestions
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	suggestion, err := h.service.Suggest(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestionResponse{Suggestion: suggestion})
}

// HandleAccept handles POST /v1/suggestions/accept
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	meal, err := h.service.Accept(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

// HandleImport handles POST /v1/suggestions/import
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	suggestion, err := h.service.ImportURL(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestionResponse{Suggestion: suggestion})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planning.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ErrUpstream):
		writeError(w, http.StatusBadGateway, "ai_unavailable", "Suggestion service is unavailable")
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
