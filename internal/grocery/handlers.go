package grocery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fdg312/mealboard/internal/planning"
)

// Handler handles HTTP requests for grocery lists.
type Handler struct {
	service       *Service
	exporter      *Exporter
	sharer        *Sharer
	publicBaseURL string
}

// NewHandler creates a new grocery handler. publicBaseURL overrides the
// request host in links handed back to clients.
func NewHandler(service *Service, exporter *Exporter, sharer *Sharer, publicBaseURL string) *Handler {
	return &Handler{
		service:       service,
		exporter:      exporter,
		sharer:        sharer,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// HandleList handles GET /v1/grocery-lists
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListGroceryListsResponse{GroceryLists: lists})
}

// HandleCreate handles POST /v1/grocery-lists
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	list, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// HandleGet handles GET /v1/grocery-lists/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleDelete handles DELETE /v1/grocery-lists/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGrouped handles GET /v1/grocery-lists/{id}/grouped
func (h *Handler) HandleGrouped(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.Grouped(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

// HandleAddItem handles POST /v1/grocery-lists/{id}/items
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	item, err := h.service.AddItem(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HandleUpdateItem handles PUT /v1/grocery-lists/{id}/items/{item_id}
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	list, err := h.service.UpdateItem(r.Context(), r.PathValue("id"), r.PathValue("item_id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleRemoveItem handles DELETE /v1/grocery-lists/{id}/items/{item_id}
func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveItem(r.Context(), r.PathValue("id"), r.PathValue("item_id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDownload handles GET /v1/grocery-lists/{id}/export?format=csv|pdf
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	list, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, err := h.exporter.Render(list, format)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"grocery-list-%s.%s\"", list.ID, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleExport handles POST /v1/grocery-lists/{id}/export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	// the body is optional
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	format, err := ParseFormat(req.Format)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	list, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.exporter.Publish(r.Context(), list, format, h.baseURL(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleShare handles POST /v1/grocery-lists/{id}/share
func (h *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, expiresAt, err := h.sharer.Issue(list.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ShareResponse{
		Token:     token,
		URL:       h.baseURL(r) + "/v1/shared/grocery-lists/" + token,
		ExpiresAt: expiresAt.UTC(),
	})
}

// HandleShared handles GET /v1/shared/grocery-lists/{token}
func (h *Handler) HandleShared(w http.ResponseWriter, r *http.Request) {
	listID, err := h.sharer.Verify(r.PathValue("token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_share_token", "Share link is invalid or expired")
		return
	}

	grouped, err := h.service.Grouped(r.Context(), listID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (h *Handler) baseURL(r *http.Request) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	return getBaseURL(r)
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planning.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, planning.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
	case errors.Is(err, planning.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
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
