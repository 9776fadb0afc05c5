package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/mealboard/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           8080,
		ShareSecret:    "test-secret",
		ShareIssuer:    "mealboard",
		ShareTTLHours:  24,
		ExportMaxItems: 500,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv := New(testConfig(), nil)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestPlanToGroceryListFlow(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodPost, "/v1/meals", map[string]any{
		"name":               "Spaghetti",
		"ingredients":        []string{"Pasta", "Tomato Sauce"},
		"family_preferences": []string{"dad"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create meal: expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var meal struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&meal); err != nil {
		t.Fatalf("failed to decode meal: %v", err)
	}

	w = doJSON(t, h, http.MethodPut, "/v1/meal-plans/2024-01-15", map[string]any{
		"meal_slot": "dinner",
		"meal_id":   meal.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("assign: expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, "/v1/calendar/day/2024-01-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("calendar day: expected status 200, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/v1/grocery-lists", map[string]any{
		"name":          "Week of Jan 14",
		"week_start":    "2024-01-14",
		"auto_generate": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create list: expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var list struct {
		ID    string `json:"id"`
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}

	w = doJSON(t, h, http.MethodGet, "/v1/grocery-lists/"+list.ID+"/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("expected text/csv, got %q", got)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/v1/profiles", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestAccessLogMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := AccessLogMiddleware(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/meals", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/v1/meals" {
		t.Errorf("expected path=/v1/meals, got %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("expected status=418, got %v", fields["status"])
	}
}

func TestAccessLogMiddlewareServerError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := AccessLogMiddleware(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/meals", nil))

	if n := logs.FilterMessage("request failed").Len(); n != 1 {
		t.Errorf("expected 1 error entry, got %d", n)
	}
}
