package meals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage/memory"
)

type recordingUsage struct {
	calls [][]string
}

func (r *recordingUsage) RecordUsage(ctx context.Context, names []string) {
	r.calls = append(r.calls, names)
}

func setupMeals(t *testing.T) (*Handler, *Service, *recordingUsage) {
	t.Helper()
	mem := memory.New()
	usage := &recordingUsage{}
	service := NewService(mem.GetMealsStorage(), usage)
	return NewHandler(service), service, usage
}

func routedMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/meals", h.HandleList)
	mux.HandleFunc("POST /v1/meals", h.HandleCreate)
	mux.HandleFunc("GET /v1/meals/{id}", h.HandleGet)
	mux.HandleFunc("PUT /v1/meals/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /v1/meals/{id}", h.HandleDelete)
	mux.HandleFunc("GET /v1/family-members", h.HandleFamilyMembers)
	return mux
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	_, service, usage := setupMeals(t)
	ctx := context.Background()

	req := CreateMealRequest{
		Name:              "Pasta",
		Ingredients:       []string{"Pasta", "Tomato Sauce"},
		Recipe:            "Boil, then sauce.",
		FamilyPreferences: []string{"mom", "baby"},
	}
	created, err := service.Create(ctx, req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected id to be assigned")
	}

	got, found, err := service.Get(ctx, created.ID)
	if err != nil || !found {
		t.Fatalf("expected meal to be found, found=%v err=%v", found, err)
	}
	if got.Name != req.Name || got.Recipe != req.Recipe {
		t.Errorf("expected %q/%q, got %q/%q", req.Name, req.Recipe, got.Name, got.Recipe)
	}
	if !reflect.DeepEqual(got.Ingredients, req.Ingredients) {
		t.Errorf("expected ingredients %v, got %v", req.Ingredients, got.Ingredients)
	}
	if !reflect.DeepEqual(got.FamilyPreferences, req.FamilyPreferences) {
		t.Errorf("expected preferences %v, got %v", req.FamilyPreferences, got.FamilyPreferences)
	}
	if len(usage.calls) != 1 || len(usage.calls[0]) != 2 {
		t.Errorf("expected one usage call with 2 names, got %v", usage.calls)
	}
}

func TestCreate_Validation(t *testing.T) {
	_, service, _ := setupMeals(t)

	cases := []struct {
		name string
		req  CreateMealRequest
	}{
		{"blank name", CreateMealRequest{Name: "  ", Ingredients: []string{"x"}}},
		{"no ingredients", CreateMealRequest{Name: "Soup"}},
		{"blank ingredients", CreateMealRequest{Name: "Soup", Ingredients: []string{" ", ""}}},
		{"unknown member", CreateMealRequest{Name: "Soup", Ingredients: []string{"x"}, FamilyPreferences: []string{"uncle"}}},
		{"duplicate member", CreateMealRequest{Name: "Soup", Ingredients: []string{"x"}, FamilyPreferences: []string{"dad", "Dad"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tc.req)
			if !errors.Is(err, planning.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreate_RecipeOptional(t *testing.T) {
	_, service, _ := setupMeals(t)
	if _, err := service.Create(context.Background(), CreateMealRequest{Name: "Toast", Ingredients: []string{"Bread"}}); err != nil {
		t.Fatalf("expected recipe to be optional, got %v", err)
	}
}

func TestUpdate_MergesPatch(t *testing.T) {
	_, service, usage := setupMeals(t)
	ctx := context.Background()

	created, _ := service.Create(ctx, CreateMealRequest{Name: "Curry", Ingredients: []string{"Rice"}, Recipe: "Simmer"})
	name := "Green Curry"
	updated, err := service.Update(ctx, created.ID, UpdateMealRequest{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Green Curry" || updated.Recipe != "Simmer" {
		t.Errorf("expected merged fields, got name=%q recipe=%q", updated.Name, updated.Recipe)
	}
	if len(usage.calls) != 1 {
		t.Errorf("expected no usage call when ingredients untouched, got %d calls", len(usage.calls))
	}

	empty := []string{}
	if _, err := service.Update(ctx, created.ID, UpdateMealRequest{Ingredients: &empty}); !errors.Is(err, planning.ErrValidation) {
		t.Errorf("expected ErrValidation for empty ingredients, got %v", err)
	}
}

func TestUpdate_RecordsOnlyAddedIngredients(t *testing.T) {
	_, service, usage := setupMeals(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateMealRequest{Name: "Tacos", Ingredients: []string{"Tortillas", "Beef"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	same := []string{"tortillas", "Beef"}
	if _, err := service.Update(ctx, created.ID, UpdateMealRequest{Ingredients: &same}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(usage.calls) != 1 {
		t.Fatalf("expected resaving the same ingredients to record nothing, got %v", usage.calls)
	}

	more := []string{"Tortillas", "Beef", "Salsa"}
	if _, err := service.Update(ctx, created.ID, UpdateMealRequest{Ingredients: &more}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(usage.calls) != 2 || !reflect.DeepEqual(usage.calls[1], []string{"Salsa"}) {
		t.Errorf("expected only Salsa to be recorded, got %v", usage.calls)
	}
}

func TestHandleUpdate_NotFound(t *testing.T) {
	handler, _, _ := setupMeals(t)
	mux := routedMux(handler)

	req := httptest.NewRequest(http.MethodPut, "/v1/meals/missing", bytes.NewReader([]byte(`{"name":"x"}`)))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleDelete_Idempotent(t *testing.T) {
	handler, service, _ := setupMeals(t)
	mux := routedMux(handler)
	created, _ := service.Create(context.Background(), CreateMealRequest{Name: "Soup", Ingredients: []string{"Water"}})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/v1/meals/"+created.ID, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected status 204, got %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/meals/"+created.ID, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", w.Code)
	}
}

func TestHandleCreateAndList(t *testing.T) {
	handler, _, _ := setupMeals(t)
	mux := routedMux(handler)

	for _, name := range []string{"Pancakes", "Salad"} {
		body, _ := json.Marshal(CreateMealRequest{Name: name, Ingredients: []string{"Eggs"}})
		req := httptest.NewRequest(http.MethodPost, "/v1/meals", bytes.NewReader(body))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d body=%s", w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/meals", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var resp ListMealsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Meals) != 2 || resp.Meals[0].Name != "Pancakes" || resp.Meals[1].Name != "Salad" {
		t.Errorf("expected [Pancakes, Salad], got %+v", resp.Meals)
	}
}

func TestHandleCreate_InvalidBody(t *testing.T) {
	handler, _, _ := setupMeals(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/meals", bytes.NewReader([]byte(`{`)))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleFamilyMembers(t *testing.T) {
	handler, _, _ := setupMeals(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/family-members", nil)
	w := httptest.NewRecorder()
	handler.HandleFamilyMembers(w, req)

	var members map[string]string
	if err := json.NewDecoder(w.Body).Decode(&members); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(members) != 7 {
		t.Errorf("expected 7 members, got %d", len(members))
	}
	if members["baby"] != "👶" {
		t.Errorf("expected baby emoji, got %q", members["baby"])
	}
}
