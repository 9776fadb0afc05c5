package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/mealboard/internal/ai"
	"github.com/fdg312/mealboard/internal/meals"
	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage/memory"
)

type fakeProvider struct {
	suggestion ai.MealSuggestion
	err        error
	last       ai.SuggestRequest
}

func (f *fakeProvider) SuggestMeal(ctx context.Context, req ai.SuggestRequest) (ai.MealSuggestion, error) {
	f.last = req
	return f.suggestion, f.err
}

type fakeFetcher struct {
	text string
	err  error
	url  string
}

func (f *fakeFetcher) FetchText(ctx context.Context, url string) (string, error) {
	f.url = url
	return f.text, f.err
}

func setup(t *testing.T, provider ai.Provider, fetcher PageFetcher) (*Handler, *Service, *meals.Service) {
	t.Helper()
	mem := memory.New()
	mealService := meals.NewService(mem.GetMealsStorage(), nil)
	service := NewService(provider, mealService, fetcher, nil)
	return NewHandler(service), service, mealService
}

func TestSuggest_FiltersFamilyTags(t *testing.T) {
	provider := &fakeProvider{suggestion: ai.MealSuggestion{
		Name:        " Tacos ",
		Ingredients: []string{"Tortillas", " ", "Beef"},
		FamilyTags:  []string{"Dad", "cousin", "dad", "baby"},
		Difficulty:  "Easy",
	}}
	_, service, _ := setup(t, provider, nil)

	s, err := service.Suggest(context.Background(), SuggestRequest{
		Prompt:     "  taco night ",
		Dietary:    []string{"halal", ""},
		Difficulty: "EASY",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if s.Name != "Tacos" {
		t.Errorf("expected trimmed name, got %q", s.Name)
	}
	if strings.Join(s.Ingredients, ",") != "Tortillas,Beef" {
		t.Errorf("expected blank ingredients dropped, got %v", s.Ingredients)
	}
	if strings.Join(s.FamilyPreferences, ",") != "dad,baby" {
		t.Errorf("expected only known unique family tags, got %v", s.FamilyPreferences)
	}
	if provider.last.Prompt != "taco night" || provider.last.Difficulty != "easy" {
		t.Errorf("unexpected provider request %+v", provider.last)
	}
	if len(provider.last.Dietary) != 1 || len(provider.last.FamilyKeys) != len(meals.FamilyMembers) {
		t.Errorf("unexpected provider filters %+v", provider.last)
	}
}

func TestSuggest_Validation(t *testing.T) {
	_, service, _ := setup(t, &fakeProvider{}, nil)

	tests := []struct {
		name string
		req  SuggestRequest
	}{
		{"empty prompt", SuggestRequest{Prompt: "   "}},
		{"bad difficulty", SuggestRequest{Prompt: "soup", Difficulty: "extreme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Suggest(context.Background(), tt.req); !errors.Is(err, planning.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestHandleSuggest_ProviderFailure(t *testing.T) {
	handler, _, _ := setup(t, &fakeProvider{err: errors.New("quota exceeded")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/suggestions", strings.NewReader(`{"prompt":"soup"}`))
	w := httptest.NewRecorder()
	handler.HandleSuggest(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
}

func TestHandleSuggest_MockProvider(t *testing.T) {
	handler, _, _ := setup(t, ai.NewMockProvider(), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/suggestions", strings.NewReader(`{"prompt":"vegetarian lunch","difficulty":"medium"}`))
	w := httptest.NewRecorder()
	handler.HandleSuggest(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp SuggestionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Suggestion.Name == "" || len(resp.Suggestion.Ingredients) == 0 {
		t.Fatalf("expected a meal-shaped suggestion, got %+v", resp.Suggestion)
	}
	if resp.Suggestion.Difficulty != "medium" {
		t.Errorf("expected difficulty medium, got %s", resp.Suggestion.Difficulty)
	}
}

func TestHandleAccept_PersistsMeal(t *testing.T) {
	handler, _, mealService := setup(t, &fakeProvider{}, nil)

	body := `{"name":"Tacos","ingredients":["Tortillas","Beef"],"recipe":"Cook.","family_preferences":["dad","alien"]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/suggestions/accept", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleAccept(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", w.Code, w.Body.String())
	}
	var meal meals.MealDTO
	if err := json.NewDecoder(w.Body).Decode(&meal); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	stored, found, err := mealService.Get(context.Background(), meal.ID)
	if err != nil || !found {
		t.Fatalf("expected accepted meal in catalog, found=%v err=%v", found, err)
	}
	if len(stored.FamilyPreferences) != 1 || stored.FamilyPreferences[0] != "dad" {
		t.Errorf("expected unknown tags dropped, got %v", stored.FamilyPreferences)
	}
}

func TestHandleAccept_InvalidMeal(t *testing.T) {
	handler, _, _ := setup(t, &fakeProvider{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/suggestions/accept", strings.NewReader(`{"name":"Nothing","ingredients":[]}`))
	w := httptest.NewRecorder()
	handler.HandleAccept(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestImportURL(t *testing.T) {
	provider := &fakeProvider{suggestion: ai.MealSuggestion{Name: "Shakshuka", Ingredients: []string{"Eggs", "Tomatoes"}}}
	fetcher := &fakeFetcher{text: "Shakshuka recipe eggs tomatoes"}
	_, service, _ := setup(t, provider, fetcher)

	s, err := service.ImportURL(context.Background(), ImportRequest{URL: "https://recipes.example.com/shakshuka"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.Name != "Shakshuka" || s.SourceURL != "https://recipes.example.com/shakshuka" {
		t.Fatalf("unexpected suggestion %+v", s)
	}
	if provider.last.SourceText != fetcher.text {
		t.Errorf("expected page text passed to provider, got %q", provider.last.SourceText)
	}
}

func TestImportURL_RejectsBadURLs(t *testing.T) {
	_, service, _ := setup(t, &fakeProvider{}, &fakeFetcher{})

	for _, raw := range []string{"", "ftp://example.com/x", "/relative/path", "http://"} {
		if _, err := service.ImportURL(context.Background(), ImportRequest{URL: raw}); !errors.Is(err, planning.ErrValidation) {
			t.Errorf("expected ErrValidation for %q, got %v", raw, err)
		}
	}
}

func TestImportURL_FetchFailure(t *testing.T) {
	_, service, _ := setup(t, &fakeProvider{}, &fakeFetcher{err: errors.New("timeout")})

	if _, err := service.ImportURL(context.Background(), ImportRequest{URL: "https://example.com"}); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestImporter_StripsNoise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><style>body{}</style></head><body>
<nav>Home | About</nav>
<h1>Lentil Soup</h1>
<script>track()</script>
<div class="ads">Buy now</div>
<ul><li>Lentils</li><li>Carrots</li></ul>
<footer>Copyright</footer>
</body></html>`))
	}))
	defer server.Close()

	text, err := NewImporter(time.Second).FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "Lentil Soup LentilsCarrots" && text != "Lentil Soup Lentils Carrots" {
		t.Fatalf("unexpected text %q", text)
	}
	for _, noise := range []string{"Home", "track", "Buy now", "Copyright"} {
		if strings.Contains(text, noise) {
			t.Errorf("expected %q to be stripped", noise)
		}
	}
}

func TestImporter_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := NewImporter(time.Second).FetchText(context.Background(), server.URL); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestImporter_TruncatesLargePages(t *testing.T) {
	filler := strings.Repeat("flour ", maxImportBytes/6+1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Pancakes</p><p>" + filler + "</p><p>TAIL_MARKER</p></body></html>"))
	}))
	defer server.Close()

	text, err := NewImporter(5*time.Second).FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !strings.HasPrefix(text, "Pancakes") {
		t.Errorf("expected text to start with Pancakes, got %.40q", text)
	}
	if strings.Contains(text, "TAIL_MARKER") {
		t.Error("expected content past the read limit to be dropped")
	}
	if len(text) > maxImportBytes {
		t.Errorf("expected at most %d bytes, got %d", maxImportBytes, len(text))
	}
}
