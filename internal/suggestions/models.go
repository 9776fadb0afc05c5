package suggestions

type SuggestRequest struct {
	Prompt     string   `json:"prompt"`
	Dietary    []string `json:"dietary_restrictions"`
	Cuisine    string   `json:"cuisine_type"`
	Difficulty string   `json:"difficulty"`
}

type ImportRequest struct {
	URL string `json:"url"`
}

// SuggestionDTO is a Meal-shaped draft. It is not persisted until accepted.
type SuggestionDTO struct {
	Name              string   `json:"name"`
	Ingredients       []string `json:"ingredients"`
	Recipe            string   `json:"recipe"`
	FamilyPreferences []string `json:"family_preferences"`
	Cuisine           string   `json:"cuisine,omitempty"`
	Difficulty        string   `json:"difficulty,omitempty"`
	PrepMinutes       int      `json:"prep_minutes,omitempty"`
	SourceURL         string   `json:"source_url,omitempty"`
}

type SuggestionResponse struct {
	Suggestion SuggestionDTO `json:"suggestion"`
}

type AcceptRequest struct {
	Name              string   `json:"name"`
	Ingredients       []string `json:"ingredients"`
	Recipe            string   `json:"recipe"`
	FamilyPreferences []string `json:"family_preferences"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
