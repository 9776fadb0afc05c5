package ai

import (
	"context"
)

// Provider produces meal suggestions from a free-text prompt.
type Provider interface {
	SuggestMeal(ctx context.Context, req SuggestRequest) (MealSuggestion, error)
}

// SuggestRequest is the input of a suggestion. SourceText, when set, is page
// text the suggestion should be extracted from instead of invented.
type SuggestRequest struct {
	Prompt     string
	Dietary    []string
	Cuisine    string
	Difficulty string
	FamilyKeys []string
	SourceText string
	SourceURL  string
}

// MealSuggestion is a Meal-shaped draft plus suggested family tags.
type MealSuggestion struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Recipe      string   `json:"recipe"`
	FamilyTags  []string `json:"family_tags"`
	Cuisine     string   `json:"cuisine"`
	Difficulty  string   `json:"difficulty"`
	PrepMinutes int      `json:"prep_minutes"`
}
