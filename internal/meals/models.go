package meals

import (
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
)

const (
	maxNameLength   = 200
	maxIngredients  = 100
	maxRecipeLength = 20000
)

type MealDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Ingredients       []string  `json:"ingredients"`
	Recipe            string    `json:"recipe"`
	FamilyPreferences []string  `json:"family_preferences"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateMealRequest struct {
	Name              string   `json:"name"`
	Ingredients       []string `json:"ingredients"`
	Recipe            string   `json:"recipe"`
	FamilyPreferences []string `json:"family_preferences"`
}

// UpdateMealRequest carries optional fields; nil fields keep their value.
type UpdateMealRequest struct {
	Name              *string   `json:"name"`
	Ingredients       *[]string `json:"ingredients"`
	Recipe            *string   `json:"recipe"`
	FamilyPreferences *[]string `json:"family_preferences"`
}

type ListMealsResponse struct {
	Meals []MealDTO `json:"meals"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Normalize trims fields and drops blank ingredients.
func (r *CreateMealRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Recipe = strings.TrimSpace(r.Recipe)

	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if v := strings.TrimSpace(ing); v != "" {
			ingredients = append(ingredients, v)
		}
	}
	r.Ingredients = ingredients

	prefs := make([]string, 0, len(r.FamilyPreferences))
	for _, p := range r.FamilyPreferences {
		prefs = append(prefs, strings.ToLower(strings.TrimSpace(p)))
	}
	r.FamilyPreferences = prefs
}

func (r *CreateMealRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", planning.ErrValidation)
	}
	if len(r.Name) > maxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", planning.ErrValidation, maxNameLength)
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", planning.ErrValidation)
	}
	if len(r.Ingredients) > maxIngredients {
		return fmt.Errorf("%w: ingredients cannot exceed %d", planning.ErrValidation, maxIngredients)
	}
	if len(r.Recipe) > maxRecipeLength {
		return fmt.Errorf("%w: recipe must be at most %d characters", planning.ErrValidation, maxRecipeLength)
	}

	seen := make(map[string]bool, len(r.FamilyPreferences))
	for _, p := range r.FamilyPreferences {
		if !IsFamilyMember(p) {
			return fmt.Errorf("%w: unknown family member %q", planning.ErrValidation, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate family member %q", planning.ErrValidation, p)
		}
		seen[p] = true
	}
	return nil
}

// applyTo merges the patch over an existing meal.
func (r UpdateMealRequest) applyTo(meal storage.Meal) CreateMealRequest {
	merged := CreateMealRequest{
		Name:              meal.Name,
		Ingredients:       meal.Ingredients,
		Recipe:            meal.Recipe,
		FamilyPreferences: meal.FamilyPreferences,
	}
	if r.Name != nil {
		merged.Name = *r.Name
	}
	if r.Ingredients != nil {
		merged.Ingredients = *r.Ingredients
	}
	if r.Recipe != nil {
		merged.Recipe = *r.Recipe
	}
	if r.FamilyPreferences != nil {
		merged.FamilyPreferences = *r.FamilyPreferences
	}
	return merged
}

func toDTO(meal storage.Meal) MealDTO {
	ingredients := meal.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	prefs := meal.FamilyPreferences
	if prefs == nil {
		prefs = []string{}
	}
	return MealDTO{
		ID:                meal.ID,
		Name:              meal.Name,
		Ingredients:       ingredients,
		Recipe:            meal.Recipe,
		FamilyPreferences: prefs,
		CreatedAt:         meal.CreatedAt,
		UpdatedAt:         meal.UpdatedAt,
	}
}
