package ingredients

import (
	"github.com/fdg312/mealboard/internal/storage"
)

const (
	defaultSearchLimit  = 10
	maxSearchLimit      = 50
	defaultPopularLimit = 20
	maxPopularLimit     = 100
)

type IngredientDTO struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	UsageCount int    `json:"usage_count"`
	IsCommon   bool   `json:"is_common"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type ListIngredientsResponse struct {
	Ingredients []IngredientDTO `json:"ingredients"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDTO(ing storage.Ingredient) IngredientDTO {
	return IngredientDTO{
		Name:       ing.Name,
		Category:   ing.Category,
		UsageCount: ing.UsageCount,
		IsCommon:   ing.IsCommon,
	}
}

func toDTOs(rows []storage.Ingredient) []IngredientDTO {
	out := make([]IngredientDTO, len(rows))
	for i, row := range rows {
		out[i] = toDTO(row)
	}
	return out
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
