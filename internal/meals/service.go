package meals

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
)

// UsageRecorder receives ingredient names of saved meals.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, names []string)
}

// Service handles the meal catalog.
type Service struct {
	storage storage.MealsStorage
	usage   UsageRecorder
}

// NewService creates a new meals service. usage may be nil.
func NewService(storage storage.MealsStorage, usage UsageRecorder) *Service {
	return &Service{storage: storage, usage: usage}
}

// Create validates and stores a new meal.
func (s *Service) Create(ctx context.Context, req CreateMealRequest) (MealDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return MealDTO{}, err
	}

	meal := storage.Meal{
		Name:              req.Name,
		Ingredients:       req.Ingredients,
		Recipe:            req.Recipe,
		FamilyPreferences: req.FamilyPreferences,
	}
	if err := s.storage.CreateMeal(ctx, &meal); err != nil {
		return MealDTO{}, err
	}

	s.recordUsage(ctx, meal.Ingredients)
	return toDTO(meal), nil
}

// Update merges the patch into the stored meal and validates the result.
func (s *Service) Update(ctx context.Context, id string, req UpdateMealRequest) (MealDTO, error) {
	existing, found, err := s.storage.GetMeal(ctx, id)
	if err != nil {
		return MealDTO{}, err
	}
	if !found {
		return MealDTO{}, fmt.Errorf("%w: meal %s", planning.ErrNotFound, id)
	}

	merged := req.applyTo(existing)
	merged.Normalize()
	if err := merged.Validate(); err != nil {
		return MealDTO{}, err
	}

	previous := existing.Ingredients
	existing.Name = merged.Name
	existing.Ingredients = merged.Ingredients
	existing.Recipe = merged.Recipe
	existing.FamilyPreferences = merged.FamilyPreferences

	if err := s.storage.UpdateMeal(ctx, &existing); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return MealDTO{}, fmt.Errorf("%w: meal %s", planning.ErrNotFound, id)
		}
		return MealDTO{}, err
	}

	if req.Ingredients != nil {
		s.recordUsage(ctx, addedIngredients(previous, existing.Ingredients))
	}
	return toDTO(existing), nil
}

// Delete removes a meal. Plans that reference it keep the dangling id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.storage.DeleteMeal(ctx, id)
}

// List returns every meal in insertion order.
func (s *Service) List(ctx context.Context) ([]MealDTO, error) {
	rows, err := s.storage.ListMeals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MealDTO, len(rows))
	for i, row := range rows {
		out[i] = toDTO(row)
	}
	return out, nil
}

// Get returns the meal and whether it exists.
func (s *Service) Get(ctx context.Context, id string) (MealDTO, bool, error) {
	meal, found, err := s.storage.GetMeal(ctx, id)
	if err != nil || !found {
		return MealDTO{}, found, err
	}
	return toDTO(meal), true, nil
}

// Lookup resolves ids to meals; unknown ids are omitted.
func (s *Service) Lookup(ctx context.Context, ids []string) (map[string]MealDTO, error) {
	rows, err := s.storage.GetMeals(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]MealDTO, len(rows))
	for id, row := range rows {
		out[id] = toDTO(row)
	}
	return out, nil
}

// addedIngredients returns the names in next that previous lacks, compared case-insensitively.
func addedIngredients(previous, next []string) []string {
	seen := make(map[string]bool, len(previous))
	for _, name := range previous {
		seen[planning.NormalizeName(name)] = true
	}
	var added []string
	for _, name := range next {
		if !seen[planning.NormalizeName(name)] {
			added = append(added, name)
		}
	}
	return added
}

func (s *Service) recordUsage(ctx context.Context, ingredients []string) {
	if s.usage == nil || len(ingredients) == 0 {
		return
	}
	s.usage.RecordUsage(ctx, ingredients)
}
