package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/mealboard/internal/storage"
	"github.com/google/uuid"
)

type mealsStorage struct {
	mu    sync.RWMutex
	meals map[string]*storage.Meal
	order []string // insertion order of ids
}

func newMealsStorage() *mealsStorage {
	return &mealsStorage{
		meals: make(map[string]*storage.Meal),
	}
}

func (s *mealsStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	meal.ID = uuid.New().String()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	stored := cloneMeal(*meal)
	s.meals[meal.ID] = &stored
	s.order = append(s.order, meal.ID)
	return nil
}

func (s *mealsStorage) GetMeal(ctx context.Context, id string) (storage.Meal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meal, ok := s.meals[id]
	if !ok {
		return storage.Meal{}, false, nil
	}
	return cloneMeal(*meal), true, nil
}

func (s *mealsStorage) GetMeals(ctx context.Context, ids []string) (map[string]storage.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]storage.Meal, len(ids))
	for _, id := range ids {
		if meal, ok := s.meals[id]; ok {
			found[id] = cloneMeal(*meal)
		}
	}
	return found, nil
}

func (s *mealsStorage) UpdateMeal(ctx context.Context, meal *storage.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.meals[meal.ID]
	if !ok {
		return storage.ErrNotFound
	}

	meal.CreatedAt = existing.CreatedAt
	meal.UpdatedAt = time.Now().UTC()
	stored := cloneMeal(*meal)
	s.meals[meal.ID] = &stored
	return nil
}

func (s *mealsStorage) DeleteMeal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meals[id]; !ok {
		return nil
	}
	delete(s.meals, id)
	s.removeFromOrderLocked(id)
	return nil
}

func (s *mealsStorage) ListMeals(ctx context.Context) ([]storage.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meals := make([]storage.Meal, 0, len(s.order))
	for _, id := range s.order {
		if meal, ok := s.meals[id]; ok {
			meals = append(meals, cloneMeal(*meal))
		}
	}
	return meals, nil
}

// Helper methods (must be called with lock held)
func (s *mealsStorage) removeFromOrderLocked(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func cloneMeal(m storage.Meal) storage.Meal {
	m.Ingredients = append([]string(nil), m.Ingredients...)
	m.FamilyPreferences = append([]string(nil), m.FamilyPreferences...)
	return m
}
