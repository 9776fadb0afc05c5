package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
)

type ingredientsStorage struct {
	mu          sync.RWMutex
	ingredients map[string]*storage.Ingredient // key: normalized name
}

func newIngredientsStorage() *ingredientsStorage {
	s := &ingredientsStorage{
		ingredients: make(map[string]*storage.Ingredient),
	}
	now := time.Now().UTC()
	for _, seed := range storage.SeedIngredients {
		s.ingredients[planning.NormalizeName(seed.Name)] = &storage.Ingredient{
			Name:      seed.Name,
			Category:  seed.Category,
			IsCommon:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return s
}

func (s *ingredientsStorage) SearchIngredients(ctx context.Context, query string, limit int) ([]storage.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := planning.NormalizeName(query)
	type match struct {
		ingredient storage.Ingredient
		prefix     bool
	}
	var matches []match
	for key, ing := range s.ingredients {
		if !strings.Contains(key, q) {
			continue
		}
		matches = append(matches, match{ingredient: *ing, prefix: strings.HasPrefix(key, q)})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.prefix != b.prefix {
			return a.prefix
		}
		if a.ingredient.UsageCount != b.ingredient.UsageCount {
			return a.ingredient.UsageCount > b.ingredient.UsageCount
		}
		return strings.ToLower(a.ingredient.Name) < strings.ToLower(b.ingredient.Name)
	})

	result := make([]storage.Ingredient, 0, limit)
	for i := 0; i < len(matches) && i < limit; i++ {
		result = append(result, matches[i].ingredient)
	}
	return result, nil
}

func (s *ingredientsStorage) PopularIngredients(ctx context.Context, limit int) ([]storage.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]storage.Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		all = append(all, *ing)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].UsageCount != all[j].UsageCount {
			return all[i].UsageCount > all[j].UsageCount
		}
		return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *ingredientsStorage) RegisterIngredient(ctx context.Context, name string, category string) (storage.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	key := planning.NormalizeName(name)
	if existing, ok := s.ingredients[key]; ok {
		existing.UsageCount++
		existing.UpdatedAt = now
		return *existing, nil
	}

	ing := &storage.Ingredient{
		Name:       strings.TrimSpace(name),
		Category:   category,
		UsageCount: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.ingredients[key] = ing
	return *ing, nil
}

func (s *ingredientsStorage) GetIngredients(ctx context.Context, names []string) (map[string]storage.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]storage.Ingredient, len(names))
	for _, name := range names {
		key := planning.NormalizeName(name)
		if ing, ok := s.ingredients[key]; ok {
			found[key] = *ing
		}
	}
	return found, nil
}
