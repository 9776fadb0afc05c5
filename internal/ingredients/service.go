package ingredients

import (
	"context"
	"fmt"
	"strings"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
	"go.uber.org/zap"
)

// Service handles the ingredient autocomplete catalog.
type Service struct {
	storage storage.IngredientsStorage
	logger  *zap.Logger
}

// NewService creates a new ingredients service.
func NewService(storage storage.IngredientsStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger}
}

// Search returns ingredients whose name contains query. An empty query
// matches nothing.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]IngredientDTO, error) {
	if strings.TrimSpace(query) == "" {
		return []IngredientDTO{}, nil
	}
	rows, err := s.storage.SearchIngredients(ctx, query, clampLimit(limit, defaultSearchLimit, maxSearchLimit))
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

// Popular returns the most used ingredients.
func (s *Service) Popular(ctx context.Context, limit int) ([]IngredientDTO, error) {
	rows, err := s.storage.PopularIngredients(ctx, clampLimit(limit, defaultPopularLimit, maxPopularLimit))
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

// Register creates an ingredient or bumps its usage count. The category of
// an existing ingredient is kept.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (IngredientDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return IngredientDTO{}, fmt.Errorf("%w: name is required", planning.ErrValidation)
	}
	category, err := planning.NormalizeCategory(req.Category)
	if err != nil {
		return IngredientDTO{}, err
	}

	ing, err := s.storage.RegisterIngredient(ctx, name, category)
	if err != nil {
		return IngredientDTO{}, err
	}
	return toDTO(ing), nil
}

// RecordUsage registers every non-blank name once. Failures are logged and
// do not stop the remaining names.
func (s *Service) RecordUsage(ctx context.Context, names []string) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := planning.NormalizeName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, err := s.storage.RegisterIngredient(ctx, strings.TrimSpace(name), planning.CategoryOther); err != nil {
			s.logger.Warn("failed to record ingredient usage",
				zap.String("ingredient", name),
				zap.Error(err),
			)
		}
	}
}

// CategoriesOf maps each normalized name to its catalog category. Names the
// catalog does not know are omitted.
func (s *Service) CategoriesOf(ctx context.Context, names []string) (map[string]string, error) {
	found, err := s.storage.GetIngredients(ctx, names)
	if err != nil {
		return nil, err
	}
	categories := make(map[string]string, len(found))
	for key, ing := range found {
		categories[key] = ing.Category
	}
	return categories, nil
}
