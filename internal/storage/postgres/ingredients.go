package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ingredientsStorage struct {
	pool *pgxpool.Pool
}

func newIngredientsStorage(pool *pgxpool.Pool) *ingredientsStorage {
	return &ingredientsStorage{pool: pool}
}

const ingredientColumns = `name, category, usage_count, is_common, created_at, updated_at`

func scanIngredient(row pgx.Row) (storage.Ingredient, error) {
	var ing storage.Ingredient
	err := row.Scan(
		&ing.Name,
		&ing.Category,
		&ing.UsageCount,
		&ing.IsCommon,
		&ing.CreatedAt,
		&ing.UpdatedAt,
	)
	return ing, err
}

func (s *ingredientsStorage) queryIngredients(ctx context.Context, query string, args ...any) ([]storage.Ingredient, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []storage.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", rows.Err())
	}
	return ingredients, nil
}

func (s *ingredientsStorage) SearchIngredients(ctx context.Context, query string, limit int) ([]storage.Ingredient, error) {
	// strpos avoids treating % and _ in user input as LIKE wildcards
	sql := `
		SELECT ` + ingredientColumns + `
		FROM ingredients
		WHERE strpos(name_key, $1) > 0
		ORDER BY (strpos(name_key, $1) = 1) DESC, usage_count DESC, name_key ASC
		LIMIT $2
	`
	ingredients, err := s.queryIngredients(ctx, sql, planning.NormalizeName(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *ingredientsStorage) PopularIngredients(ctx context.Context, limit int) ([]storage.Ingredient, error) {
	sql := `
		SELECT ` + ingredientColumns + `
		FROM ingredients
		ORDER BY usage_count DESC, name_key ASC
		LIMIT $1
	`
	ingredients, err := s.queryIngredients(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list popular ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *ingredientsStorage) RegisterIngredient(ctx context.Context, name string, category string) (storage.Ingredient, error) {
	sql := `
		INSERT INTO ingredients (name_key, name, category, usage_count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (name_key) DO UPDATE
		SET usage_count = ingredients.usage_count + 1, updated_at = now()
		RETURNING ` + ingredientColumns

	ing, err := scanIngredient(s.pool.QueryRow(ctx, sql,
		planning.NormalizeName(name),
		strings.TrimSpace(name),
		category,
	))
	if err != nil {
		return storage.Ingredient{}, fmt.Errorf("failed to register ingredient: %w", err)
	}
	return ing, nil
}

func (s *ingredientsStorage) GetIngredients(ctx context.Context, names []string) (map[string]storage.Ingredient, error) {
	found := make(map[string]storage.Ingredient, len(names))
	if len(names) == 0 {
		return found, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = planning.NormalizeName(name)
	}

	sql := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE name_key = ANY($1)`
	ingredients, err := s.queryIngredients(ctx, sql, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}
	for _, ing := range ingredients {
		found[planning.NormalizeName(ing.Name)] = ing
	}
	return found, nil
}
