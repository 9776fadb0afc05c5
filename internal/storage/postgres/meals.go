package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/mealboard/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type mealsStorage struct {
	pool *pgxpool.Pool
}

func newMealsStorage(pool *pgxpool.Pool) *mealsStorage {
	return &mealsStorage{pool: pool}
}

const mealColumns = `id::text, name, ingredients, recipe, family_preferences, created_at, updated_at`

func scanMeal(row pgx.Row) (storage.Meal, error) {
	var meal storage.Meal
	err := row.Scan(
		&meal.ID,
		&meal.Name,
		&meal.Ingredients,
		&meal.Recipe,
		&meal.FamilyPreferences,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)
	return meal, err
}

func (s *mealsStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	query := `
		INSERT INTO meals (name, ingredients, recipe, family_preferences)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + mealColumns

	created, err := scanMeal(s.pool.QueryRow(ctx, query,
		meal.Name,
		nonNilStrings(meal.Ingredients),
		meal.Recipe,
		nonNilStrings(meal.FamilyPreferences),
	))
	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}

	*meal = created
	return nil
}

func (s *mealsStorage) GetMeal(ctx context.Context, id string) (storage.Meal, bool, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id::text = $1`

	meal, err := scanMeal(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Meal{}, false, nil
	}
	if err != nil {
		return storage.Meal{}, false, fmt.Errorf("failed to get meal: %w", err)
	}
	return meal, true, nil
}

func (s *mealsStorage) GetMeals(ctx context.Context, ids []string) (map[string]storage.Meal, error) {
	found := make(map[string]storage.Meal, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT ` + mealColumns + ` FROM meals WHERE id::text = ANY($1)`
	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get meals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		found[meal.ID] = meal
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meals: %w", rows.Err())
	}
	return found, nil
}

func (s *mealsStorage) UpdateMeal(ctx context.Context, meal *storage.Meal) error {
	query := `
		UPDATE meals
		SET name = $2, ingredients = $3, recipe = $4, family_preferences = $5, updated_at = now()
		WHERE id::text = $1
		RETURNING ` + mealColumns

	updated, err := scanMeal(s.pool.QueryRow(ctx, query,
		meal.ID,
		meal.Name,
		nonNilStrings(meal.Ingredients),
		meal.Recipe,
		nonNilStrings(meal.FamilyPreferences),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	*meal = updated
	return nil
}

func (s *mealsStorage) DeleteMeal(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM meals WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil
}

func (s *mealsStorage) ListMeals(ctx context.Context) ([]storage.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals ORDER BY seq ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []storage.Meal{}
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meals: %w", rows.Err())
	}
	return meals, nil
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
