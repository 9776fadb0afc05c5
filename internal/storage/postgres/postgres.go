package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage is the Postgres backend. The schema is managed by goose
// migrations in migrations/.
type PostgresStorage struct {
	pool         *pgxpool.Pool
	meals        *mealsStorage
	mealPlans    *mealPlansStorage
	ingredients  *ingredientsStorage
	groceryLists *groceryListsStorage
}

// New connects to databaseURL and verifies the connection.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:         pool,
		meals:        newMealsStorage(pool),
		mealPlans:    newMealPlansStorage(pool),
		ingredients:  newIngredientsStorage(pool),
		groceryLists: newGroceryListsStorage(pool),
	}, nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// GetMealsStorage returns the meal catalog store.
func (p *PostgresStorage) GetMealsStorage() *mealsStorage {
	return p.meals
}

// GetMealPlansStorage returns the meal plan store.
func (p *PostgresStorage) GetMealPlansStorage() *mealPlansStorage {
	return p.mealPlans
}

// GetIngredientsStorage returns the ingredient catalog store.
func (p *PostgresStorage) GetIngredientsStorage() *ingredientsStorage {
	return p.ingredients
}

// GetGroceryListsStorage returns the grocery list store.
func (p *PostgresStorage) GetGroceryListsStorage() *groceryListsStorage {
	return p.groceryLists
}
