package memory

import (
	"context"
)

// MemoryStorage is the in-memory backend used when no database is configured.
type MemoryStorage struct {
	meals        *mealsStorage
	mealPlans    *mealPlansStorage
	ingredients  *ingredientsStorage
	groceryLists *groceryListsStorage
}

// New creates a MemoryStorage with the seeded ingredient catalog.
func New() *MemoryStorage {
	return &MemoryStorage{
		meals:        newMealsStorage(),
		mealPlans:    newMealPlansStorage(),
		ingredients:  newIngredientsStorage(),
		groceryLists: newGroceryListsStorage(),
	}
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

// GetMealsStorage returns the meal catalog store.
func (m *MemoryStorage) GetMealsStorage() *mealsStorage {
	return m.meals
}

// GetMealPlansStorage returns the meal plan store.
func (m *MemoryStorage) GetMealPlansStorage() *mealPlansStorage {
	return m.mealPlans
}

// GetIngredientsStorage returns the ingredient catalog store.
func (m *MemoryStorage) GetIngredientsStorage() *ingredientsStorage {
	return m.ingredients
}

// GetGroceryListsStorage returns the grocery list store.
func (m *MemoryStorage) GetGroceryListsStorage() *groceryListsStorage {
	return m.groceryLists
}
