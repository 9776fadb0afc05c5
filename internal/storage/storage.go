package storage

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/mealboard/internal/planning"
)

// ErrNotFound is returned by both backends when a record required to exist is missing.
var ErrNotFound = errors.New("record not found")

// Storage is implemented by each backend and owns the per-aggregate stores.
type Storage interface {
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// MealsStorage persists the meal catalog.
type MealsStorage interface {
	// CreateMeal assigns ID and timestamps and stores the meal.
	CreateMeal(ctx context.Context, meal *Meal) error

	// GetMeal returns the meal and whether it exists.
	GetMeal(ctx context.Context, id string) (Meal, bool, error)

	// GetMeals returns the meals found for ids; missing ids are omitted.
	GetMeals(ctx context.Context, ids []string) (map[string]Meal, error)

	// UpdateMeal replaces the stored meal; ErrNotFound if absent.
	UpdateMeal(ctx context.Context, meal *Meal) error

	// DeleteMeal removes the meal. Deleting a missing id is not an error.
	DeleteMeal(ctx context.Context, id string) error

	// ListMeals returns every meal in insertion order.
	ListMeals(ctx context.Context) ([]Meal, error)
}

// Meal is a meal catalog row.
type Meal struct {
	ID                string
	Name              string
	Ingredients       []string
	Recipe            string
	FamilyPreferences []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MealPlansStorage persists date -> slot assignments.
type MealPlansStorage interface {
	// GetRange returns persisted days between start and end inclusive, ascending.
	GetRange(ctx context.Context, start, end string) ([]MealPlanDay, error)

	// SetSlot assigns one slot; a nil meal id clears it.
	SetSlot(ctx context.Context, date string, slot planning.Slot, mealID *string) (MealPlanDay, error)

	// UpsertDay replaces all five slots of a date.
	UpsertDay(ctx context.Context, plan planning.DayPlan) (MealPlanDay, error)

	// ApplyWrites applies every write atomically.
	ApplyWrites(ctx context.Context, writes []planning.SlotWrite) error

	// ListPlannedDates returns dates with at least one assigned slot, ascending.
	ListPlannedDates(ctx context.Context) ([]string, error)

	// PruneEmptyDays deletes days whose slots are all null.
	PruneEmptyDays(ctx context.Context) (int, error)
}

// MealPlanDay is one persisted day.
type MealPlanDay struct {
	ID        string
	Plan      planning.DayPlan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IngredientsStorage persists the ingredient autocomplete catalog.
type IngredientsStorage interface {
	// SearchIngredients matches query as a case-insensitive substring.
	// Prefix matches rank first, then usage count descending, then name.
	SearchIngredients(ctx context.Context, query string, limit int) ([]Ingredient, error)

	// PopularIngredients returns the most used ingredients.
	PopularIngredients(ctx context.Context, limit int) ([]Ingredient, error)

	// RegisterIngredient creates the ingredient or increments its usage count.
	RegisterIngredient(ctx context.Context, name string, category string) (Ingredient, error)

	// GetIngredients looks up names case-insensitively; keys are normalized names.
	GetIngredients(ctx context.Context, names []string) (map[string]Ingredient, error)
}

// Ingredient is an autocomplete catalog entry.
type Ingredient struct {
	Name       string
	Category   string
	UsageCount int
	IsCommon   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GroceryListsStorage persists grocery lists with their items.
type GroceryListsStorage interface {
	// CreateGroceryList assigns IDs and timestamps and stores the list.
	CreateGroceryList(ctx context.Context, list *GroceryList) error

	// GetGroceryList returns the list and whether it exists.
	GetGroceryList(ctx context.Context, id string) (GroceryList, bool, error)

	// ListGroceryLists returns every list, newest first.
	ListGroceryLists(ctx context.Context) ([]GroceryList, error)

	// AddGroceryItem appends one item to a list, assigning its ID when empty.
	// ErrNotFound if the list is absent.
	AddGroceryItem(ctx context.Context, listID string, item *GroceryItem) error

	// SetGroceryItemChecked sets the checked flag of one item.
	// ErrNotFound if the list or the item is absent.
	SetGroceryItemChecked(ctx context.Context, listID, itemID string, checked bool) error

	// DeleteGroceryItem removes one item. ErrNotFound if the list or the item is absent.
	DeleteGroceryItem(ctx context.Context, listID, itemID string) error

	// DeleteGroceryList removes the list. Deleting a missing id is not an error.
	DeleteGroceryList(ctx context.Context, id string) error
}

// GroceryList is a grocery list row with its items in order.
type GroceryList struct {
	ID        string
	Name      string
	WeekStart *string
	StartDate *string
	EndDate   *string
	Items     []GroceryItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroceryItem is one line of a grocery list.
type GroceryItem struct {
	ID       string
	Name     string
	Category string
	Quantity string
	Notes    string
	Checked  bool
	Source   string // "meal" or "manual"
}
