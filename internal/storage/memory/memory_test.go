package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
)

func TestMealsStorage_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newMealsStorage()

	names := []string{"Pasta", "Curry", "Salad"}
	for _, name := range names {
		if err := s.CreateMeal(ctx, &storage.Meal{Name: name, Ingredients: []string{"x"}}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	meals, err := s.ListMeals(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meals) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(meals))
	}
	for i, name := range names {
		if meals[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, meals[i].Name)
		}
	}
}

func TestMealsStorage_UpdateMissing(t *testing.T) {
	s := newMealsStorage()
	err := s.UpdateMeal(context.Background(), &storage.Meal{ID: "missing", Name: "x"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMealsStorage_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newMealsStorage()
	meal := &storage.Meal{Name: "Soup", Ingredients: []string{"water"}}
	_ = s.CreateMeal(ctx, meal)

	if err := s.DeleteMeal(ctx, meal.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.DeleteMeal(ctx, meal.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, found, _ := s.GetMeal(ctx, meal.ID); found {
		t.Error("meal should be gone")
	}
}

func TestMealPlansStorage_ApplyWritesOnlyIfEmpty(t *testing.T) {
	ctx := context.Background()
	s := newMealPlansStorage()

	_, _ = s.SetSlot(ctx, "2024-06-10", planning.SlotLunch, planning.StringPtr("existing"))

	err := s.ApplyWrites(ctx, []planning.SlotWrite{
		{Date: "2024-06-10", Slot: planning.SlotLunch, MealID: "copied", OnlyIfEmpty: true},
		{Date: "2024-06-10", Slot: planning.SlotDinner, MealID: "copied", OnlyIfEmpty: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	days, _ := s.GetRange(ctx, "2024-06-10", "2024-06-10")
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if got := days[0].Plan.Lunch; got == nil || *got != "existing" {
		t.Errorf("expected lunch to stay existing, got %v", got)
	}
	if got := days[0].Plan.Dinner; got == nil || *got != "copied" {
		t.Errorf("expected dinner=copied, got %v", got)
	}
}

func TestMealPlansStorage_PlannedDatesAndPrune(t *testing.T) {
	ctx := context.Background()
	s := newMealPlansStorage()

	_, _ = s.SetSlot(ctx, "2024-06-12", planning.SlotDinner, planning.StringPtr("m1"))
	_, _ = s.SetSlot(ctx, "2024-06-03", planning.SlotLunch, planning.StringPtr("m2"))
	_, _ = s.SetSlot(ctx, "2024-06-05", planning.SlotLunch, planning.StringPtr("m3"))
	_, _ = s.SetSlot(ctx, "2024-06-05", planning.SlotLunch, nil)

	dates, err := s.ListPlannedDates(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 2 || dates[0] != "2024-06-03" || dates[1] != "2024-06-12" {
		t.Fatalf("expected [2024-06-03 2024-06-12], got %v", dates)
	}

	pruned, err := s.PruneEmptyDays(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned day, got %d", pruned)
	}
}

func TestIngredientsStorage_SearchRanking(t *testing.T) {
	ctx := context.Background()
	s := newIngredientsStorage()

	// "Oil" matches "Olive Oil" by substring; register a prefix match.
	if _, err := s.RegisterIngredient(ctx, "Oil Spray", planning.CategoryPantry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		_, _ = s.RegisterIngredient(ctx, "olive oil", "")
	}

	results, err := s.SearchIngredients(ctx, "oil", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	if results[0].Name != "Oil Spray" {
		t.Errorf("expected prefix match first, got %s", results[0].Name)
	}
	if results[1].Name != "Olive Oil" || results[1].UsageCount != 3 {
		t.Errorf("expected Olive Oil with usage 3, got %+v", results[1])
	}
}

func TestGroceryListsStorage_ItemOps(t *testing.T) {
	s := newGroceryListsStorage()
	ctx := context.Background()

	if err := s.AddGroceryItem(ctx, "nope", &storage.GroceryItem{Name: "Milk"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list := &storage.GroceryList{Name: "Weekly"}
	if err := s.CreateGroceryList(ctx, list); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	milk := &storage.GroceryItem{Name: "Milk"}
	eggs := &storage.GroceryItem{Name: "Eggs"}
	for _, item := range []*storage.GroceryItem{milk, eggs} {
		if err := s.AddGroceryItem(ctx, list.ID, item); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if item.ID == "" {
			t.Fatalf("expected item id to be assigned")
		}
	}

	if err := s.SetGroceryItemChecked(ctx, list.ID, milk.ID, true); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if err := s.SetGroceryItemChecked(ctx, list.ID, "nope", true); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}

	before, _, _ := s.GetGroceryList(ctx, list.ID)
	if err := s.DeleteGroceryItem(ctx, list.ID, milk.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.DeleteGroceryItem(ctx, list.ID, milk.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}

	after, _, _ := s.GetGroceryList(ctx, list.ID)
	if len(after.Items) != 1 || after.Items[0].Name != "Eggs" {
		t.Fatalf("expected only Eggs left, got %+v", after.Items)
	}
	if len(before.Items) != 2 || !before.Items[0].Checked {
		t.Errorf("expected earlier snapshot to keep checked Milk, got %+v", before.Items)
	}
}
