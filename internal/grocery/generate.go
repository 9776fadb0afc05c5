package grocery

import (
	"context"
	"strings"
	"time"

	"github.com/fdg312/mealboard/internal/meals"
	"github.com/fdg312/mealboard/internal/planning"
	"github.com/google/uuid"
)

// PlanSource reads stored day plans keyed by date.
type PlanSource interface {
	Plans(ctx context.Context, start, end time.Time) (map[string]planning.DayPlan, error)
}

// MealSource resolves meal ids; unknown ids are omitted from the result.
type MealSource interface {
	Lookup(ctx context.Context, ids []string) (map[string]meals.MealDTO, error)
}

// CategorySource maps normalized ingredient names to catalog categories.
type CategorySource interface {
	CategoriesOf(ctx context.Context, names []string) (map[string]string, error)
}

// GenerateFromRange builds an unsaved list from the meals planned in [start, end].
// Each meal contributes once however often it is planned. Ingredients are
// deduplicated case-insensitively and keep the first spelling seen.
func GenerateFromRange(ctx context.Context, mealSrc MealSource, plans PlanSource, categories CategorySource, start, end time.Time, name string) (ListDTO, error) {
	dates, err := planning.DateRange(start, end)
	if err != nil {
		return ListDTO{}, err
	}

	byDate, err := plans.Plans(ctx, start, end)
	if err != nil {
		return ListDTO{}, err
	}

	var mealIDs []string
	seenMeals := make(map[string]bool)
	for _, d := range dates {
		plan, ok := byDate[planning.FormatDate(d)]
		if !ok {
			continue
		}
		for _, id := range plan.MealIDs() {
			if seenMeals[id] {
				continue
			}
			seenMeals[id] = true
			mealIDs = append(mealIDs, id)
		}
	}

	found, err := mealSrc.Lookup(ctx, mealIDs)
	if err != nil {
		return ListDTO{}, err
	}

	var names []string
	seenNames := make(map[string]bool)
	for _, id := range mealIDs {
		meal, ok := found[id]
		if !ok {
			continue // dangling reference
		}
		for _, ing := range meal.Ingredients {
			key := planning.NormalizeName(ing)
			if key == "" || seenNames[key] {
				continue
			}
			seenNames[key] = true
			names = append(names, strings.TrimSpace(ing))
		}
	}

	cats := map[string]string{}
	if categories != nil && len(names) > 0 {
		cats, err = categories.CategoriesOf(ctx, names)
		if err != nil {
			return ListDTO{}, err
		}
	}

	items := make([]ItemDTO, 0, len(names))
	for _, n := range names {
		category, ok := cats[planning.NormalizeName(n)]
		if !ok || category == "" {
			category = planning.CategoryOther
		}
		items = append(items, ItemDTO{
			ID:       uuid.New().String(),
			Name:     n,
			Category: category,
			Source:   SourceMeal,
		})
	}

	return ListDTO{
		Name:      name,
		StartDate: planning.StringPtr(planning.FormatDate(start)),
		EndDate:   planning.StringPtr(planning.FormatDate(end)),
		Items:     items,
	}, nil
}

// DefaultName names a generated list after its range.
func DefaultName(start, end time.Time) string {
	return "Groceries " + planning.FormatDate(start) + " to " + planning.FormatDate(end)
}
