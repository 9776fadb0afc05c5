package ai

import (
	"context"
	"strings"
)

// MockProvider returns canned suggestions chosen by keywords in the prompt.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

type mockRecipe struct {
	keywords   []string
	suggestion MealSuggestion
}

var mockRecipes = []mockRecipe{
	{
		keywords: []string{"breakfast", "pancake", "morning"},
		suggestion: MealSuggestion{
			Name:        "Banana Oat Pancakes",
			Ingredients: []string{"Oats", "Banana", "Eggs", "Milk", "Baking Powder"},
			Recipe:      "1. Blend oats into flour.\n2. Mash banana and whisk with eggs and milk.\n3. Fold in oat flour and baking powder.\n4. Cook small pancakes on a hot pan, 2 minutes per side.",
			FamilyTags:  []string{"brother", "sister", "baby"},
			Cuisine:     "american",
			Difficulty:  "easy",
			PrepMinutes: 20,
		},
	},
	{
		keywords: []string{"pasta", "italian", "spaghetti"},
		suggestion: MealSuggestion{
			Name:        "Spaghetti Pomodoro",
			Ingredients: []string{"Spaghetti", "Tomatoes", "Garlic", "Olive Oil", "Basil", "Parmesan"},
			Recipe:      "1. Boil spaghetti in salted water.\n2. Sweat garlic in olive oil, add chopped tomatoes and simmer 10 minutes.\n3. Toss pasta with sauce and basil.\n4. Serve with grated parmesan.",
			FamilyTags:  []string{"dad", "mom", "brother", "sister"},
			Cuisine:     "italian",
			Difficulty:  "easy",
			PrepMinutes: 25,
		},
	},
	{
		keywords: []string{"vegetarian", "vegan", "salad", "healthy"},
		suggestion: MealSuggestion{
			Name:        "Chickpea Quinoa Salad",
			Ingredients: []string{"Quinoa", "Chickpeas", "Cucumber", "Tomatoes", "Lemon", "Olive Oil", "Parsley"},
			Recipe:      "1. Cook quinoa and let it cool.\n2. Dice cucumber and tomatoes.\n3. Combine with chickpeas and parsley.\n4. Dress with lemon juice and olive oil.",
			FamilyTags:  []string{"mom", "grandma"},
			Cuisine:     "mediterranean",
			Difficulty:  "easy",
			PrepMinutes: 30,
		},
	},
	{
		keywords: []string{"chicken", "dinner", "roast"},
		suggestion: MealSuggestion{
			Name:        "Lemon Herb Roast Chicken",
			Ingredients: []string{"Chicken", "Lemon", "Garlic", "Rosemary", "Potatoes", "Olive Oil"},
			Recipe:      "1. Heat oven to 200C.\n2. Rub chicken with olive oil, garlic and rosemary; stuff with lemon.\n3. Surround with halved potatoes.\n4. Roast about 75 minutes until juices run clear.",
			FamilyTags:  []string{"dad", "grandpa"},
			Cuisine:     "european",
			Difficulty:  "medium",
			PrepMinutes: 90,
		},
	},
}

var mockDefault = MealSuggestion{
	Name:        "Vegetable Stir Fry",
	Ingredients: []string{"Rice", "Broccoli", "Carrots", "Bell Pepper", "Soy Sauce", "Ginger"},
	Recipe:      "1. Cook rice.\n2. Stir fry sliced vegetables with ginger over high heat.\n3. Season with soy sauce and serve over rice.",
	FamilyTags:  []string{"dad", "mom"},
	Cuisine:     "asian",
	Difficulty:  "easy",
	PrepMinutes: 25,
}

func (p *MockProvider) SuggestMeal(ctx context.Context, req SuggestRequest) (MealSuggestion, error) {
	_ = ctx

	haystack := strings.ToLower(strings.Join(append([]string{req.Prompt, req.Cuisine, req.SourceText}, req.Dietary...), " "))

	suggestion := mockDefault
	for _, r := range mockRecipes {
		if containsAny(haystack, r.keywords) {
			suggestion = r.suggestion
			break
		}
	}

	suggestion.Ingredients = append([]string(nil), suggestion.Ingredients...)
	suggestion.FamilyTags = append([]string(nil), suggestion.FamilyTags...)
	if req.Difficulty != "" {
		suggestion.Difficulty = req.Difficulty
	}
	if req.Cuisine != "" {
		suggestion.Cuisine = strings.ToLower(req.Cuisine)
	}
	return suggestion, nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
