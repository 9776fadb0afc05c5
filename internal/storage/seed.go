package storage

import "github.com/fdg312/mealboard/internal/planning"

// SeedIngredient is a common ingredient preloaded into the catalog.
type SeedIngredient struct {
	Name     string
	Category string
}

// SeedIngredients is loaded by the memory backend on start and mirrors
// migrations/00003_seed_ingredients.sql for Postgres.
var SeedIngredients = []SeedIngredient{
	{"Apples", planning.CategoryProduce},
	{"Avocado", planning.CategoryProduce},
	{"Bananas", planning.CategoryProduce},
	{"Bell Pepper", planning.CategoryProduce},
	{"Broccoli", planning.CategoryProduce},
	{"Carrots", planning.CategoryProduce},
	{"Garlic", planning.CategoryProduce},
	{"Lemon", planning.CategoryProduce},
	{"Lettuce", planning.CategoryProduce},
	{"Onion", planning.CategoryProduce},
	{"Potatoes", planning.CategoryProduce},
	{"Spinach", planning.CategoryProduce},
	{"Tomatoes", planning.CategoryProduce},
	{"Butter", planning.CategoryDairy},
	{"Cheddar Cheese", planning.CategoryDairy},
	{"Eggs", planning.CategoryDairy},
	{"Milk", planning.CategoryDairy},
	{"Parmesan", planning.CategoryDairy},
	{"Yogurt", planning.CategoryDairy},
	{"Bacon", planning.CategoryMeat},
	{"Beef Mince", planning.CategoryMeat},
	{"Chicken Breast", planning.CategoryMeat},
	{"Pork Chops", planning.CategoryMeat},
	{"Salmon", planning.CategorySeafood},
	{"Shrimp", planning.CategorySeafood},
	{"Tuna", planning.CategorySeafood},
	{"Bagels", planning.CategoryBakery},
	{"Bread", planning.CategoryBakery},
	{"Tortillas", planning.CategoryBakery},
	{"Flour", planning.CategoryPantry},
	{"Olive Oil", planning.CategoryPantry},
	{"Oats", planning.CategoryPantry},
	{"Rice", planning.CategoryPantry},
	{"Sugar", planning.CategoryPantry},
	{"Frozen Peas", planning.CategoryFrozen},
	{"Ice Cream", planning.CategoryFrozen},
	{"Coffee", planning.CategoryBeverages},
	{"Orange Juice", planning.CategoryBeverages},
	{"Black Pepper", planning.CategorySpices},
	{"Cinnamon", planning.CategorySpices},
	{"Cumin", planning.CategorySpices},
	{"Paprika", planning.CategorySpices},
	{"Salt", planning.CategorySpices},
}
