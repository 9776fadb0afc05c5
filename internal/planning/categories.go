package planning

import (
	"fmt"
	"strings"
)

// Grocery categories.
const (
	CategoryProduce   = "produce"
	CategoryDairy     = "dairy"
	CategoryMeat      = "meat"
	CategorySeafood   = "seafood"
	CategoryBakery    = "bakery"
	CategoryPantry    = "pantry"
	CategoryFrozen    = "frozen"
	CategoryBeverages = "beverages"
	CategorySpices    = "spices"
	CategoryOther     = "other"
)

// Categories is the grocery category vocabulary in display order.
var Categories = []string{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategorySeafood,
	CategoryBakery,
	CategoryPantry,
	CategoryFrozen,
	CategoryBeverages,
	CategorySpices,
	CategoryOther,
}

// NormalizeCategory lower-cases raw and maps empty input to "other".
// Unknown categories fail with ErrValidation.
func NormalizeCategory(raw string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(raw))
	if c == "" {
		return CategoryOther, nil
	}
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, raw)
}

// NormalizeName is the case-insensitive identity of an ingredient name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
