package calendar

import (
	"github.com/fdg312/mealboard/internal/meals"
	"github.com/fdg312/mealboard/internal/planning"
)

// DayCell is one cell of a month grid. Padding cells have a nil Date.
type DayCell struct {
	Date          *string `json:"date"`
	Day           int     `json:"day,omitempty"`
	HasPlans      bool    `json:"has_plans"`
	AssignedCount int     `json:"assigned_count"`
}

type MonthGridResponse struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Weeks [][]DayCell `json:"weeks"`
}

type WeekGroup struct {
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Days      []planning.DayPlan `json:"days"`
}

type WeeksResponse struct {
	Weeks []WeekGroup `json:"weeks"`
}

// SlotDetail is one slot of a day. Meal is nil when the slot is empty or
// its meal no longer exists.
type SlotDetail struct {
	Slot   planning.Slot  `json:"slot"`
	Label  string         `json:"label"`
	Icon   string         `json:"icon"`
	MealID *string        `json:"meal_id"`
	Meal   *meals.MealDTO `json:"meal"`
}

type DayDetailResponse struct {
	Date  string       `json:"date"`
	Slots []SlotDetail `json:"slots"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
