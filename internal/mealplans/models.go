package mealplans

import (
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
)

// MealPlanDTO is one day with its five slots flattened into the object.
type MealPlanDTO struct {
	ID string `json:"id,omitempty"`
	planning.DayPlan
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ListMealPlansResponse struct {
	MealPlans []MealPlanDTO `json:"meal_plans"`
}

type AssignSlotRequest struct {
	MealSlot string  `json:"meal_slot"`
	MealID   *string `json:"meal_id"`
}

type UpsertDayRequest struct {
	Date         string  `json:"date"`
	Breakfast    *string `json:"breakfast"`
	MorningSnack *string `json:"morning_snack"`
	Lunch        *string `json:"lunch"`
	Dinner       *string `json:"dinner"`
	EveningSnack *string `json:"evening_snack"`
}

type CopyWeekRequest struct {
	SourceWeekStart   string `json:"source_week_start"`
	TargetWeekStart   string `json:"target_week_start"`
	OverwriteExisting bool   `json:"overwrite_existing"`
}

type CopyMonthRequest struct {
	SourceMonth       string `json:"source_month"`
	TargetMonth       string `json:"target_month"`
	OverwriteExisting bool   `json:"overwrite_existing"`
}

type WeeksWithPlansResponse struct {
	Weeks []string `json:"weeks"`
}

type MonthsWithPlansResponse struct {
	Months []string `json:"months"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (r *AssignSlotRequest) Validate() (planning.Slot, error) {
	return planning.ParseSlot(strings.TrimSpace(r.MealSlot))
}

func (r UpsertDayRequest) toPlan() (planning.DayPlan, error) {
	date, err := planning.ParseDate(r.Date)
	if err != nil {
		return planning.DayPlan{}, err
	}
	plan := planning.EmptyDay(planning.FormatDate(date))
	plan.Set(planning.SlotBreakfast, cleanID(r.Breakfast))
	plan.Set(planning.SlotMorningSnack, cleanID(r.MorningSnack))
	plan.Set(planning.SlotLunch, cleanID(r.Lunch))
	plan.Set(planning.SlotDinner, cleanID(r.Dinner))
	plan.Set(planning.SlotEveningSnack, cleanID(r.EveningSnack))
	return plan, nil
}

func (r CopyWeekRequest) Validate() (time.Time, time.Time, error) {
	src, err := planning.ParseDate(r.SourceWeekStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("source_week_start: %w", err)
	}
	tgt, err := planning.ParseDate(r.TargetWeekStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("target_week_start: %w", err)
	}
	if !planning.IsWeekStart(src) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: source_week_start %s is not a Monday", planning.ErrValidation, r.SourceWeekStart)
	}
	if !planning.IsWeekStart(tgt) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: target_week_start %s is not a Monday", planning.ErrValidation, r.TargetWeekStart)
	}
	return src, tgt, nil
}

func (r CopyMonthRequest) Validate() (planning.YearMonth, planning.YearMonth, error) {
	src, err := planning.ParseMonthKey(r.SourceMonth)
	if err != nil {
		return planning.YearMonth{}, planning.YearMonth{}, fmt.Errorf("source_month: %w", err)
	}
	tgt, err := planning.ParseMonthKey(r.TargetMonth)
	if err != nil {
		return planning.YearMonth{}, planning.YearMonth{}, fmt.Errorf("target_month: %w", err)
	}
	return src, tgt, nil
}

// cleanID maps a blank meal id to nil.
func cleanID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

func toDTO(day storage.MealPlanDay) MealPlanDTO {
	created, updated := day.CreatedAt, day.UpdatedAt
	return MealPlanDTO{
		ID:        day.ID,
		DayPlan:   day.Plan,
		CreatedAt: &created,
		UpdatedAt: &updated,
	}
}
