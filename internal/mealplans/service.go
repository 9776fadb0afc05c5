package mealplans

import (
	"context"
	"time"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
)

// Service handles the date -> slot meal plan store.
type Service struct {
	storage storage.MealPlansStorage
}

// NewService creates a new meal plans service.
func NewService(storage storage.MealPlansStorage) *Service {
	return &Service{storage: storage}
}

// Assign sets one slot of one date. A nil or blank meal id clears the slot.
// The meal id is not checked against the catalog.
func (s *Service) Assign(ctx context.Context, date string, req AssignSlotRequest) (MealPlanDTO, error) {
	d, err := planning.ParseDate(date)
	if err != nil {
		return MealPlanDTO{}, err
	}
	slot, err := req.Validate()
	if err != nil {
		return MealPlanDTO{}, err
	}

	day, err := s.storage.SetSlot(ctx, planning.FormatDate(d), slot, cleanID(req.MealID))
	if err != nil {
		return MealPlanDTO{}, err
	}
	return toDTO(day), nil
}

// UpsertDay replaces all five slots of a date.
func (s *Service) UpsertDay(ctx context.Context, req UpsertDayRequest) (MealPlanDTO, error) {
	plan, err := req.toPlan()
	if err != nil {
		return MealPlanDTO{}, err
	}
	day, err := s.storage.UpsertDay(ctx, plan)
	if err != nil {
		return MealPlanDTO{}, err
	}
	return toDTO(day), nil
}

// GetRange returns persisted days between start and end inclusive.
func (s *Service) GetRange(ctx context.Context, startRaw, endRaw string) ([]MealPlanDTO, error) {
	start, end, err := planning.ParseRange(startRaw, endRaw)
	if err != nil {
		return nil, err
	}
	return s.listRange(ctx, start, end)
}

// GetWeek returns persisted days of the seven days starting at weekStart.
func (s *Service) GetWeek(ctx context.Context, weekStart string) ([]MealPlanDTO, error) {
	start, err := planning.ParseDate(weekStart)
	if err != nil {
		return nil, err
	}
	return s.listRange(ctx, start, start.AddDate(0, 0, 6))
}

// GetMonth returns persisted days of a calendar month.
func (s *Service) GetMonth(ctx context.Context, year, month int) ([]MealPlanDTO, error) {
	ym, err := planning.NewYearMonth(year, month)
	if err != nil {
		return nil, err
	}
	return s.listRange(ctx, ym.First(), ym.Last())
}

// GetDay returns the plan of a date, or an empty plan when nothing is stored.
func (s *Service) GetDay(ctx context.Context, date string) (MealPlanDTO, error) {
	d, err := planning.ParseDate(date)
	if err != nil {
		return MealPlanDTO{}, err
	}
	key := planning.FormatDate(d)
	days, err := s.storage.GetRange(ctx, key, key)
	if err != nil {
		return MealPlanDTO{}, err
	}
	if len(days) == 0 {
		return MealPlanDTO{DayPlan: planning.EmptyDay(key)}, nil
	}
	return toDTO(days[0]), nil
}

// Plans returns the stored plans between start and end keyed by date.
// Dates without a stored plan are absent.
func (s *Service) Plans(ctx context.Context, start, end time.Time) (map[string]planning.DayPlan, error) {
	days, err := s.storage.GetRange(ctx, planning.FormatDate(start), planning.FormatDate(end))
	if err != nil {
		return nil, err
	}
	plans := make(map[string]planning.DayPlan, len(days))
	for _, day := range days {
		plans[day.Plan.Date] = day.Plan
	}
	return plans, nil
}

// CopyWeek copies each slot of the source week onto the same weekday of
// the target week. Both dates must be Mondays.
func (s *Service) CopyWeek(ctx context.Context, req CopyWeekRequest) (planning.CopyResult, error) {
	src, tgt, err := req.Validate()
	if err != nil {
		return planning.CopyResult{}, err
	}
	source, err := s.Plans(ctx, src, src.AddDate(0, 0, 6))
	if err != nil {
		return planning.CopyResult{}, err
	}
	target, err := s.Plans(ctx, tgt, tgt.AddDate(0, 0, 6))
	if err != nil {
		return planning.CopyResult{}, err
	}

	writes, result, err := planning.CopyWeekWrites(src, tgt, source, target, req.OverwriteExisting)
	if err != nil {
		return planning.CopyResult{}, err
	}
	if err := s.storage.ApplyWrites(ctx, writes); err != nil {
		return planning.CopyResult{}, err
	}
	return result, nil
}

// CopyMonth copies the source month onto the target month by day-of-month.
func (s *Service) CopyMonth(ctx context.Context, req CopyMonthRequest) (planning.CopyResult, error) {
	src, tgt, err := req.Validate()
	if err != nil {
		return planning.CopyResult{}, err
	}

	source, err := s.Plans(ctx, src.First(), src.Last())
	if err != nil {
		return planning.CopyResult{}, err
	}
	target, err := s.Plans(ctx, tgt.First(), tgt.Last())
	if err != nil {
		return planning.CopyResult{}, err
	}

	writes, result := planning.CopyMonthWrites(src, tgt, source, target, req.OverwriteExisting)
	if err := s.storage.ApplyWrites(ctx, writes); err != nil {
		return planning.CopyResult{}, err
	}
	return result, nil
}

// WeeksWithPlans returns the distinct Mondays of weeks holding at least one
// assigned slot, ascending.
func (s *Service) WeeksWithPlans(ctx context.Context) ([]string, error) {
	return s.plannedKeys(ctx, func(t time.Time) string {
		return planning.FormatDate(planning.WeekStart(t))
	})
}

// MonthsWithPlans returns the distinct "YYYY-MM" keys of months holding at
// least one assigned slot, ascending.
func (s *Service) MonthsWithPlans(ctx context.Context) ([]string, error) {
	return s.plannedKeys(ctx, planning.MonthKey)
}

// PruneEmptyDays deletes stored days with no assigned slot.
func (s *Service) PruneEmptyDays(ctx context.Context) (int, error) {
	return s.storage.PruneEmptyDays(ctx)
}

// plannedKeys maps ascending planned dates to keys; equal keys are adjacent
// because key is monotonic in the date.
func (s *Service) plannedKeys(ctx context.Context, key func(time.Time) string) ([]string, error) {
	dates, err := s.storage.ListPlannedDates(ctx)
	if err != nil {
		return nil, err
	}

	keys := []string{}
	for _, raw := range dates {
		d, err := planning.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		k := key(d)
		if len(keys) > 0 && keys[len(keys)-1] == k {
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *Service) listRange(ctx context.Context, start, end time.Time) ([]MealPlanDTO, error) {
	days, err := s.storage.GetRange(ctx, planning.FormatDate(start), planning.FormatDate(end))
	if err != nil {
		return nil, err
	}
	out := make([]MealPlanDTO, len(days))
	for i, day := range days {
		out[i] = toDTO(day)
	}
	return out, nil
}
