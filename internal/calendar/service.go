package calendar

import (
	"context"
	"time"

	"github.com/fdg312/mealboard/internal/meals"
	"github.com/fdg312/mealboard/internal/planning"
)

// PlanSource reads stored day plans keyed by date.
type PlanSource interface {
	Plans(ctx context.Context, start, end time.Time) (map[string]planning.DayPlan, error)
}

// MealLookup resolves meal ids; unknown ids are omitted from the result.
type MealLookup interface {
	Lookup(ctx context.Context, ids []string) (map[string]meals.MealDTO, error)
}

// Service derives calendar views from the plan store. It keeps no state.
type Service struct {
	plans PlanSource
	meals MealLookup
}

// NewService creates a new calendar service.
func NewService(plans PlanSource, meals MealLookup) *Service {
	return &Service{plans: plans, meals: meals}
}

// Month returns the Sunday-first grid of a calendar month.
func (s *Service) Month(ctx context.Context, year, month int) (MonthGridResponse, error) {
	ym, err := planning.NewYearMonth(year, month)
	if err != nil {
		return MonthGridResponse{}, err
	}
	plans, err := s.plans.Plans(ctx, ym.First(), ym.Last())
	if err != nil {
		return MonthGridResponse{}, err
	}
	return MonthGridResponse{
		Year:  ym.Year,
		Month: int(ym.Month),
		Weeks: MonthGrid(ym, plans),
	}, nil
}

// Weeks groups every date of the range into Sunday-split chunks with
// their plans. Unplanned dates carry an empty plan.
func (s *Service) Weeks(ctx context.Context, startRaw, endRaw string) (WeeksResponse, error) {
	start, end, err := planning.ParseRange(startRaw, endRaw)
	if err != nil {
		return WeeksResponse{}, err
	}
	dates, err := planning.DateRange(start, end)
	if err != nil {
		return WeeksResponse{}, err
	}
	plans, err := s.plans.Plans(ctx, start, end)
	if err != nil {
		return WeeksResponse{}, err
	}

	chunks := GroupByWeek(dates)
	weeks := make([]WeekGroup, 0, len(chunks))
	for _, chunk := range chunks {
		group := WeekGroup{
			StartDate: planning.FormatDate(chunk[0]),
			EndDate:   planning.FormatDate(chunk[len(chunk)-1]),
			Days:      make([]planning.DayPlan, 0, len(chunk)),
		}
		for _, d := range chunk {
			key := planning.FormatDate(d)
			plan, ok := plans[key]
			if !ok {
				plan = planning.EmptyDay(key)
			}
			group.Days = append(group.Days, plan)
		}
		weeks = append(weeks, group)
	}
	return WeeksResponse{Weeks: weeks}, nil
}

// Day resolves every slot of a date through the meal catalog.
func (s *Service) Day(ctx context.Context, date string) (DayDetailResponse, error) {
	d, err := planning.ParseDate(date)
	if err != nil {
		return DayDetailResponse{}, err
	}
	key := planning.FormatDate(d)

	plans, err := s.plans.Plans(ctx, d, d)
	if err != nil {
		return DayDetailResponse{}, err
	}
	plan, ok := plans[key]
	if !ok {
		plan = planning.EmptyDay(key)
	}

	found, err := s.meals.Lookup(ctx, plan.MealIDs())
	if err != nil {
		return DayDetailResponse{}, err
	}

	slots := make([]SlotDetail, 0, planning.SlotCount)
	for _, info := range planning.Slots {
		detail := SlotDetail{Slot: info.Slot, Label: info.Label, Icon: info.Icon}
		if id := plan.Get(info.Slot); id != nil {
			detail.MealID = id
			if meal, ok := found[*id]; ok {
				detail.Meal = &meal
			}
		}
		slots = append(slots, detail)
	}
	return DayDetailResponse{Date: key, Slots: slots}, nil
}
