package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
	"github.com/google/uuid"
)

type mealPlansStorage struct {
	mu   sync.RWMutex
	days map[string]*storage.MealPlanDay // key: date (YYYY-MM-DD)
}

func newMealPlansStorage() *mealPlansStorage {
	return &mealPlansStorage{
		days: make(map[string]*storage.MealPlanDay),
	}
}

func (s *mealPlansStorage) GetRange(ctx context.Context, start, end string) ([]storage.MealPlanDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// YYYY-MM-DD sorts lexically in date order
	var result []storage.MealPlanDay
	for date, day := range s.days {
		if date >= start && date <= end {
			result = append(result, *day)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Plan.Date < result[j].Plan.Date
	})
	return result, nil
}

func (s *mealPlansStorage) SetSlot(ctx context.Context, date string, slot planning.Slot, mealID *string) (storage.MealPlanDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.getOrCreateDayLocked(date)
	day.Plan.Set(slot, mealID)
	day.UpdatedAt = time.Now().UTC()
	return *day, nil
}

func (s *mealPlansStorage) UpsertDay(ctx context.Context, plan planning.DayPlan) (storage.MealPlanDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.getOrCreateDayLocked(plan.Date)
	for _, info := range planning.Slots {
		day.Plan.Set(info.Slot, plan.Get(info.Slot))
	}
	day.UpdatedAt = time.Now().UTC()
	return *day, nil
}

func (s *mealPlansStorage) ApplyWrites(ctx context.Context, writes []planning.SlotWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, w := range writes {
		day := s.getOrCreateDayLocked(w.Date)
		if w.OnlyIfEmpty && day.Plan.Get(w.Slot) != nil {
			continue
		}
		mealID := w.MealID
		day.Plan.Set(w.Slot, &mealID)
		day.UpdatedAt = now
	}
	return nil
}

func (s *mealPlansStorage) ListPlannedDates(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, len(s.days))
	for date, day := range s.days {
		if !day.Plan.IsEmpty() {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *mealPlansStorage) PruneEmptyDays(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for date, day := range s.days {
		if day.Plan.IsEmpty() {
			delete(s.days, date)
			pruned++
		}
	}
	return pruned, nil
}

// Helper methods (must be called with lock held)
func (s *mealPlansStorage) getOrCreateDayLocked(date string) *storage.MealPlanDay {
	if day, ok := s.days[date]; ok {
		return day
	}
	now := time.Now().UTC()
	day := &storage.MealPlanDay{
		ID:        uuid.New().String(),
		Plan:      planning.EmptyDay(date),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.days[date] = day
	return day
}
