package postgres

import (
	"context"
	"fmt"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type mealPlansStorage struct {
	pool *pgxpool.Pool
}

func newMealPlansStorage(pool *pgxpool.Pool) *mealPlansStorage {
	return &mealPlansStorage{pool: pool}
}

const dayColumns = `id::text, to_char(plan_date, 'YYYY-MM-DD'),
	breakfast, morning_snack, lunch, dinner, evening_snack, created_at, updated_at`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanDay(row pgx.Row) (storage.MealPlanDay, error) {
	var day storage.MealPlanDay
	err := row.Scan(
		&day.ID,
		&day.Plan.Date,
		&day.Plan.Breakfast,
		&day.Plan.MorningSnack,
		&day.Plan.Lunch,
		&day.Plan.Dinner,
		&day.Plan.EveningSnack,
		&day.CreatedAt,
		&day.UpdatedAt,
	)
	return day, err
}

// slotColumn maps a slot to its column; slots are validated before reaching storage.
func slotColumn(slot planning.Slot) (string, error) {
	if !slot.Valid() {
		return "", fmt.Errorf("unknown slot %q", slot)
	}
	return string(slot), nil
}

func (s *mealPlansStorage) GetRange(ctx context.Context, start, end string) ([]storage.MealPlanDay, error) {
	query := `
		SELECT ` + dayColumns + `
		FROM meal_plan_days
		WHERE plan_date BETWEEN $1::date AND $2::date
		ORDER BY plan_date ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan range: %w", err)
	}
	defer rows.Close()

	var days []storage.MealPlanDay
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan day: %w", err)
		}
		days = append(days, day)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meal plan days: %w", rows.Err())
	}

	return days, nil
}

func (s *mealPlansStorage) SetSlot(ctx context.Context, date string, slot planning.Slot, mealID *string) (storage.MealPlanDay, error) {
	day, err := setSlot(ctx, s.pool, date, slot, mealID, false)
	if err != nil {
		return storage.MealPlanDay{}, fmt.Errorf("failed to assign meal plan slot: %w", err)
	}
	return day, nil
}

func setSlot(ctx context.Context, q querier, date string, slot planning.Slot, mealID *string, onlyIfEmpty bool) (storage.MealPlanDay, error) {
	column, err := slotColumn(slot)
	if err != nil {
		return storage.MealPlanDay{}, err
	}

	assign := fmt.Sprintf("EXCLUDED.%s", column)
	if onlyIfEmpty {
		assign = fmt.Sprintf("COALESCE(meal_plan_days.%s, EXCLUDED.%s)", column, column)
	}

	query := fmt.Sprintf(`
		INSERT INTO meal_plan_days (plan_date, %[1]s)
		VALUES ($1::date, $2)
		ON CONFLICT (plan_date) DO UPDATE
		SET %[1]s = %[2]s, updated_at = now()
		RETURNING `+dayColumns, column, assign)

	return scanDay(q.QueryRow(ctx, query, date, mealID))
}

func (s *mealPlansStorage) UpsertDay(ctx context.Context, plan planning.DayPlan) (storage.MealPlanDay, error) {
	query := `
		INSERT INTO meal_plan_days (plan_date, breakfast, morning_snack, lunch, dinner, evening_snack)
		VALUES ($1::date, $2, $3, $4, $5, $6)
		ON CONFLICT (plan_date) DO UPDATE
		SET breakfast = EXCLUDED.breakfast,
		    morning_snack = EXCLUDED.morning_snack,
		    lunch = EXCLUDED.lunch,
		    dinner = EXCLUDED.dinner,
		    evening_snack = EXCLUDED.evening_snack,
		    updated_at = now()
		RETURNING ` + dayColumns

	day, err := scanDay(s.pool.QueryRow(ctx, query,
		plan.Date,
		plan.Breakfast,
		plan.MorningSnack,
		plan.Lunch,
		plan.Dinner,
		plan.EveningSnack,
	))
	if err != nil {
		return storage.MealPlanDay{}, fmt.Errorf("failed to upsert meal plan day: %w", err)
	}
	return day, nil
}

func (s *mealPlansStorage) ApplyWrites(ctx context.Context, writes []planning.SlotWrite) error {
	if len(writes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, w := range writes {
		mealID := w.MealID
		if _, err := setSlot(ctx, tx, w.Date, w.Slot, &mealID, w.OnlyIfEmpty); err != nil {
			return fmt.Errorf("failed to write %s/%s: %w", w.Date, w.Slot, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *mealPlansStorage) ListPlannedDates(ctx context.Context) ([]string, error) {
	query := `
		SELECT to_char(plan_date, 'YYYY-MM-DD')
		FROM meal_plan_days
		WHERE COALESCE(breakfast, morning_snack, lunch, dinner, evening_snack) IS NOT NULL
		ORDER BY plan_date ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned dates: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan planned date: %w", err)
		}
		dates = append(dates, date)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating planned dates: %w", rows.Err())
	}
	return dates, nil
}

func (s *mealPlansStorage) PruneEmptyDays(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM meal_plan_days
		WHERE COALESCE(breakfast, morning_snack, lunch, dinner, evening_snack) IS NULL
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prune empty meal plan days: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
