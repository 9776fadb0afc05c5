package planning

import (
	"fmt"
	"time"
)

// SlotWrite is one pending slot assignment produced by a copy.
// OnlyIfEmpty asks the store to skip the write when the target slot
// became non-null after the copy was planned.
type SlotWrite struct {
	Date        string
	Slot        Slot
	MealID      string
	OnlyIfEmpty bool
}

// CopyResult summarises a copy operation.
type CopyResult struct {
	DaysCopied  int `json:"days_copied"`
	SlotsCopied int `json:"slots_copied"`
}

type datePair struct {
	source string
	target string
}

// CopyWeekWrites plans a positional 7x5 copy from the week starting at
// srcMonday to the week starting at tgtMonday. source and target map
// dates to existing plans; missing dates are treated as empty days.
func CopyWeekWrites(srcMonday, tgtMonday time.Time, source, target map[string]DayPlan, overwrite bool) ([]SlotWrite, CopyResult, error) {
	if !IsWeekStart(srcMonday) {
		return nil, CopyResult{}, fmt.Errorf("%w: source_week_start %s is not a Monday", ErrValidation, FormatDate(srcMonday))
	}
	if !IsWeekStart(tgtMonday) {
		return nil, CopyResult{}, fmt.Errorf("%w: target_week_start %s is not a Monday", ErrValidation, FormatDate(tgtMonday))
	}

	pairs := make([]datePair, 0, 7)
	for i := 0; i < 7; i++ {
		pairs = append(pairs, datePair{
			source: FormatDate(srcMonday.AddDate(0, 0, i)),
			target: FormatDate(tgtMonday.AddDate(0, 0, i)),
		})
	}

	writes, result := planCopy(pairs, source, target, overwrite)
	return writes, result, nil
}

// CopyMonthWrites plans a copy by day-of-month. Source days past the end
// of the target month are skipped.
func CopyMonthWrites(src, tgt YearMonth, source, target map[string]DayPlan, overwrite bool) ([]SlotWrite, CopyResult) {
	days := src.DaysInMonth()
	if tgtDays := tgt.DaysInMonth(); tgtDays < days {
		days = tgtDays
	}

	pairs := make([]datePair, 0, days)
	for day := 1; day <= days; day++ {
		pairs = append(pairs, datePair{
			source: FormatDate(src.Day(day)),
			target: FormatDate(tgt.Day(day)),
		})
	}

	return planCopy(pairs, source, target, overwrite)
}

// planCopy applies the overwrite rule: only non-null source slots produce
// writes, and without overwrite a non-null target slot is left alone.
func planCopy(pairs []datePair, source, target map[string]DayPlan, overwrite bool) ([]SlotWrite, CopyResult) {
	var writes []SlotWrite
	var result CopyResult

	for _, p := range pairs {
		src, ok := source[p.source]
		if !ok {
			continue
		}
		tgt := target[p.target]

		wrote := false
		for _, info := range Slots {
			value := src.Get(info.Slot)
			if value == nil {
				continue
			}
			if !overwrite && tgt.Get(info.Slot) != nil {
				continue
			}
			writes = append(writes, SlotWrite{
				Date:        p.target,
				Slot:        info.Slot,
				MealID:      *value,
				OnlyIfEmpty: !overwrite,
			})
			wrote = true
		}
		if wrote {
			result.DaysCopied++
		}
	}

	result.SlotsCopied = len(writes)
	return writes, result
}

// IndexByDate keys plans by their date.
func IndexByDate(plans []DayPlan) map[string]DayPlan {
	byDate := make(map[string]DayPlan, len(plans))
	for _, p := range plans {
		byDate[p.Date] = p
	}
	return byDate
}
