package calendar

import (
	"time"

	"github.com/fdg312/mealboard/internal/planning"
)

// MonthGrid lays a month out in Sunday-first rows of seven cells.
// plans is keyed by date; missing dates count as empty days.
func MonthGrid(ym planning.YearMonth, plans map[string]planning.DayPlan) [][]DayCell {
	lead := int(ym.First().Weekday())
	days := ym.DaysInMonth()

	cells := make([]DayCell, 0, 42)
	for i := 0; i < lead; i++ {
		cells = append(cells, DayCell{})
	}
	for day := 1; day <= days; day++ {
		date := planning.FormatDate(ym.Day(day))
		count := plans[date].AssignedCount()
		cells = append(cells, DayCell{
			Date:          planning.StringPtr(date),
			Day:           day,
			HasPlans:      count > 0,
			AssignedCount: count,
		})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, DayCell{})
	}

	rows := make([][]DayCell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		rows = append(rows, cells[i:i+7])
	}
	return rows
}

// GroupByWeek splits dates into chunks, starting a new chunk on every
// Sunday once the current chunk is non-empty. The table view uses Sunday
// here while week keys and copy-week use Monday.
func GroupByWeek(dates []time.Time) [][]time.Time {
	var chunks [][]time.Time
	var current []time.Time
	for _, d := range dates {
		if d.Weekday() == time.Sunday && len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
		}
		current = append(current, d)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
