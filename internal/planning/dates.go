package planning

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, raw)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// IsWeekStart reports whether t is a Monday.
func IsWeekStart(t time.Time) bool {
	return t.Weekday() == time.Monday
}

// WeekDates returns the seven dates starting at monday.
func WeekDates(monday time.Time) []time.Time {
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// DefaultMaxRangeDays caps ranges until SetMaxRangeDays is called.
const DefaultMaxRangeDays = 366

var maxRangeDays atomic.Int64

// SetMaxRangeDays sets the longest inclusive range DateRange and ParseRange
// accept. Values <= 0 restore DefaultMaxRangeDays.
func SetMaxRangeDays(days int) {
	if days <= 0 {
		days = DefaultMaxRangeDays
	}
	maxRangeDays.Store(int64(days))
}

// MaxRangeDays returns the current range cap.
func MaxRangeDays() int {
	if n := maxRangeDays.Load(); n > 0 {
		return int(n)
	}
	return DefaultMaxRangeDays
}

// checkSpan assumes start is not after end.
func checkSpan(start, end time.Time) error {
	// Unix seconds, since Duration saturates past ~292 years
	days := (end.Unix()-start.Unix())/86400 + 1
	if limit := MaxRangeDays(); days > int64(limit) {
		return fmt.Errorf("%w: range of %d days exceeds the limit of %d", ErrInvalidRange, days, limit)
	}
	return nil
}

// DateRange returns every date from start to end inclusive.
func DateRange(start, end time.Time) ([]time.Time, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, FormatDate(start), FormatDate(end))
	}
	if err := checkSpan(start, end); err != nil {
		return nil, err
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

// ParseRange parses both bounds and checks their order and span.
func ParseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date %s is after end_date %s", ErrInvalidRange, startRaw, endRaw)
	}
	if err := checkSpan(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth validates year and month.
func NewYearMonth(year, month int) (YearMonth, error) {
	if year < 1 || year > 9999 {
		return YearMonth{}, fmt.Errorf("%w: year %d out of range", ErrValidation, year)
	}
	if month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("%w: month %d out of range", ErrValidation, month)
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// ParseMonthKey parses a "YYYY-MM" key.
func ParseMonthKey(raw string) (YearMonth, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return YearMonth{}, fmt.Errorf("%w: invalid month %q, expected YYYY-MM", ErrValidation, raw)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: invalid month %q, expected YYYY-MM", ErrValidation, raw)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: invalid month %q, expected YYYY-MM", ErrValidation, raw)
	}
	return NewYearMonth(year, month)
}

// MonthKey returns the "YYYY-MM" key containing t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// String returns the "YYYY-MM" key.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// First returns the first day of the month.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month.
func (ym YearMonth) Last() time.Time {
	return ym.First().AddDate(0, 1, -1)
}

// Day returns the given day of the month.
func (ym YearMonth) Day(day int) time.Time {
	return time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the month.
func (ym YearMonth) DaysInMonth() int {
	return ym.Last().Day()
}
