package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trackcore/pkg/domain"
)

// YearMonth is a calendar month used to scope month views.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth validates month and returns the pair.
func NewYearMonth(year int, month time.Month) (YearMonth, error) {
	if month < time.January || month > time.December {
		return YearMonth{}, fmt.Errorf("month %d out of range", month)
	}
	return YearMonth{Year: year, Month: month}, nil
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	year, month, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || len(year) != 4 || len(month) != 2 {
		return YearMonth{}, fmt.Errorf("invalid year-month %q", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year in %q", s)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month in %q", s)
	}
	return NewYearMonth(y, time.Month(m))
}

// YearMonthOf returns the month a date falls in.
func YearMonthOf(d domain.Date) (YearMonth, error) {
	s := string(d)
	if len(s) < 7 {
		return YearMonth{}, fmt.Errorf("invalid date %q", s)
	}
	return ParseYearMonth(s[:7])
}

// Add moves n months forward (or backward for negative n), carrying into the
// year explicitly.
func (ym YearMonth) Add(n int) YearMonth {
	m := int(ym.Month) - 1 + n
	y := ym.Year + m/12
	m %= 12
	if m < 0 {
		m += 12
		y--
	}
	return YearMonth{Year: y, Month: time.Month(m + 1)}
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth { return ym.Add(1) }

// Prev returns the preceding month.
func (ym YearMonth) Prev() YearMonth { return ym.Add(-1) }

// Before reports whether ym is earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Days returns the number of days in the month.
func (ym YearMonth) Days() int {
	switch ym.Month {
	case time.February:
		if isLeap(ym.Year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// Date returns the given day of the month as a domain date.
func (ym YearMonth) Date(day int) domain.Date {
	return domain.Date(fmt.Sprintf("%s-%02d", ym, day))
}

// Contains reports whether d falls within the month. Malformed dates never
// match.
func (ym YearMonth) Contains(d domain.Date) bool {
	other, err := YearMonthOf(d)
	return err == nil && other == ym
}

// FilterMonth keeps items whose date falls within ym, preserving order.
func FilterMonth[T any](items []T, date func(T) domain.Date, ym YearMonth) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if ym.Contains(date(item)) {
			out = append(out, item)
		}
	}
	return out
}

// MonthRange returns steps+1 consecutive months starting at from. Negative
// steps walk backwards.
func MonthRange(from YearMonth, steps int) []YearMonth {
	dir := 1
	if steps < 0 {
		dir = -1
		steps = -steps
	}
	out := make([]YearMonth, 0, steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, from.Add(i*dir))
	}
	return out
}
