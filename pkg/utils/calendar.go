package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// TruncateToDay drops the time-of-day component and normalizes to UTC.
// All due-date comparisons in the engine happen at day precision.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return TruncateToDay(a).Equal(TruncateToDay(b))
}

// SameMonth reports whether two instants fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// AddMonths advances a date by n calendar months, keeping the day-of-month
// where the target month allows it (Jan 31 + 1 month normalizes per
// time.AddDate, e.g. to Mar 2/3).
func AddMonths(t time.Time, n int) time.Time {
	return TruncateToDay(t).AddDate(0, n, 0)
}

// DaysInMonth returns the number of calendar days in the month containing t.
func DaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// WholeMonthsBetween returns the number of complete calendar months from
// `from` to `to`. Negative when `to` precedes `from`.
func WholeMonthsBetween(from, to time.Time) int {
	from, to = TruncateToDay(from), TruncateToDay(to)
	if to.Before(from) {
		return -WholeMonthsBetween(to, from)
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}

// DaysBetween returns the number of calendar days from `from` to `to`.
func DaysBetween(from, to time.Time) int {
	return int(TruncateToDay(to).Sub(TruncateToDay(from)).Hours() / 24)
}

// FloorAmount floors a monetary value to the currency's smallest unit.
// The base currency has no minor units, so amounts are whole numbers;
// flooring (never rounding up) is the house convention.
func FloorAmount(d decimal.Decimal) decimal.Decimal {
	return d.Floor()
}

// DecimalFromInt converts an int64 to decimal.Decimal.
func DecimalFromInt(i int64) decimal.Decimal {
	return decimal.NewFromInt(i)
}

// DecimalFromString converts a string to decimal.Decimal.
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
