package types

import "time"

// MaxPaymentDay is the highest day-of-month a lease can bill on. Capping at 28
// keeps every monthly due date valid in February without clamping surprises.
const MaxPaymentDay = 28

// ClampPaymentDay normalizes a lease's configured payment day to [1, MaxPaymentDay].
func ClampPaymentDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > MaxPaymentDay {
		return MaxPaymentDay
	}
	return day
}

// BeginningOfDay truncates t to UTC midnight. All due-date arithmetic in the
// scheduling engines operates on these date-only values.
func BeginningOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddClampedMonths adds the given number of months to t, clamping the day to
// the last valid day of the target month. Unlike time.AddDate, Jan 31 + 1
// month lands on Feb 28/29 instead of normalizing into March.
func AddClampedMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	newY := y
	newM := time.Month(int(m) + months)
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	lastDay := daysInMonth(newY, newM)
	if d > lastDay {
		d = lastDay
	}

	return time.Date(newY, newM, d, 0, 0, 0, 0, time.UTC)
}

// FirstDueDate returns the first calendar date on or after start whose
// day-of-month equals the clamped payment day. When that day has already
// passed within the start month, the due date rolls to the next month.
func FirstDueDate(start time.Time, paymentDay int) time.Time {
	start = BeginningOfDay(start)
	day := ClampPaymentDay(paymentDay)

	first := time.Date(start.Year(), start.Month(), day, 0, 0, 0, 0, time.UTC)
	if first.Before(start) {
		// day <= 28, so adding one month never needs clamping
		first = first.AddDate(0, 1, 0)
	}
	return first
}

// DaysUntil returns the whole number of days from today until due, negative
// when due is in the past. Both arguments are treated as dates.
func DaysUntil(due, today time.Time) int {
	due = BeginningOfDay(due)
	today = BeginningOfDay(today)
	return int(due.Sub(today).Hours() / 24)
}

// MonthWindow returns the first and last day of t's calendar month.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.UTC().Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(y, m, daysInMonth(y, m), 0, 0, 0, 0, time.UTC)
	return first, last
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	ay, am, _ := a.UTC().Date()
	by, bm, _ := b.UTC().Date()
	return ay == by && am == bm
}

func daysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
