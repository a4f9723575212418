package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestClampPaymentDay(t *testing.T) {
	assert.Equal(t, 1, ClampPaymentDay(0))
	assert.Equal(t, 1, ClampPaymentDay(-3))
	assert.Equal(t, 15, ClampPaymentDay(15))
	assert.Equal(t, 28, ClampPaymentDay(28))
	assert.Equal(t, 28, ClampPaymentDay(31))
}

func TestBeginningOfDay(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 16, 45, 12, 99, time.UTC)
	assert.Equal(t, d(2024, time.March, 7), BeginningOfDay(ts))

	// non-UTC input is normalized to the UTC calendar date
	paris := time.FixedZone("CET", 3600)
	late := time.Date(2024, time.March, 8, 0, 30, 0, 0, paris)
	assert.Equal(t, d(2024, time.March, 7), BeginningOfDay(late))
}

func TestAddClampedMonths(t *testing.T) {
	tests := []struct {
		name   string
		in     time.Time
		months int
		want   time.Time
	}{
		{"plain month", d(2024, time.January, 15), 1, d(2024, time.February, 15)},
		{"jan 31 to leap february", d(2024, time.January, 31), 1, d(2024, time.February, 29)},
		{"jan 31 to non-leap february", d(2023, time.January, 31), 1, d(2023, time.February, 28)},
		{"march 31 to april 30", d(2024, time.March, 31), 1, d(2024, time.April, 30)},
		{"year rollover", d(2023, time.December, 10), 1, d(2024, time.January, 10)},
		{"multiple months", d(2024, time.January, 31), 3, d(2024, time.April, 30)},
		{"twelve months", d(2024, time.February, 29), 12, d(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddClampedMonths(tt.in, tt.months))
		})
	}
}

func TestFirstDueDate(t *testing.T) {
	// payment day later in the start month
	assert.Equal(t, d(2024, time.January, 15), FirstDueDate(d(2024, time.January, 1), 15))

	// start exactly on the payment day
	assert.Equal(t, d(2024, time.January, 15), FirstDueDate(d(2024, time.January, 15), 15))

	// payment day already passed, rolls to next month
	assert.Equal(t, d(2024, time.February, 10), FirstDueDate(d(2024, time.January, 20), 10))

	// day above 28 is clamped before comparison
	assert.Equal(t, d(2024, time.February, 28), FirstDueDate(d(2024, time.January, 31), 31))

	// december rollover
	assert.Equal(t, d(2025, time.January, 5), FirstDueDate(d(2024, time.December, 20), 5))
}

func TestDaysUntil(t *testing.T) {
	today := d(2024, time.January, 10)

	assert.Equal(t, 2, DaysUntil(d(2024, time.January, 12), today))
	assert.Equal(t, 1, DaysUntil(d(2024, time.January, 11), today))
	assert.Equal(t, 0, DaysUntil(d(2024, time.January, 10), today))
	assert.Equal(t, -1, DaysUntil(d(2024, time.January, 9), today))
	assert.Equal(t, 22, DaysUntil(d(2024, time.February, 1), today))
}

func TestMonthWindow(t *testing.T) {
	first, last := MonthWindow(d(2024, time.February, 14))
	assert.Equal(t, d(2024, time.February, 1), first)
	assert.Equal(t, d(2024, time.February, 29), last)

	first, last = MonthWindow(d(2023, time.February, 14))
	assert.Equal(t, d(2023, time.February, 1), first)
	assert.Equal(t, d(2023, time.February, 28), last)

	first, last = MonthWindow(d(2024, time.December, 31))
	assert.Equal(t, d(2024, time.December, 1), first)
	assert.Equal(t, d(2024, time.December, 31), last)
}

func TestSameMonth(t *testing.T) {
	assert.True(t, SameMonth(d(2024, time.January, 1), d(2024, time.January, 31)))
	assert.False(t, SameMonth(d(2024, time.January, 31), d(2024, time.February, 1)))
	assert.False(t, SameMonth(d(2023, time.March, 10), d(2024, time.March, 10)))
}

func TestStepForDelta(t *testing.T) {
	tests := []struct {
		delta    int
		wantStep ReminderStep
		wantOK   bool
	}{
		{2, StepJMinus2, true},
		{1, StepJMinus1, true},
		{0, StepJ0, true},
		{-1, StepJPlus1, true},
		{3, "", false},
		{-2, "", false},
	}

	for _, tt := range tests {
		step, ok := StepForDelta(tt.delta)
		assert.Equal(t, tt.wantOK, ok, "delta %d", tt.delta)
		assert.Equal(t, tt.wantStep, step, "delta %d", tt.delta)
	}
}

func TestReminderKey(t *testing.T) {
	key := ReminderKey("ten_01H9", d(2024, time.January, 10), StepJ0)
	assert.Equal(t, "reminder:ten_01H9:2024-01-10:J0", key)

	monthly := ReminderKey("ten_01H9", d(2024, time.January, 5), StepMonthly)
	assert.Equal(t, "reminder:ten_01H9:2024-01-05:M1", monthly)
}
