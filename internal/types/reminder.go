package types

import (
	"fmt"
	"time"
)

// ReminderStep identifies which day-relative-to-due-date a reminder belongs
// to. The J-steps cover the four-day precision window around the due date;
// StepMonthly is the coarse once-per-month batch namespace.
type ReminderStep string

const (
	StepJMinus2 ReminderStep = "J-2"
	StepJMinus1 ReminderStep = "J-1"
	StepJ0      ReminderStep = "J0"
	StepJPlus1  ReminderStep = "J+1"
	StepMonthly ReminderStep = "M1"
)

// StepForDelta maps the number of days until the due date to a reminder step.
// Deltas outside [-1, 2] are not reminder candidates; in particular there is
// no step below J+1, so invoices overdue by more than one day receive no
// further daily reminders.
func StepForDelta(delta int) (ReminderStep, bool) {
	switch delta {
	case 2:
		return StepJMinus2, true
	case 1:
		return StepJMinus1, true
	case 0:
		return StepJ0, true
	case -1:
		return StepJPlus1, true
	default:
		return "", false
	}
}

// ReminderKey builds the ledger dedup key for one (tenant, due date, step)
// combination, ex reminder:ten_01H9:2024-01-10:J0
func ReminderKey(tenantID string, dueDate time.Time, step ReminderStep) string {
	return fmt.Sprintf("reminder:%s:%s:%s", tenantID, dueDate.UTC().Format(time.DateOnly), step)
}
