package dto

import (
	"time"

	"github.com/locatus/locatus/internal/types"
)

// GeneratePaymentsRequest parametrizes one payment generation pass. Now is
// explicit so the pass is deterministic; callers that want wall-clock
// behavior resolve the clock themselves.
type GeneratePaymentsRequest struct {
	Now         *time.Time `json:"now,omitempty"`
	HorizonDays int        `json:"horizon_days,omitempty" validate:"omitempty,min=1"`
}

// PaymentGenerationStatus describes what one pass did for one lease
type PaymentGenerationStatus string

const (
	GenerationStatusCreated        PaymentGenerationStatus = "created"
	GenerationStatusAlreadyPlanned PaymentGenerationStatus = "already_planned"
	GenerationStatusExists         PaymentGenerationStatus = "exists"
	GenerationStatusNotStarted     PaymentGenerationStatus = "not_started"
	GenerationStatusEnded          PaymentGenerationStatus = "ended"
	GenerationStatusBeyondHorizon  PaymentGenerationStatus = "beyond_horizon"
	GenerationStatusError          PaymentGenerationStatus = "error"
)

// GeneratePaymentsResponseItem is the per-lease outcome of a generation pass
type GeneratePaymentsResponseItem struct {
	LeaseID string                  `json:"lease_id"`
	DueDate *time.Time              `json:"due_date,omitempty"`
	Status  PaymentGenerationStatus `json:"status"`
	Error   string                  `json:"error,omitempty"`
}

// GeneratePaymentsResponse is the structured report of one generation pass;
// operators reading it and the logs are the only consumers.
type GeneratePaymentsResponse struct {
	Now              time.Time                       `json:"now"`
	HorizonDays      int                             `json:"horizon_days"`
	LeasesConsidered int                             `json:"leases_considered"`
	Created          int                             `json:"created"`
	Skipped          int                             `json:"skipped"`
	Failed           int                             `json:"failed"`
	Items            []*GeneratePaymentsResponseItem `json:"items"`
}

// RunScheduledRemindersRequest parametrizes one daily reminder sweep
type RunScheduledRemindersRequest struct {
	Today *time.Time `json:"today,omitempty"`
}

// RunMonthlyRemindersRequest parametrizes one monthly batch sweep. LastRun
// overrides the persisted marker, for deterministic replays and tests.
type RunMonthlyRemindersRequest struct {
	Today   *time.Time `json:"today,omitempty"`
	LastRun *time.Time `json:"last_run,omitempty"`
}

// ReminderError records one failed send, keyed by the payment it was about
type ReminderError struct {
	PaymentID string             `json:"payment_id"`
	Step      types.ReminderStep `json:"step"`
	Reason    string             `json:"reason"`
}

// ReminderRunResponseItem is the per-candidate outcome of a reminder sweep
type ReminderRunResponseItem struct {
	PaymentID string             `json:"payment_id"`
	Step      types.ReminderStep `json:"step"`
	Status    string             `json:"status"`
}

// ReminderRunResponse is the structured report of one reminder sweep
type ReminderRunResponse struct {
	Date             time.Time                  `json:"date"`
	Count            int                        `json:"count"`
	Sent             int                        `json:"sent"`
	SkippedPaid      int                        `json:"skipped_paid"`
	SkippedDuplicate int                        `json:"skipped_duplicate"`
	Errors           []*ReminderError           `json:"errors"`
	Items            []*ReminderRunResponseItem `json:"items"`
	// LastRun is the effective monthly-sweep marker after this call; only
	// set by the monthly sweep
	LastRun *time.Time `json:"last_run,omitempty"`
	// Skipped explains why a sweep did nothing (monthly sweep already ran)
	Skipped string `json:"skipped,omitempty"`
}
