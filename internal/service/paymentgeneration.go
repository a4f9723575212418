package service

import (
	"context"
	"time"

	"github.com/locatus/locatus/internal/api/dto"
	"github.com/locatus/locatus/internal/domain/lease"
	"github.com/locatus/locatus/internal/domain/payment"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
	"github.com/locatus/locatus/internal/validator"
)

// PaymentGenerationService creates the next rent invoice for every active
// lease inside a forward horizon, exactly once per due date. Re-running a
// pass with the same inputs is safe: the window check and the per-due-date
// existence check make creation idempotent.
type PaymentGenerationService interface {
	GeneratePayments(ctx context.Context, req *dto.GeneratePaymentsRequest) (*dto.GeneratePaymentsResponse, error)
}

type paymentGenerationService struct {
	ServiceParams
}

// NewPaymentGenerationService creates a new payment generation service
func NewPaymentGenerationService(params ServiceParams) PaymentGenerationService {
	return &paymentGenerationService{
		ServiceParams: params,
	}
}

func (s *paymentGenerationService) GeneratePayments(ctx context.Context, req *dto.GeneratePaymentsRequest) (*dto.GeneratePaymentsResponse, error) {
	if req == nil || req.Now == nil {
		return nil, ierr.NewError("now is required").
			WithHint("Pass the reference date explicitly; the engine never samples the clock").
			Mark(ierr.ErrValidation)
	}
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	now := types.BeginningOfDay(*req.Now)
	horizonDays := req.HorizonDays
	if horizonDays <= 0 {
		horizonDays = s.Config.Scheduler.HorizonDays
	}
	horizon := now.AddDate(0, 0, horizonDays)

	s.Logger.Infow("starting payment generation pass",
		"now", now.Format("2006-01-02"),
		"horizon_days", horizonDays,
	)

	leases, err := s.LeaseRepo.List(ctx, &types.LeaseFilter{
		QueryFilter:              types.NewNoLimitQueryFilter(),
		LeaseStatuses:            []types.LeaseStatus{types.LeaseStatusActive},
		ExcludeOfflineProperties: true,
	})
	if err != nil {
		return nil, err
	}

	response := &dto.GeneratePaymentsResponse{
		Now:              now,
		HorizonDays:      horizonDays,
		LeasesConsidered: len(leases),
		Items:            make([]*dto.GeneratePaymentsResponseItem, 0, len(leases)),
	}

	for _, l := range leases {
		item, err := s.processLease(ctx, l, now, horizon)
		if err != nil {
			// per-lease isolation: one lease failing to persist must not
			// abort the rest of the pass
			s.Logger.Errorw("failed to process lease",
				"lease_id", l.ID,
				"error", err,
			)
			response.Failed++
			item = &dto.GeneratePaymentsResponseItem{
				LeaseID: l.ID,
				Status:  dto.GenerationStatusError,
				Error:   err.Error(),
			}
		} else if item.Status == dto.GenerationStatusCreated {
			response.Created++
		} else {
			response.Skipped++
		}
		response.Items = append(response.Items, item)
	}

	s.Logger.Infow("completed payment generation pass",
		"leases_considered", response.LeasesConsidered,
		"created", response.Created,
		"skipped", response.Skipped,
		"failed", response.Failed,
	)
	return response, nil
}

// processLease ensures at most one upcoming pending payment exists for the
// lease inside [now, horizon] and advances the due-date cursor past whatever
// due date it settled on.
func (s *paymentGenerationService) processLease(ctx context.Context, l *lease.Lease, now, horizon time.Time) (*dto.GeneratePaymentsResponseItem, error) {
	item := &dto.GeneratePaymentsResponseItem{LeaseID: l.ID}

	// Primary idempotence guard: a payment already planned inside the window
	// means the pass has nothing to do for this lease, whatever the cursor
	// says.
	upcoming, err := s.PaymentRepo.List(ctx, &types.PaymentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		LeaseID:     l.ID,
		DueDateFrom: &now,
		DueDateTo:   &horizon,
	})
	if err != nil {
		return nil, err
	}
	if len(upcoming) > 0 {
		item.Status = dto.GenerationStatusAlreadyPlanned
		due := types.BeginningOfDay(upcoming[0].DueDate)
		item.DueDate = &due
		return item, nil
	}

	start := types.BeginningOfDay(l.StartDate)
	if start.After(horizon) {
		item.Status = dto.GenerationStatusNotStarted
		return item, nil
	}
	if l.EndDate != nil && types.BeginningOfDay(*l.EndDate).Before(now) {
		item.Status = dto.GenerationStatusEnded
		return item, nil
	}

	next := types.FirstDueDate(start, l.PaymentDay)
	if l.NextDueDate != nil {
		next = types.BeginningOfDay(*l.NextDueDate)
	}
	// Catch up leases that sat dormant past due dates, stopping at the lease
	// end so a terminated window never bills forever.
	for next.Before(now) {
		if l.EndDate != nil && next.After(types.BeginningOfDay(*l.EndDate)) {
			break
		}
		next = types.AddClampedMonths(next, 1)
	}

	if next.After(horizon) {
		// outside the window: no payment, and the cursor stays put
		item.Status = dto.GenerationStatusBeyondHorizon
		return item, nil
	}

	item.DueDate = &next

	created, err := s.ensurePayment(ctx, l, next)
	if err != nil {
		return nil, err
	}
	if created {
		item.Status = dto.GenerationStatusCreated
	} else {
		item.Status = dto.GenerationStatusExists
	}

	// The cursor always moves forward past the due date just handled, even
	// when creation was skipped, so it never stalls on an existing payment.
	cursor := types.AddClampedMonths(next, 1)
	if err := s.LeaseRepo.UpdateNextDueDate(ctx, l.ID, cursor); err != nil {
		return nil, err
	}

	return item, nil
}

// ensurePayment creates the payment for the given due date unless one exists.
// Returns whether a new payment was created.
func (s *paymentGenerationService) ensurePayment(ctx context.Context, l *lease.Lease, dueDate time.Time) (bool, error) {
	exists, err := s.PaymentRepo.ExistsForDueDate(ctx, l.ID, dueDate)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	p := &payment.Payment{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		LeaseID:       l.ID,
		Amount:        l.MonthlyAmount(),
		Currency:      s.Config.Scheduler.DefaultCurrency,
		DueDate:       dueDate,
		PaymentStatus: types.PaymentStatusPending,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		if ierr.IsAlreadyExists(err) {
			// lost a check-then-act race with a concurrent pass; the payment
			// is there, which is all this pass wanted
			s.Logger.Debugw("payment already created by a concurrent pass",
				"lease_id", l.ID,
				"due_date", dueDate.Format("2006-01-02"),
			)
			return false, nil
		}
		return false, err
	}

	s.Logger.Infow("created rent payment",
		"payment_id", p.ID,
		"lease_id", l.ID,
		"due_date", dueDate.Format("2006-01-02"),
		"amount", p.Amount.String(),
	)
	return true, nil
}
