package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/locatus/locatus/internal/api/dto"
	"github.com/locatus/locatus/internal/domain/lease"
	"github.com/locatus/locatus/internal/domain/payment"
	"github.com/locatus/locatus/internal/domain/property"
	"github.com/locatus/locatus/internal/domain/reminder"
	"github.com/locatus/locatus/internal/domain/settings"
	"github.com/locatus/locatus/internal/domain/tenant"
	"github.com/locatus/locatus/internal/email"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
)

// ReminderService walks the calendar and decides, for every unpaid rent
// payment, whether a reminder is due, already sent, or suppressed because
// the tenant has since paid. The reminder ledger makes every send
// exactly-once per (tenant, due date, step) key; failures are transient and
// retried simply by re-running with the same date.
type ReminderService interface {
	// RunScheduled performs the daily precision sweep over the J-2/J-1/J0/J+1
	// steps.
	RunScheduled(ctx context.Context, req *dto.RunScheduledRemindersRequest) (*dto.ReminderRunResponse, error)
	// RunMonthly performs the coarse once-per-month sweep over every
	// outstanding payment due in the current month, step M1.
	RunMonthly(ctx context.Context, req *dto.RunMonthlyRemindersRequest) (*dto.ReminderRunResponse, error)
}

type reminderService struct {
	ServiceParams
}

// NewReminderService creates a new reminder service
func NewReminderService(params ServiceParams) ReminderService {
	return &reminderService{
		ServiceParams: params,
	}
}

// reminderCandidate is one payment joined to the rows a reminder needs
type reminderCandidate struct {
	payment  *payment.Payment
	lease    *lease.Lease
	tenant   *tenant.Tenant
	property *property.Property
}

func (s *reminderService) RunScheduled(ctx context.Context, req *dto.RunScheduledRemindersRequest) (*dto.ReminderRunResponse, error) {
	if req == nil || req.Today == nil {
		return nil, ierr.NewError("today is required").
			WithHint("Pass the reference date explicitly; the engine never samples the clock").
			Mark(ierr.ErrValidation)
	}
	today := types.BeginningOfDay(*req.Today)

	s.Logger.Infow("starting scheduled reminder sweep", "today", today.Format(time.DateOnly))

	// The four steps cover due dates from yesterday (J+1) to the day after
	// tomorrow (J-2); anything else can never classify, so it is not fetched.
	from := today.AddDate(0, 0, -1)
	to := today.AddDate(0, 0, 2)
	candidates, err := s.collectCandidates(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}

	response := newReminderRunResponse(today)
	for _, cand := range candidates {
		delta := types.DaysUntil(cand.payment.DueDate, today)
		step, ok := types.StepForDelta(delta)
		if !ok {
			continue
		}
		response.Count++
		s.processCandidate(ctx, cand, step, response)
	}

	s.logSweepDone("scheduled", response)
	return response, nil
}

func (s *reminderService) RunMonthly(ctx context.Context, req *dto.RunMonthlyRemindersRequest) (*dto.ReminderRunResponse, error) {
	if req == nil || req.Today == nil {
		return nil, ierr.NewError("today is required").
			WithHint("Pass the reference date explicitly; the engine never samples the clock").
			Mark(ierr.ErrValidation)
	}
	today := types.BeginningOfDay(*req.Today)

	lastRun, err := s.effectiveLastRun(ctx, req.LastRun)
	if err != nil {
		return nil, err
	}
	if lastRun != nil && types.SameMonth(*lastRun, today) {
		s.Logger.Infow("monthly reminder sweep already ran this month",
			"today", today.Format(time.DateOnly),
			"last_run", lastRun.Format(time.DateOnly),
		)
		response := newReminderRunResponse(today)
		response.LastRun = lastRun
		response.Skipped = "already ran this month"
		return response, nil
	}

	s.Logger.Infow("starting monthly reminder sweep", "today", today.Format(time.DateOnly))

	first, last := types.MonthWindow(today)
	candidates, err := s.collectCandidates(ctx, first, last, types.OutstandingPaymentStatuses())
	if err != nil {
		return nil, err
	}

	response := newReminderRunResponse(today)
	response.Count = len(candidates)
	for _, cand := range candidates {
		s.processCandidate(ctx, cand, types.StepMonthly, response)
	}

	if err := s.persistLastRun(ctx, today); err != nil {
		// the sweep itself succeeded; a stale marker only means the next
		// invocation re-walks candidates the duplicate gate will skip
		s.Logger.Warnw("failed to persist monthly sweep marker", "error", err)
	}
	response.LastRun = &today

	s.logSweepDone("monthly", response)
	return response, nil
}

// processCandidate applies the paid and duplicate gates, sends, and records
// history. Every outcome lands in the report; nothing is thrown past the
// candidate.
func (s *reminderService) processCandidate(ctx context.Context, cand *reminderCandidate, step types.ReminderStep, response *dto.ReminderRunResponse) {
	item := &dto.ReminderRunResponseItem{
		PaymentID: cand.payment.ID,
		Step:      step,
	}

	// Paid gate: status paid or a recorded payment date suppresses the
	// reminder regardless of step.
	if cand.payment.IsPaid() {
		response.SkippedPaid++
		item.Status = "paid"
		response.Items = append(response.Items, item)
		return
	}

	// Duplicate gate: the ledger is the state machine; an existing entry
	// means this exact reminder went out on an earlier run.
	key := types.ReminderKey(cand.tenant.ID, cand.payment.DueDate, step)
	sent, err := s.ReminderRepo.ExistsByKey(ctx, key)
	if err != nil {
		response.Errors = append(response.Errors, &dto.ReminderError{
			PaymentID: cand.payment.ID,
			Step:      step,
			Reason:    err.Error(),
		})
		item.Status = "error"
		response.Items = append(response.Items, item)
		return
	}
	if sent {
		response.SkippedDuplicate++
		item.Status = "duplicate"
		response.Items = append(response.Items, item)
		return
	}

	subject, text, html := s.renderReminder(cand, step)
	resp, err := s.Sender.Send(ctx, email.SendEmailRequest{
		ToAddress: cand.tenant.Email,
		Subject:   subject,
		Text:      text,
		HTML:      html,
	})
	if err != nil || !resp.Success {
		reason := "unknown error"
		if err != nil {
			reason = err.Error()
		} else if resp.Error != "" {
			reason = resp.Error
		}
		s.Logger.Errorw("reminder send failed",
			"payment_id", cand.payment.ID,
			"step", step,
			"reason", reason,
		)
		// no history entry, so the next run retries this candidate
		response.Errors = append(response.Errors, &dto.ReminderError{
			PaymentID: cand.payment.ID,
			Step:      step,
			Reason:    reason,
		})
		item.Status = "error"
		response.Items = append(response.Items, item)
		return
	}

	s.markSent(ctx, cand, step, key, subject, resp.MessageID)
	response.Sent++
	item.Status = "sent"
	response.Items = append(response.Items, item)
}

// collectCandidates loads payments due inside [from, to] and joins each to
// its lease, tenant and property. Rows referencing missing entities are
// excluded here rather than crashing the sweep; offline properties are
// dropped.
func (s *reminderService) collectCandidates(ctx context.Context, from, to time.Time, statuses []types.PaymentStatus) ([]*reminderCandidate, error) {
	payments, err := s.PaymentRepo.List(ctx, &types.PaymentFilter{
		QueryFilter:     types.NewNoLimitQueryFilter(),
		PaymentStatuses: statuses,
		DueDateFrom:     &from,
		DueDateTo:       &to,
	})
	if err != nil {
		return nil, err
	}

	leases := make(map[string]*lease.Lease)
	tenants := make(map[string]*tenant.Tenant)
	properties := make(map[string]*property.Property)

	candidates := make([]*reminderCandidate, 0, len(payments))
	for _, p := range payments {
		l, ok := leases[p.LeaseID]
		if !ok {
			l, err = s.LeaseRepo.Get(ctx, p.LeaseID)
			if err != nil {
				s.logBrokenJoin("lease", p.ID, p.LeaseID, err)
				continue
			}
			leases[p.LeaseID] = l
		}

		t, ok := tenants[l.TenantID]
		if !ok {
			t, err = s.TenantRepo.Get(ctx, l.TenantID)
			if err != nil {
				s.logBrokenJoin("tenant", p.ID, l.TenantID, err)
				continue
			}
			tenants[l.TenantID] = t
		}

		prop, ok := properties[l.PropertyID]
		if !ok {
			prop, err = s.PropertyRepo.Get(ctx, l.PropertyID)
			if err != nil {
				s.logBrokenJoin("property", p.ID, l.PropertyID, err)
				continue
			}
			properties[l.PropertyID] = prop
		}

		if prop.IsOffline() {
			continue
		}

		candidates = append(candidates, &reminderCandidate{
			payment:  p,
			lease:    l,
			tenant:   t,
			property: prop,
		})
	}
	return candidates, nil
}

// markSent records the ledger entry for a successful send. The write is
// best-effort durable: a failure is logged and accepted (it only risks one
// duplicate send on the next run), and a unique-key conflict means a
// concurrent run already recorded the same send.
func (s *reminderService) markSent(ctx context.Context, cand *reminderCandidate, step types.ReminderStep, key, subject, messageID string) {
	entry := &reminder.History{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REMINDER_HISTORY),
		Key:       key,
		TenantID:  cand.tenant.ID,
		PaymentID: cand.payment.ID,
		LeaseID:   cand.lease.ID,
		DueDate:   types.BeginningOfDay(cand.payment.DueDate),
		Step:      step,
		Metadata: types.Metadata{
			"subject":    subject,
			"message_id": messageID,
		},
		SentAt:    time.Now().UTC(),
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if err := s.ReminderRepo.Create(ctx, entry); err != nil {
		if ierr.IsAlreadyExists(err) {
			s.Logger.Debugw("reminder history already recorded by a concurrent run", "key", key)
			return
		}
		s.Logger.Warnw("failed to record reminder history, next run may send a duplicate",
			"key", key,
			"error", err,
		)
	}
}

func (s *reminderService) renderReminder(cand *reminderCandidate, step types.ReminderStep) (subject, text, html string) {
	dueStr := cand.payment.DueDate.Format("02/01/2006")
	amountStr := fmt.Sprintf("%s %s", cand.payment.Amount.StringFixed(0), cand.payment.Currency)
	payURL := strings.TrimRight(s.Config.Scheduler.AppURL, "/") + "/payments"
	name := cand.tenant.FullName()
	place := fmt.Sprintf("%s (%s)", cand.property.Title, cand.property.City)

	if step == types.StepMonthly {
		subject = fmt.Sprintf("Rent due this month – %s", cand.property.Title)
	} else {
		subject = fmt.Sprintf("Rent payment reminder – due %s", dueStr)
	}

	text = fmt.Sprintf(
		"Hello %s,\nYour rent for %s is due on %s.\nAmount due: %s.\nPay now: %s\nAutomated reminder (%s).",
		name, place, dueStr, amountStr, payURL, step,
	)

	html = fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; color: #0f172a; line-height: 1.6;">
      <p>Hello %s,</p>
      <p>Your rent for <strong>%s</strong> is due on <strong>%s</strong>.</p>
      <p>Amount due: <strong>%s</strong>.</p>
      <p>Please settle it as soon as possible. If you have already paid, you can ignore this message.</p>
      <p style="margin-top: 20px;">
        <a href="%s" style="background:#0f172a;color:#fff;padding:12px 18px;border-radius:6px;text-decoration:none;font-weight:600;">Pay now</a>
      </p>
      <p style="font-size: 12px; color:#64748b; margin-top: 24px;">Automated reminder (%s).</p>
    </div>`,
		name, place, dueStr, amountStr, payURL, step,
	)

	return subject, text, html
}

// effectiveLastRun resolves the monthly sweep marker: an explicit override
// wins, otherwise the persisted settings value is used.
func (s *reminderService) effectiveLastRun(ctx context.Context, override *time.Time) (*time.Time, error) {
	if override != nil {
		d := types.BeginningOfDay(*override)
		return &d, nil
	}

	setting, err := s.SettingsRepo.GetByKey(ctx, types.SettingKeyMonthlyReminderLastRun)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	raw, ok := setting.Value["date"].(string)
	if !ok {
		return nil, nil
	}
	parsed, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		s.Logger.Warnw("invalid monthly sweep marker, ignoring", "value", raw)
		return nil, nil
	}
	return &parsed, nil
}

func (s *reminderService) persistLastRun(ctx context.Context, today time.Time) error {
	return s.SettingsRepo.Upsert(ctx, &settings.Setting{
		ID:  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SETTING),
		Key: types.SettingKeyMonthlyReminderLastRun,
		Value: map[string]interface{}{
			"date": today.Format(time.DateOnly),
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	})
}

func (s *reminderService) logBrokenJoin(entity, paymentID, refID string, err error) {
	s.Logger.Warnw("excluding payment with broken reference",
		"payment_id", paymentID,
		"entity", entity,
		"ref_id", refID,
		"error", err,
	)
}

func (s *reminderService) logSweepDone(kind string, response *dto.ReminderRunResponse) {
	s.Logger.Infow("completed reminder sweep",
		"kind", kind,
		"count", response.Count,
		"sent", response.Sent,
		"skipped_paid", response.SkippedPaid,
		"skipped_duplicate", response.SkippedDuplicate,
		"errors", len(response.Errors),
	)
}

func newReminderRunResponse(date time.Time) *dto.ReminderRunResponse {
	return &dto.ReminderRunResponse{
		Date:   date,
		Errors: make([]*dto.ReminderError, 0),
		Items:  make([]*dto.ReminderRunResponseItem, 0),
	}
}
