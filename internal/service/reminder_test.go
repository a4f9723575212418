package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/locatus/locatus/internal/api/dto"
	"github.com/locatus/locatus/internal/domain/lease"
	"github.com/locatus/locatus/internal/domain/payment"
	"github.com/locatus/locatus/internal/domain/property"
	"github.com/locatus/locatus/internal/domain/tenant"
	"github.com/locatus/locatus/internal/email"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/testutil"
	"github.com/locatus/locatus/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReminderServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  ReminderService
	testData struct {
		property *property.Property
		tenant   *tenant.Tenant
		lease    *lease.Lease
	}
}

func TestReminderService(t *testing.T) {
	suite.Run(t, new(ReminderServiceSuite))
}

func (s *ReminderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *ReminderServiceSuite) setupService() {
	s.service = NewReminderService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		LeaseRepo:    s.GetStores().LeaseRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		TenantRepo:   s.GetStores().TenantRepo,
		PropertyRepo: s.GetStores().PropertyRepo,
		ReminderRepo: s.GetStores().ReminderRepo,
		SettingsRepo: s.GetStores().SettingsRepo,
		Sender:       s.GetSender(),
	})
}

func (s *ReminderServiceSuite) setupTestData() {
	s.testData.property = &property.Property{
		ID:             "prop_reminder",
		OwnerID:        "user_reminder",
		Title:          "Studio Marcory",
		City:           "Abidjan",
		PropertyStatus: types.PropertyStatusOccupied,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PropertyRepo.Create(s.GetContext(), s.testData.property))

	s.testData.tenant = &tenant.Tenant{
		ID:        "ten_reminder",
		Email:     "reminder@example.com",
		FirstName: "Kofi",
		LastName:  "Mensah",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().TenantRepo.Create(s.GetContext(), s.testData.tenant))

	s.testData.lease = &lease.Lease{
		ID:          "lease_reminder",
		PropertyID:  s.testData.property.ID,
		TenantID:    s.testData.tenant.ID,
		StartDate:   date(2023, time.June, 1),
		RentAmount:  decimal.NewFromInt(120000),
		PaymentDay:  10,
		LeaseStatus: types.LeaseStatusActive,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().LeaseRepo.Create(s.GetContext(), s.testData.lease))
}

func (s *ReminderServiceSuite) newPayment(id string, due time.Time) *payment.Payment {
	p := &payment.Payment{
		ID:            id,
		LeaseID:       s.testData.lease.ID,
		Amount:        s.testData.lease.MonthlyAmount(),
		Currency:      "XOF",
		DueDate:       due,
		PaymentStatus: types.PaymentStatusPending,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PaymentRepo.Create(s.GetContext(), p))
	return p
}

func (s *ReminderServiceSuite) runScheduled(today time.Time) *dto.ReminderRunResponse {
	resp, err := s.service.RunScheduled(s.GetContext(), &dto.RunScheduledRemindersRequest{
		Today: lo.ToPtr(today),
	})
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func (s *ReminderServiceSuite) runMonthly(today time.Time, lastRun *time.Time) *dto.ReminderRunResponse {
	resp, err := s.service.RunMonthly(s.GetContext(), &dto.RunMonthlyRemindersRequest{
		Today:   lo.ToPtr(today),
		LastRun: lastRun,
	})
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func (s *ReminderServiceSuite) TestStepBoundaries() {
	today := date(2024, time.January, 10)

	tests := []struct {
		name     string
		due      time.Time
		wantStep types.ReminderStep
		wantSend bool
	}{
		{"two days before due", date(2024, time.January, 12), types.StepJMinus2, true},
		{"one day before due", date(2024, time.January, 11), types.StepJMinus1, true},
		{"on the due date", date(2024, time.January, 10), types.StepJ0, true},
		{"one day overdue", date(2024, time.January, 9), types.StepJPlus1, true},
		{"two days overdue", date(2024, time.January, 8), "", false},
		{"three days before due", date(2024, time.January, 13), "", false},
	}

	for i, tt := range tests {
		s.Run(tt.name, func() {
			s.ClearStores()
			s.setupTestData()
			s.newPayment(fmt.Sprintf("pay_step_%d", i), tt.due)

			resp := s.runScheduled(today)

			if !tt.wantSend {
				s.Equal(0, resp.Sent)
				s.Empty(s.GetSender().Sent())
				return
			}

			s.Equal(1, resp.Sent)
			s.Require().Len(resp.Items, 1)
			s.Equal(tt.wantStep, resp.Items[0].Step)
			s.Equal("sent", resp.Items[0].Status)
			s.Require().Len(s.GetSender().Sent(), 1)
			s.Equal(s.testData.tenant.Email, s.GetSender().Sent()[0].ToAddress)
		})
	}
}

func (s *ReminderServiceSuite) TestSendRecordsLedgerEntry() {
	s.newPayment("pay_ledger", date(2024, time.January, 10))

	resp := s.runScheduled(date(2024, time.January, 10))
	s.Equal(1, resp.Sent)

	key := fmt.Sprintf("reminder:%s:2024-01-10:J0", s.testData.tenant.ID)
	exists, err := s.GetStores().ReminderRepo.ExistsByKey(s.GetContext(), key)
	s.NoError(err)
	s.True(exists)

	entry, err := s.GetStores().ReminderRepo.GetByKey(s.GetContext(), key)
	s.NoError(err)
	s.Equal("pay_ledger", entry.PaymentID)
	s.Equal(types.StepJ0, entry.Step)
}

func (s *ReminderServiceSuite) TestRerunSkipsDuplicates() {
	s.newPayment("pay_dup", date(2024, time.January, 10))

	first := s.runScheduled(date(2024, time.January, 10))
	s.Equal(1, first.Sent)

	second := s.runScheduled(date(2024, time.January, 10))
	s.Equal(0, second.Sent)
	s.Equal(1, second.SkippedDuplicate)
	s.Len(s.GetSender().Sent(), 1)
}

func (s *ReminderServiceSuite) TestDifferentStepsOnConsecutiveDays() {
	s.newPayment("pay_days", date(2024, time.January, 10))

	s.Equal(1, s.runScheduled(date(2024, time.January, 8)).Sent)  // J-2
	s.Equal(1, s.runScheduled(date(2024, time.January, 9)).Sent)  // J-1
	s.Equal(1, s.runScheduled(date(2024, time.January, 10)).Sent) // J0
	s.Equal(1, s.runScheduled(date(2024, time.January, 11)).Sent) // J+1
	s.Equal(0, s.runScheduled(date(2024, time.January, 12)).Sent)

	s.Len(s.GetSender().Sent(), 4)

	history, err := s.GetStores().ReminderRepo.ListByTenant(s.GetContext(), s.testData.tenant.ID)
	s.NoError(err)
	s.Len(history, 4)
}

func (s *ReminderServiceSuite) TestPaidPaymentIsSuppressed() {
	p := s.newPayment("pay_paid", date(2024, time.January, 10))
	p.PaymentStatus = types.PaymentStatusPaid
	p.PaymentDate = lo.ToPtr(date(2024, time.January, 8))
	s.NoError(s.GetStores().PaymentRepo.Update(s.GetContext(), p))

	resp := s.runScheduled(date(2024, time.January, 10))

	s.Equal(0, resp.Sent)
	s.Equal(1, resp.SkippedPaid)
	s.Empty(s.GetSender().Sent())
}

func (s *ReminderServiceSuite) TestPaymentDateAloneSuppresses() {
	// a recorded payment date gates the send even while the status has not
	// caught up yet
	p := s.newPayment("pay_date_only", date(2024, time.January, 10))
	p.PaymentDate = lo.ToPtr(date(2024, time.January, 9))
	s.NoError(s.GetStores().PaymentRepo.Update(s.GetContext(), p))

	resp := s.runScheduled(date(2024, time.January, 10))

	s.Equal(0, resp.Sent)
	s.Equal(1, resp.SkippedPaid)
}

func (s *ReminderServiceSuite) TestFailedSendLeavesNoLedgerEntryAndRetries() {
	s.newPayment("pay_fail", date(2024, time.January, 10))

	s.GetSender().FailAll = true
	first := s.runScheduled(date(2024, time.January, 10))
	s.Equal(0, first.Sent)
	s.Require().Len(first.Errors, 1)
	s.Equal("pay_fail", first.Errors[0].PaymentID)

	key := fmt.Sprintf("reminder:%s:2024-01-10:J0", s.testData.tenant.ID)
	exists, err := s.GetStores().ReminderRepo.ExistsByKey(s.GetContext(), key)
	s.NoError(err)
	s.False(exists)

	// provider recovers, the same day re-run delivers
	s.GetSender().FailAll = false
	second := s.runScheduled(date(2024, time.January, 10))
	s.Equal(1, second.Sent)
	s.Empty(second.Errors)
}

func (s *ReminderServiceSuite) TestDisabledEmailClientYieldsErrorsNotPanics() {
	s.newPayment("pay_disabled", date(2024, time.January, 10))

	// wire the real email service with no API key configured instead of the
	// recording sender
	log, err := logger.NewLogger(s.GetConfig())
	s.Require().NoError(err)
	svc := NewReminderService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		LeaseRepo:    s.GetStores().LeaseRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		TenantRepo:   s.GetStores().TenantRepo,
		PropertyRepo: s.GetStores().PropertyRepo,
		ReminderRepo: s.GetStores().ReminderRepo,
		SettingsRepo: s.GetStores().SettingsRepo,
		Sender:       email.NewService(email.NewClient(s.GetConfig()), log),
	})

	resp, err := svc.RunScheduled(s.GetContext(), &dto.RunScheduledRemindersRequest{
		Today: lo.ToPtr(date(2024, time.January, 10)),
	})
	s.NoError(err)
	s.Require().NotNil(resp)

	s.Equal(0, resp.Sent)
	s.Require().Len(resp.Errors, 1)
	s.Equal("pay_disabled", resp.Errors[0].PaymentID)
	s.NotEmpty(resp.Errors[0].Reason)

	// nothing went out, so the ledger stays empty and a later run with a
	// working sender can still deliver
	key := fmt.Sprintf("reminder:%s:2024-01-10:J0", s.testData.tenant.ID)
	exists, err := s.GetStores().ReminderRepo.ExistsByKey(s.GetContext(), key)
	s.NoError(err)
	s.False(exists)
}

func (s *ReminderServiceSuite) TestOfflinePropertyCandidatesAreDropped() {
	s.newPayment("pay_offline", date(2024, time.January, 10))

	s.testData.property.PropertyStatus = types.PropertyStatusOffline
	s.NoError(s.GetStores().PropertyRepo.Update(s.GetContext(), s.testData.property))

	resp := s.runScheduled(date(2024, time.January, 10))

	s.Equal(0, resp.Count)
	s.Equal(0, resp.Sent)
}

func (s *ReminderServiceSuite) TestBrokenReferenceIsExcludedNotFatal() {
	s.newPayment("pay_orphan", date(2024, time.January, 10))

	orphan := &payment.Payment{
		ID:            "pay_no_lease",
		LeaseID:       "lease_missing",
		Amount:        decimal.NewFromInt(50000),
		Currency:      "XOF",
		DueDate:       date(2024, time.January, 10),
		PaymentStatus: types.PaymentStatusPending,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PaymentRepo.Create(s.GetContext(), orphan))

	resp := s.runScheduled(date(2024, time.January, 10))

	// the orphan is silently excluded, the healthy candidate still goes out
	s.Equal(1, resp.Sent)
	s.Empty(resp.Errors)
}

func (s *ReminderServiceSuite) TestMissingTodayIsRejected() {
	resp, err := s.service.RunScheduled(s.GetContext(), &dto.RunScheduledRemindersRequest{})
	s.Error(err)
	s.Nil(resp)
}

func (s *ReminderServiceSuite) TestMonthlySweepSendsForOutstandingPayments() {
	s.newPayment("pay_m1_a", date(2024, time.January, 5))
	s.newPayment("pay_m1_b", date(2024, time.January, 25))

	paid := s.newPayment("pay_m1_paid", date(2024, time.January, 15))
	paid.PaymentStatus = types.PaymentStatusPaid
	s.NoError(s.GetStores().PaymentRepo.Update(s.GetContext(), paid))

	resp := s.runMonthly(date(2024, time.January, 20), nil)

	s.Equal(2, resp.Sent)
	s.Equal(0, resp.SkippedPaid)
	s.Require().NotNil(resp.LastRun)
	s.Equal(date(2024, time.January, 20), *resp.LastRun)

	for _, item := range resp.Items {
		s.Equal(types.StepMonthly, item.Step)
	}
}

func (s *ReminderServiceSuite) TestMonthlySweepRunsOncePerMonth() {
	s.newPayment("pay_m1_once", date(2024, time.January, 5))

	first := s.runMonthly(date(2024, time.January, 20), nil)
	s.Equal(1, first.Sent)

	// the persisted marker now blocks a second run in the same month
	second := s.runMonthly(date(2024, time.January, 25), nil)
	s.Equal(0, second.Sent)
	s.NotEmpty(second.Skipped)
	s.Require().NotNil(second.LastRun)
	s.Equal(date(2024, time.January, 20), *second.LastRun)

	s.Len(s.GetSender().Sent(), 1)
}

func (s *ReminderServiceSuite) TestMonthlySweepLastRunOverride() {
	s.newPayment("pay_m1_override", date(2024, time.January, 5))

	resp := s.runMonthly(date(2024, time.January, 20), lo.ToPtr(date(2024, time.January, 2)))

	s.Equal(0, resp.Sent)
	s.NotEmpty(resp.Skipped)
}

func (s *ReminderServiceSuite) TestMonthlySweepDeduplicatesAgainstLedger() {
	s.newPayment("pay_m1_dedup", date(2024, time.January, 5))

	first := s.runMonthly(date(2024, time.January, 20), nil)
	s.Equal(1, first.Sent)

	// replay with an explicit stale marker: the ledger still wins
	second := s.runMonthly(date(2024, time.January, 21), lo.ToPtr(date(2023, time.December, 20)))
	s.Equal(0, second.Sent)
	s.Equal(1, second.SkippedDuplicate)
}
