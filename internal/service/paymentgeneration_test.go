package service

import (
	"testing"
	"time"

	"github.com/locatus/locatus/internal/api/dto"
	"github.com/locatus/locatus/internal/domain/lease"
	"github.com/locatus/locatus/internal/domain/payment"
	"github.com/locatus/locatus/internal/domain/property"
	"github.com/locatus/locatus/internal/domain/tenant"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/testutil"
	"github.com/locatus/locatus/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentGenerationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PaymentGenerationService
	testData struct {
		property *property.Property
		tenant   *tenant.Tenant
	}
}

func TestPaymentGenerationService(t *testing.T) {
	suite.Run(t, new(PaymentGenerationServiceSuite))
}

func (s *PaymentGenerationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *PaymentGenerationServiceSuite) setupService() {
	s.service = NewPaymentGenerationService(ServiceParams{
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

func (s *PaymentGenerationServiceSuite) setupTestData() {
	s.testData.property = &property.Property{
		ID:             "prop_test",
		OwnerID:        "user_test",
		Title:          "T2 Plateau",
		City:           "Abidjan",
		PropertyStatus: types.PropertyStatusOccupied,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PropertyRepo.Create(s.GetContext(), s.testData.property))

	s.testData.tenant = &tenant.Tenant{
		ID:        "ten_test",
		Email:     "tenant@example.com",
		FirstName: "Awa",
		LastName:  "Diabate",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().TenantRepo.Create(s.GetContext(), s.testData.tenant))
}

func (s *PaymentGenerationServiceSuite) newLease(id string, start time.Time, end *time.Time, paymentDay int) *lease.Lease {
	l := &lease.Lease{
		ID:          id,
		PropertyID:  s.testData.property.ID,
		TenantID:    s.testData.tenant.ID,
		StartDate:   start,
		EndDate:     end,
		RentAmount:  decimal.NewFromInt(150000),
		Charges:     decimal.NewFromInt(10000),
		PaymentDay:  paymentDay,
		LeaseStatus: types.LeaseStatusActive,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().LeaseRepo.Create(s.GetContext(), l))
	return l
}

func (s *PaymentGenerationServiceSuite) generate(now time.Time) *dto.GeneratePaymentsResponse {
	resp, err := s.service.GeneratePayments(s.GetContext(), &dto.GeneratePaymentsRequest{
		Now: lo.ToPtr(now),
	})
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *PaymentGenerationServiceSuite) TestFirstPassCreatesPaymentAndAdvancesCursor() {
	l := s.newLease("lease_first", date(2024, time.January, 1), nil, 15)

	resp := s.generate(date(2024, time.January, 10))

	s.Equal(1, resp.LeasesConsidered)
	s.Equal(1, resp.Created)
	s.Equal(0, resp.Failed)
	s.Require().Len(resp.Items, 1)
	s.Equal(dto.GenerationStatusCreated, resp.Items[0].Status)
	s.Require().NotNil(resp.Items[0].DueDate)
	s.Equal(date(2024, time.January, 15), *resp.Items[0].DueDate)

	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), &types.PaymentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		LeaseID:     l.ID,
	})
	s.NoError(err)
	s.Require().Len(payments, 1)
	s.Equal(date(2024, time.January, 15), payments[0].DueDate)
	s.Equal(types.PaymentStatusPending, payments[0].PaymentStatus)
	s.True(payments[0].Amount.Equal(decimal.NewFromInt(160000)))
	s.Equal(s.GetConfig().Scheduler.DefaultCurrency, payments[0].Currency)

	updated, err := s.GetStores().LeaseRepo.Get(s.GetContext(), l.ID)
	s.NoError(err)
	s.Require().NotNil(updated.NextDueDate)
	s.Equal(date(2024, time.February, 15), *updated.NextDueDate)
}

func (s *PaymentGenerationServiceSuite) TestSecondPassIsIdempotent() {
	l := s.newLease("lease_idem", date(2024, time.January, 1), nil, 15)

	first := s.generate(date(2024, time.January, 10))
	s.Equal(1, first.Created)

	second := s.generate(date(2024, time.January, 10))
	s.Equal(0, second.Created)
	s.Equal(1, second.Skipped)
	s.Require().Len(second.Items, 1)
	s.Equal(dto.GenerationStatusAlreadyPlanned, second.Items[0].Status)

	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), &types.PaymentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		LeaseID:     l.ID,
	})
	s.NoError(err)
	s.Len(payments, 1)
}

func (s *PaymentGenerationServiceSuite) TestDormantLeaseCatchesUpToCurrentMonth() {
	l := s.newLease("lease_dormant", date(2023, time.June, 1), nil, 10)

	resp := s.generate(date(2024, time.March, 5))

	s.Equal(1, resp.Created)
	s.Require().Len(resp.Items, 1)
	s.Require().NotNil(resp.Items[0].DueDate)
	// past due dates are skipped, not back-filled
	s.Equal(date(2024, time.March, 10), *resp.Items[0].DueDate)

	updated, err := s.GetStores().LeaseRepo.Get(s.GetContext(), l.ID)
	s.NoError(err)
	s.Require().NotNil(updated.NextDueDate)
	s.Equal(date(2024, time.April, 10), *updated.NextDueDate)
}

func (s *PaymentGenerationServiceSuite) TestDueDateBeyondHorizonLeavesCursorUntouched() {
	l := s.newLease("lease_far", date(2024, time.January, 1), nil, 15)

	// first pass creates January and moves the cursor to February 15
	s.generate(date(2024, time.January, 10))

	// mark January as paid so the window check does not short-circuit
	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), &types.PaymentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		LeaseID:     l.ID,
	})
	s.NoError(err)
	s.Require().Len(payments, 1)
	payments[0].PaymentStatus = types.PaymentStatusPaid
	payments[0].PaymentDate = lo.ToPtr(date(2024, time.January, 14))
	s.NoError(s.GetStores().PaymentRepo.Update(s.GetContext(), payments[0]))

	// still January 2: February 15 is more than 40 days out
	resp, err := s.service.GeneratePayments(s.GetContext(), &dto.GeneratePaymentsRequest{
		Now:         lo.ToPtr(date(2024, time.January, 2)),
		HorizonDays: 40,
	})
	s.NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal(dto.GenerationStatusBeyondHorizon, resp.Items[0].Status)

	updated, err := s.GetStores().LeaseRepo.Get(s.GetContext(), l.ID)
	s.NoError(err)
	s.Require().NotNil(updated.NextDueDate)
	s.Equal(date(2024, time.February, 15), *updated.NextDueDate)
}

func (s *PaymentGenerationServiceSuite) TestLeaseNotStartedWithinHorizon() {
	s.newLease("lease_future", date(2024, time.June, 1), nil, 5)

	resp := s.generate(date(2024, time.January, 10))

	s.Equal(0, resp.Created)
	s.Require().Len(resp.Items, 1)
	s.Equal(dto.GenerationStatusNotStarted, resp.Items[0].Status)
}

func (s *PaymentGenerationServiceSuite) TestEndedLeaseIsSkipped() {
	s.newLease("lease_over", date(2023, time.January, 1), lo.ToPtr(date(2023, time.December, 31)), 5)

	resp := s.generate(date(2024, time.March, 1))

	s.Equal(0, resp.Created)
	s.Require().Len(resp.Items, 1)
	s.Equal(dto.GenerationStatusEnded, resp.Items[0].Status)
}

func (s *PaymentGenerationServiceSuite) TestOfflinePropertyIsExcluded() {
	offline := &property.Property{
		ID:             "prop_offline",
		OwnerID:        "user_test",
		Title:          "Villa Cocody",
		City:           "Abidjan",
		PropertyStatus: types.PropertyStatusOffline,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PropertyRepo.Create(s.GetContext(), offline))

	l := &lease.Lease{
		ID:          "lease_offline",
		PropertyID:  offline.ID,
		TenantID:    s.testData.tenant.ID,
		StartDate:   date(2024, time.January, 1),
		RentAmount:  decimal.NewFromInt(90000),
		PaymentDay:  10,
		LeaseStatus: types.LeaseStatusActive,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().LeaseRepo.Create(s.GetContext(), l))

	resp := s.generate(date(2024, time.January, 5))

	s.Equal(0, resp.LeasesConsidered)
	s.Equal(0, resp.Created)
}

func (s *PaymentGenerationServiceSuite) TestPastDuePaymentDoesNotBlockNextMonth() {
	l := s.newLease("lease_pastdue", date(2024, time.January, 1), nil, 15)

	// an unpaid payment in the past sits outside the [now, horizon] window,
	// so the pass moves on to the next due date
	existing := &payment.Payment{
		ID:            "pay_preexisting",
		LeaseID:       l.ID,
		Amount:        l.MonthlyAmount(),
		Currency:      "XOF",
		DueDate:       date(2024, time.January, 15),
		PaymentStatus: types.PaymentStatusPending,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PaymentRepo.Create(s.GetContext(), existing))

	resp := s.generate(date(2024, time.January, 16))

	s.Equal(1, resp.Created)
	s.Require().Len(resp.Items, 1)
	s.Equal(dto.GenerationStatusCreated, resp.Items[0].Status)
	s.Require().NotNil(resp.Items[0].DueDate)
	s.Equal(date(2024, time.February, 15), *resp.Items[0].DueDate)

	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), &types.PaymentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		LeaseID:     l.ID,
	})
	s.NoError(err)
	s.Len(payments, 2)
}

func (s *PaymentGenerationServiceSuite) TestFailingLeaseDoesNotAbortPass() {
	broken := s.newLease("lease_broken", date(2024, time.January, 1), nil, 15)
	s.newLease("lease_healthy", date(2024, time.January, 1), nil, 20)

	store := s.GetStores().PaymentRepo.(*testutil.InMemoryPaymentStore)
	store.SetCreateHook(func(p *payment.Payment) error {
		if p.LeaseID == broken.ID {
			return ierr.NewError("connection reset").
				WithHint("Failed to create payment").
				Mark(ierr.ErrDatabase)
		}
		return nil
	})

	resp := s.generate(date(2024, time.January, 10))

	s.Equal(2, resp.LeasesConsidered)
	s.Equal(1, resp.Created)
	s.Equal(1, resp.Failed)
	s.Require().Len(resp.Items, 2)

	byLease := make(map[string]*dto.GeneratePaymentsResponseItem)
	for _, item := range resp.Items {
		byLease[item.LeaseID] = item
	}
	s.Equal(dto.GenerationStatusError, byLease[broken.ID].Status)
	s.NotEmpty(byLease[broken.ID].Error)
	s.Equal(dto.GenerationStatusCreated, byLease["lease_healthy"].Status)

	// the healthy lease's payment landed despite the neighbor failing
	payments, err := store.List(s.GetContext(), &types.PaymentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		LeaseID:     "lease_healthy",
	})
	s.NoError(err)
	s.Len(payments, 1)

	// the failed lease's cursor was not advanced
	unchanged, err := s.GetStores().LeaseRepo.Get(s.GetContext(), broken.ID)
	s.NoError(err)
	s.Nil(unchanged.NextDueDate)
}

func (s *PaymentGenerationServiceSuite) TestCreateConflictTreatedAsExisting() {
	l := s.newLease("lease_conflict", date(2024, time.January, 1), nil, 15)

	// the existence check sees nothing, but the insert loses the race to a
	// concurrent pass and hits the unique index
	store := s.GetStores().PaymentRepo.(*testutil.InMemoryPaymentStore)
	store.SetCreateHook(func(p *payment.Payment) error {
		return ierr.NewError("duplicate key value").
			WithHint("A payment with this due date already exists for the lease").
			Mark(ierr.ErrAlreadyExists)
	})

	resp := s.generate(date(2024, time.January, 10))

	s.Equal(0, resp.Created)
	s.Equal(0, resp.Failed)
	s.Equal(1, resp.Skipped)
	s.Require().Len(resp.Items, 1)
	s.Equal(dto.GenerationStatusExists, resp.Items[0].Status)
	s.Require().NotNil(resp.Items[0].DueDate)
	s.Equal(date(2024, time.January, 15), *resp.Items[0].DueDate)

	// the conflict still advances the cursor past the settled due date
	updated, err := s.GetStores().LeaseRepo.Get(s.GetContext(), l.ID)
	s.NoError(err)
	s.Require().NotNil(updated.NextDueDate)
	s.Equal(date(2024, time.February, 15), *updated.NextDueDate)
}

func (s *PaymentGenerationServiceSuite) TestMissingNowIsRejected() {
	resp, err := s.service.GeneratePayments(s.GetContext(), &dto.GeneratePaymentsRequest{})
	s.Error(err)
	s.Nil(resp)
}

func (s *PaymentGenerationServiceSuite) TestPaymentDayClampedOnShortMonths() {
	// payment day 28 and a January 31 start: the first due date stays on the
	// 28th and never drifts on short months
	l := s.newLease("lease_clamp", date(2024, time.January, 31), nil, 28)

	resp := s.generate(date(2024, time.February, 1))

	s.Equal(1, resp.Created)
	s.Require().Len(resp.Items, 1)
	s.Require().NotNil(resp.Items[0].DueDate)
	s.Equal(date(2024, time.February, 28), *resp.Items[0].DueDate)

	updated, err := s.GetStores().LeaseRepo.Get(s.GetContext(), l.ID)
	s.NoError(err)
	s.Require().NotNil(updated.NextDueDate)
	s.Equal(date(2024, time.March, 28), *updated.NextDueDate)
}
