package testutil

import (
	"context"
	"time"

	"github.com/locatus/locatus/internal/config"
	"github.com/locatus/locatus/internal/domain/lease"
	"github.com/locatus/locatus/internal/domain/payment"
	"github.com/locatus/locatus/internal/domain/property"
	"github.com/locatus/locatus/internal/domain/reminder"
	"github.com/locatus/locatus/internal/domain/settings"
	"github.com/locatus/locatus/internal/domain/tenant"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	LeaseRepo    lease.Repository
	PaymentRepo  payment.Repository
	TenantRepo   tenant.Repository
	PropertyRepo property.Repository
	ReminderRepo reminder.Repository
	SettingsRepo settings.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	sender *InMemorySender
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	propertyStore := NewInMemoryPropertyStore()
	s.stores = Stores{
		LeaseRepo:    NewInMemoryLeaseStore(propertyStore),
		PaymentRepo:  NewInMemoryPaymentStore(),
		TenantRepo:   NewInMemoryTenantStore(),
		PropertyRepo: propertyStore,
		ReminderRepo: NewInMemoryReminderStore(),
		SettingsRepo: NewInMemorySettingsStore(),
	}
	s.sender = NewInMemorySender()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.LeaseRepo.(*InMemoryLeaseStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
	s.stores.TenantRepo.(*InMemoryTenantStore).Clear()
	s.stores.PropertyRepo.(*InMemoryPropertyStore).Clear()
	s.stores.ReminderRepo.(*InMemoryReminderStore).Clear()
	s.stores.SettingsRepo.(*InMemorySettingsStore).Clear()
	s.sender.Clear()
}

// ClearStores resets all repositories mid-test
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetSender returns the recording email sender
func (s *BaseServiceTestSuite) GetSender() *InMemorySender {
	return s.sender
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time in UTC
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetUUID returns a new unique identifier
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
