package service

import (
	"github.com/locatus/locatus/internal/config"
	"github.com/locatus/locatus/internal/domain/lease"
	"github.com/locatus/locatus/internal/domain/payment"
	"github.com/locatus/locatus/internal/domain/property"
	"github.com/locatus/locatus/internal/domain/reminder"
	"github.com/locatus/locatus/internal/domain/settings"
	"github.com/locatus/locatus/internal/domain/tenant"
	"github.com/locatus/locatus/internal/email"
	"github.com/locatus/locatus/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	LeaseRepo    lease.Repository
	PaymentRepo  payment.Repository
	TenantRepo   tenant.Repository
	PropertyRepo property.Repository
	ReminderRepo reminder.Repository
	SettingsRepo settings.Repository

	// Notification sink
	Sender email.Sender
}

// NewServiceParams builds the common service dependency bundle
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	leaseRepo lease.Repository,
	paymentRepo payment.Repository,
	tenantRepo tenant.Repository,
	propertyRepo property.Repository,
	reminderRepo reminder.Repository,
	settingsRepo settings.Repository,
	sender email.Sender,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		LeaseRepo:    leaseRepo,
		PaymentRepo:  paymentRepo,
		TenantRepo:   tenantRepo,
		PropertyRepo: propertyRepo,
		ReminderRepo: reminderRepo,
		SettingsRepo: settingsRepo,
		Sender:       sender,
	}
}
