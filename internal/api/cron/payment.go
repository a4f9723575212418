package cron

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/locatus/locatus/internal/api/dto"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/service"
	"github.com/locatus/locatus/internal/types"
)

// PaymentHandler handles payment related cron jobs
type PaymentHandler struct {
	paymentGenerationService service.PaymentGenerationService
	logger                   *logger.Logger
}

// NewPaymentHandler creates a new payment cron handler
func NewPaymentHandler(
	paymentGenerationService service.PaymentGenerationService,
	logger *logger.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		paymentGenerationService: paymentGenerationService,
		logger:                   logger,
	}
}

type generatePaymentsBody struct {
	// Now is an optional YYYY-MM-DD override of the pass reference date
	Now         string `json:"now,omitempty"`
	HorizonDays int    `json:"horizon_days,omitempty"`
}

// GeneratePayments runs one payment generation pass. The body is optional;
// without it the pass runs for today with the configured horizon.
func (h *PaymentHandler) GeneratePayments(c *gin.Context) {
	var body generatePaymentsBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request payload").
				Mark(ierr.ErrValidation))
			return
		}
	}

	now, err := resolveDate(body.Now)
	if err != nil {
		c.Error(err)
		return
	}

	response, err := h.paymentGenerationService.GeneratePayments(c.Request.Context(), &dto.GeneratePaymentsRequest{
		Now:         now,
		HorizonDays: body.HorizonDays,
	})
	if err != nil {
		h.logger.Errorw("payment generation pass failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// resolveDate parses an optional YYYY-MM-DD date, defaulting to today UTC.
func resolveDate(raw string) (*time.Time, error) {
	if raw == "" {
		d := types.BeginningOfDay(time.Now().UTC())
		return &d, nil
	}
	parsed, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invalid date %s, expected YYYY-MM-DD", raw).
			Mark(ierr.ErrValidation)
	}
	return &parsed, nil
}
