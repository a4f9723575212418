package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/locatus/locatus/internal/api/dto"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/service"
)

// ReminderHandler handles reminder related cron jobs
type ReminderHandler struct {
	reminderService service.ReminderService
	logger          *logger.Logger
}

// NewReminderHandler creates a new reminder cron handler
func NewReminderHandler(
	reminderService service.ReminderService,
	logger *logger.Logger,
) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		logger:          logger,
	}
}

type runRemindersBody struct {
	// Today is an optional YYYY-MM-DD override of the sweep reference date
	Today string `json:"today,omitempty"`
	// LastRun optionally overrides the persisted monthly-sweep marker
	LastRun string `json:"last_run,omitempty"`
}

// RunScheduled runs the daily precision reminder sweep
func (h *ReminderHandler) RunScheduled(c *gin.Context) {
	body, err := bindRemindersBody(c)
	if err != nil {
		c.Error(err)
		return
	}

	today, err := resolveDate(body.Today)
	if err != nil {
		c.Error(err)
		return
	}

	response, err := h.reminderService.RunScheduled(c.Request.Context(), &dto.RunScheduledRemindersRequest{
		Today: today,
	})
	if err != nil {
		h.logger.Errorw("scheduled reminder sweep failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RunMonthly runs the coarse monthly reminder sweep
func (h *ReminderHandler) RunMonthly(c *gin.Context) {
	body, err := bindRemindersBody(c)
	if err != nil {
		c.Error(err)
		return
	}

	today, err := resolveDate(body.Today)
	if err != nil {
		c.Error(err)
		return
	}

	req := &dto.RunMonthlyRemindersRequest{Today: today}
	if body.LastRun != "" {
		lastRun, err := resolveDate(body.LastRun)
		if err != nil {
			c.Error(err)
			return
		}
		req.LastRun = lastRun
	}

	response, err := h.reminderService.RunMonthly(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("monthly reminder sweep failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func bindRemindersBody(c *gin.Context) (*runRemindersBody, error) {
	var body runRemindersBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Invalid request payload").
				Mark(ierr.ErrValidation)
		}
	}
	return &body, nil
}
