package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/locatus/locatus/internal/api/cron"
	"github.com/locatus/locatus/internal/config"
	"github.com/locatus/locatus/internal/rest/middleware"
)

type Handlers struct {
	PaymentCron  *cron.PaymentHandler
	ReminderCron *cron.ReminderHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"mode":   cfg.Deployment.Mode,
		})
	})

	// Batch job routes, invoked by an external scheduler (system cron, a
	// cloud scheduler or an operator replaying a window by hand).
	cronGroup := router.Group("/cron")
	{
		payments := cronGroup.Group("/payments")
		{
			payments.POST("/generate", handlers.PaymentCron.GeneratePayments)
		}

		reminders := cronGroup.Group("/reminders")
		{
			reminders.POST("/run", handlers.ReminderCron.RunScheduled)
			reminders.POST("/monthly", handlers.ReminderCron.RunMonthly)
		}
	}

	return router
}
