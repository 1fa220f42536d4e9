package routers

import (
	"fmt"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/delivery/http/controllers"
	"mentorship-service/internal/app/delivery/http/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Controllers struct {
	Slot       *controllers.SlotController
	Session    *controllers.SessionController
	Reschedule *controllers.RescheduleController
	Payment    *controllers.PaymentController
	Webhook    *controllers.WebhookController
	Balance    *controllers.BalanceController
	Dispute    *controllers.DisputeController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	webhookLimiter *middlewares.RateLimiter,
	ctrls Controllers,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/webhooks", func(r chi.Router) {
				attachWebhookRoutes(r, middlewares, webhookLimiter, ctrls.Webhook)
			})

			payoutQuota := middlewares.ActionQuota("payout-request", internalConfig.Payout.RequestQuotaPerDay, 24*time.Hour)
			disputeQuota := middlewares.ActionQuota("dispute-create", internalConfig.Dispute.CreateQuotaPerDay, 24*time.Hour)

			r.Group(func(r chi.Router) {
				r.Use(middlewares.RateLimit())
				r.Use(middlewares.Authenticate)
				r.Use(middlewares.Authorize)

				r.Route("/slots", func(r chi.Router) {
					attachSlotRoutes(r, ctrls.Slot)
				})

				r.Route("/mentors", func(r chi.Router) {
					attachMentorRoutes(r, ctrls.Slot, ctrls.Balance, payoutQuota)
				})

				r.Route("/sessions", func(r chi.Router) {
					attachSessionRoutes(r, ctrls.Session, ctrls.Reschedule)
				})

				r.Route("/reschedules", func(r chi.Router) {
					attachRescheduleRoutes(r, ctrls.Reschedule)
				})

				r.Route("/payments", func(r chi.Router) {
					attachPaymentRoutes(r, ctrls.Payment)
				})

				r.Route("/payouts", func(r chi.Router) {
					attachPayoutRoutes(r, ctrls.Balance)
				})

				r.Route("/disputes", func(r chi.Router) {
					attachDisputeRoutes(r, ctrls.Dispute, disputeQuota)
				})
			})
		})
	})
}

// WebhookLimiter builds the per-IP limiter for provider callbacks.
func WebhookLimiter(m *middlewares.Middlewares) *middlewares.RateLimiter {
	perSecond := m.InternalConfig.App.MaxRequests
	return middlewares.NewRateLimiter(m.Log, perSecond, perSecond*2, time.Minute)
}

func param(name string) string {
	return "/{" + name + "}"
}
