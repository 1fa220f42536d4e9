package routers

import (
	"mentorship-service/internal/app/delivery/http/controllers"
	"mentorship-service/internal/app/delivery/http/middlewares"
	"mentorship-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRoutes(router chi.Router, paymentController *controllers.PaymentController) {
	router.Post("/intents", paymentController.CreateIntent)
	router.Post("/confirm", paymentController.ConfirmPayment)
	router.Post(param(constvars.URLParamPaymentID)+"/refund", paymentController.RefundPayment)
}

// attachWebhookRoutes mounts provider callbacks outside bearer authentication; each
// provider adapter verifies its own signature over the buffered raw body.
func attachWebhookRoutes(router chi.Router, middlewares *middlewares.Middlewares, limiter *middlewares.RateLimiter, webhookController *controllers.WebhookController) {
	router.With(limiter.Limit, middlewares.BodyBuffer).Post(param(constvars.URLParamProvider), webhookController.HandleProviderWebhook)
}
