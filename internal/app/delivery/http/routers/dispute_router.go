package routers

import (
	"mentorship-service/internal/app/delivery/http/controllers"
	"mentorship-service/internal/pkg/constvars"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func attachDisputeRoutes(router chi.Router, disputeController *controllers.DisputeController, createQuota func(http.Handler) http.Handler) {
	router.With(createQuota).Post("/", disputeController.CreateDispute)
	router.Post(param(constvars.URLParamDisputeID)+"/resolve", disputeController.ResolveDispute)
	router.Get(param(constvars.URLParamDisputeID)+"/evidence-url", disputeController.GetEvidenceURL)
}
