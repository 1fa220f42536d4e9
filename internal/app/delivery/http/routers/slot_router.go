package routers

import (
	"mentorship-service/internal/app/delivery/http/controllers"
	"mentorship-service/internal/pkg/constvars"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func attachSlotRoutes(router chi.Router, slotController *controllers.SlotController) {
	router.Post("/", slotController.CreateSlot)
}

func attachMentorRoutes(router chi.Router, slotController *controllers.SlotController, balanceController *controllers.BalanceController, payoutQuota func(http.Handler) http.Handler) {
	router.Route(param(constvars.URLParamMentorID), func(r chi.Router) {
		r.Get("/slots", slotController.ListAvailableSlots)
		r.Get("/balance", balanceController.GetBalance)
		r.Get("/payouts", balanceController.ListPayouts)
		r.With(payoutQuota).Post("/payouts", balanceController.RequestPayout)
	})
}
