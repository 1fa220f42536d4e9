package routers

import (
	"mentorship-service/internal/app/delivery/http/controllers"
	"mentorship-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachPayoutRoutes(router chi.Router, balanceController *controllers.BalanceController) {
	router.Post(param(constvars.URLParamPayoutID)+"/process", balanceController.ProcessPayout)
	router.Post(param(constvars.URLParamPayoutID)+"/cancel", balanceController.CancelPayout)
}
