package routers

import (
	"mentorship-service/internal/app/delivery/http/controllers"
	"mentorship-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachSessionRoutes(router chi.Router, sessionController *controllers.SessionController, rescheduleController *controllers.RescheduleController) {
	router.Post("/", sessionController.BookSession)
	router.Route(param(constvars.URLParamSessionID), func(r chi.Router) {
		r.Get("/", sessionController.GetSession)
		r.Post("/cancel", sessionController.CancelSession)
		r.Post("/complete", sessionController.CompleteSession)
		r.Post("/reschedules", rescheduleController.RequestReschedule)
	})
}

func attachRescheduleRoutes(router chi.Router, rescheduleController *controllers.RescheduleController) {
	router.Post(param(constvars.URLParamRescheduleID)+"/approve", rescheduleController.ApproveReschedule)
	router.Post(param(constvars.URLParamRescheduleID)+"/reject", rescheduleController.RejectReschedule)
}
