package scheduler

import (
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
)

// RegisterLifecycleHandlers binds every lifecycle job operation to the usecase that runs it.
func RegisterLifecycleHandlers(
	dispatcher contracts.JobDispatcher,
	bookings contracts.BookingUsecase,
	payments contracts.PaymentUsecase,
	reschedules contracts.RescheduleUsecase,
	balances contracts.BalanceUsecase,
) {
	dispatcher.Register(models.JobSessionPaymentTimeout, bookings.HandlePaymentTimeout)
	dispatcher.Register(models.JobPaymentCaptureTimeout, payments.CheckAndCancelPayment)
	dispatcher.Register(models.JobSessionAutoComplete, bookings.HandleAutoComplete)
	dispatcher.Register(models.JobRescheduleAutoResolve, reschedules.HandleAutoResolve)
	dispatcher.Register(models.JobBalanceRelease, balances.ReleaseFunds)
}
