package constvars

const (
	ResponseSuccess = "success"
	ResponseUnknown = "unknown"
)

const (
	SlotCreatedMessage               = "Slot created successfully"
	SlotsFetchedMessage              = "Slots fetched successfully"
	SessionBookedMessage             = "Session booked successfully"
	SessionFetchedMessage            = "Session fetched successfully"
	SessionCancelledMessage          = "Session cancelled successfully"
	SessionCompletedMessage          = "Session completed successfully"
	RescheduleRequestedMessage       = "Reschedule requested successfully"
	RescheduleApprovedMessage        = "Reschedule approved successfully"
	RescheduleRejectedMessage        = "Reschedule rejected successfully"
	PaymentIntentCreatedMessage      = "Payment intent created successfully"
	PaymentConfirmedMessage          = "Payment confirmed successfully"
	PaymentRefundedMessage           = "Payment refunded successfully"
	WebhookReceivedMessage           = "Webhook received"
	BalanceFetchedMessage            = "Balance fetched successfully"
	PayoutRequestedMessage           = "Payout requested successfully"
	PayoutsFetchedMessage            = "Payouts fetched successfully"
	PayoutProcessedMessage           = "Payout processed successfully"
	PayoutCancelledMessage           = "Payout cancelled successfully"
	DisputeCreatedMessage            = "Dispute created successfully"
	DisputeResolvedMessage           = "Dispute resolved successfully"
	DisputeEvidenceURLFetchedMessage = "Dispute evidence URL fetched successfully"
)
