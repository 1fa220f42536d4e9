package constvars

const (
	EmailSendBasicEmailSubjectFormat = "To: %s\r\nSubject: %s\r\n\r\n%s\r\n"
	EmailSendHTMLSubjectFormat       = "To: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n"
)

const (
	EmailSubjectSessionConfirmed   = "Your mentorship session is confirmed"
	EmailSubjectSessionCancelled   = "Your mentorship session was cancelled"
	EmailSubjectRescheduleProposed = "A new time was proposed for your session"
	EmailSubjectRescheduleApproved = "Your reschedule request was approved"
	EmailSubjectRescheduleRejected = "Your reschedule request was rejected"
	EmailSubjectDisputeOpened      = "A dispute was opened for your session"
	EmailSubjectDisputeResolved    = "Your dispute was resolved"
	EmailSubjectPayoutCompleted    = "Your payout was sent"
	EmailSubjectPayoutFailed       = "Your payout failed"

	EmailBodySessionConfirmed   = "Session %s on %s is confirmed. Join at %s"
	EmailBodySessionCancelled   = "Session %s on %s was cancelled by the %s. Refund: %s%% (%s)."
	EmailBodyRescheduleProposed = "The %s proposed moving session %s from %s to %s."
	EmailBodyRescheduleApproved = "Session %s now starts at %s."
	EmailBodyRescheduleRejected = "Session %s keeps its original time %s."
	EmailBodyDisputeOpened      = "A dispute was opened for session %s: %s"
	EmailBodyDisputeResolved    = "Dispute %s was %s. Refund amount: %s."
	EmailBodyPayoutCompleted    = "Payout %s of %s was sent."
	EmailBodyPayoutFailed       = "Payout %s of %s failed and the amount was returned to your balance."
)
