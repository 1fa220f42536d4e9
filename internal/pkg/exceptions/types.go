package exceptions

import (
	"fmt"
	"mentorship-service/internal/pkg/constvars"
)

var (
	ErrURLParamValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamValidationFailed, paramName))
	}
	ErrQueryParamValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevQueryParamValidationFailed, paramName))
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotParseMultipartForm = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseMultipartForm)
	}
	ErrReadBody = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotReadBody)
	}
	ErrCannotParseTime = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseTime)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrCannotUnmarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotUnmarshalJSON)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevServerProcess)
	}
	ErrInvalidAmount = func(field, value string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, fmt.Sprintf(constvars.ErrClientInvalidAmount, field), fmt.Sprintf(constvars.ErrDevInvalidAmount, field, value))
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}

	// Auth
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	ErrTooManyRequests = func(remoteAddr string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, fmt.Sprintf(constvars.ErrDevTooManyRequests, remoteAddr))
	}
	ErrAccessDenied = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, constvars.ErrDevAccessDenied)
	}
	ErrNotParticipant = func(actorID, sessionID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusForbidden, constvars.ErrClientNotParticipant, fmt.Sprintf(constvars.ErrDevNotParticipant, actorID, sessionID))
	}

	// Slots and sessions
	ErrSlotNotFound = func(slotID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientSlotNotFound, fmt.Sprintf(constvars.ErrDevSlotNotFound, slotID))
	}
	ErrSlotAlreadyBooked = func(slotID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientSlotAlreadyBooked, fmt.Sprintf(constvars.ErrDevSlotAlreadyBooked, slotID))
	}
	ErrSlotTooSoon = func(slotID, start string, noticeHours int) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, fmt.Sprintf(constvars.ErrClientSlotTooSoon, noticeHours), fmt.Sprintf(constvars.ErrDevSlotTooSoon, slotID, start))
	}
	ErrSlotOverlap = func(mentorID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientSlotOverlap, fmt.Sprintf(constvars.ErrDevSlotOverlap, mentorID))
	}
	ErrMentorNotFound = func(mentorID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientMentorNotFound, fmt.Sprintf(constvars.ErrDevMentorNotFound, mentorID))
	}
	ErrMenteeOverlap = func(menteeID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientMenteeOverlap, fmt.Sprintf(constvars.ErrDevMenteeOverlap, menteeID))
	}
	ErrMentorBusy = func(mentorID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientMentorBusy, fmt.Sprintf(constvars.ErrDevMentorBusy, mentorID))
	}
	ErrUnsupportedDuration = func(mentorID string, minutes int) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, fmt.Sprintf(constvars.ErrClientUnsupportedDuration, minutes), fmt.Sprintf(constvars.ErrDevUnsupportedDuration, mentorID, minutes))
	}
	ErrSelfBooking = func(menteeID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientSelfBooking, fmt.Sprintf(constvars.ErrDevSelfBooking, menteeID))
	}
	ErrSessionNotFound = func(sessionID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientSessionNotFound, fmt.Sprintf(constvars.ErrDevSessionNotFound, sessionID))
	}
	ErrSessionState = func(sessionID, actual, expected string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientSessionState, fmt.Sprintf(constvars.ErrDevSessionState, sessionID, actual, expected))
	}
	ErrSessionAlreadyStarted = func(sessionID, start string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientSessionAlreadyStarted, fmt.Sprintf(constvars.ErrDevSessionAlreadyStarted, sessionID, start))
	}
	ErrSessionNotEnded = func(sessionID, end string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientSessionNotEnded, fmt.Sprintf(constvars.ErrDevSessionNotEnded, sessionID, end))
	}
	ErrSessionCompleted = func(sessionID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientSessionCompleted, fmt.Sprintf(constvars.ErrDevSessionCompleted, sessionID))
	}

	// Payments
	ErrPaymentNotFound = func(paymentID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientPaymentNotFound, fmt.Sprintf(constvars.ErrDevPaymentNotFound, paymentID))
	}
	ErrPaymentAlreadyAttached = func(sessionID, paymentID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientPaymentAlreadyAttached, fmt.Sprintf(constvars.ErrDevPaymentAlreadyAttached, sessionID, paymentID))
	}
	ErrPaymentAlreadyConfirmed = func(sessionID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientPaymentAlreadyConfirmed, fmt.Sprintf(constvars.ErrDevPaymentConfirmed, sessionID))
	}
	ErrPaymentNotCaptured = func(paymentID, localStatus, providerStatus string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusPaymentRequired, constvars.ErrClientPaymentNotCaptured, fmt.Sprintf(constvars.ErrDevPaymentNotCaptured, paymentID, localStatus, providerStatus))
	}
	ErrPaymentAmountMismatch = func(paymentID, amount, currency, expectedAmount, expectedCurrency string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientPaymentAmountMismatch, fmt.Sprintf(constvars.ErrDevPaymentAmountMismatch, paymentID, amount, currency, expectedAmount, expectedCurrency))
	}
	ErrPaymentNotRefundable = func(paymentID, status, refundedPercentage string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientPaymentNotRefundable, fmt.Sprintf(constvars.ErrDevPaymentNotRefundable, paymentID, status, refundedPercentage))
	}
	ErrRefundExceedsPayment = func(paymentID, percentage string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientRefundExceedsPayment, fmt.Sprintf(constvars.ErrDevRefundExceedsPayment, percentage, paymentID))
	}
	ErrWebhookSignature = func(provider string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnauthorized, constvars.ErrClientWebhookRejected, fmt.Sprintf(constvars.ErrDevWebhookSignature, provider))
	}
	ErrWebhookPayload = func(provider, reason string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientWebhookRejected, fmt.Sprintf(constvars.ErrDevWebhookPayload, provider, reason))
	}
	ErrPayoutGateway = func(err error, payoutID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevPayoutGateway, payoutID))
	}
	ErrUnknownProvider = func(provider string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientUnknownProvider, fmt.Sprintf(constvars.ErrDevUnknownProvider, provider))
	}

	// Reschedules
	ErrRescheduleNotFound = func(rescheduleID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientRescheduleNotFound, fmt.Sprintf(constvars.ErrDevRescheduleNotFound, rescheduleID))
	}
	ErrRescheduleResolved = func(rescheduleID, status string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientRescheduleResolved, fmt.Sprintf(constvars.ErrDevRescheduleResolved, rescheduleID, status))
	}
	ErrReschedulePending = func(sessionID, rescheduleID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientReschedulePending, fmt.Sprintf(constvars.ErrDevReschedulePending, sessionID, rescheduleID))
	}

	// Balances and payouts
	ErrBalanceNotFound = func(mentorID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientBalanceNotFound, fmt.Sprintf(constvars.ErrDevBalanceNotFound, mentorID))
	}
	ErrInsufficientBalance = func(mentorID, requested, available string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientInsufficientBalance, fmt.Sprintf(constvars.ErrDevInsufficientBalance, mentorID, requested, available))
	}
	ErrPayoutNotFound = func(payoutID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientPayoutNotFound, fmt.Sprintf(constvars.ErrDevPayoutNotFound, payoutID))
	}
	ErrPayoutState = func(payoutID, status string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientPayoutState, fmt.Sprintf(constvars.ErrDevPayoutState, payoutID, status))
	}

	// Disputes
	ErrDisputeNotFound = func(disputeID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientDisputeNotFound, fmt.Sprintf(constvars.ErrDevDisputeNotFound, disputeID))
	}
	ErrDisputeExists = func(sessionID, disputeID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientDisputeExists, fmt.Sprintf(constvars.ErrDevDisputeExists, sessionID, disputeID))
	}
	ErrDisputeWindowLapsed = func(sessionID, completedAt string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientDisputeWindowLapsed, fmt.Sprintf(constvars.ErrDevDisputeWindowLapsed, sessionID, completedAt))
	}
	ErrDisputeNotCompleted = func(sessionID, status string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientDisputeNotCompleted, fmt.Sprintf(constvars.ErrDevDisputeNotCompleted, sessionID, status))
	}
	ErrDisputeResolved = func(disputeID, status string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientDisputeResolved, fmt.Sprintf(constvars.ErrDevDisputeResolved, disputeID, status))
	}
	ErrDisputeEvidenceTooLarge = func(fileName string, size, limit int64) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientDisputeEvidenceLimit, fmt.Sprintf(constvars.ErrDevDisputeEvidenceLimit, fileName, size, limit))
	}
)

// ErrPaymentProvider wraps a provider adapter failure and keeps the provider name on the error.
func ErrPaymentProvider(err error, provider string) *CustomError {
	customErr := BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientPaymentProvider, fmt.Sprintf(constvars.ErrDevPaymentProvider, provider))
	customErr.Provider = provider
	return customErr
}
