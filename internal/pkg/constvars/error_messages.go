package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"uuid":     "must be a valid UUID",
	"oneof":    "must be one of [%s]",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"max":      "maximum at %s characters long",
	"min":      "must be at least %s characters long",
	"money":    "must be a positive amount with at most 2 decimals",
	"percent":  "must be greater than 0 and at most 100",
}

var TagsWithParams = map[string]bool{
	"oneof": true,
	"gt":    true,
	"gte":   true,
	"lte":   true,
	"max":   true,
	"min":   true,
}

// Client-facing messages
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "We cannot process your request at the moment"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientNotLoggedIn                   = "Please sign in to continue"
	ErrClientServerLongRespond             = "The server took too long to respond"
	ErrClientTooManyRequests               = "Too many requests, please slow down"

	ErrClientSlotNotFound          = "The requested slot does not exist"
	ErrClientSlotAlreadyBooked     = "The requested slot is already booked"
	ErrClientSlotTooSoon           = "Sessions must be booked at least %d hours in advance"
	ErrClientSlotOverlap           = "The slot overlaps an existing slot of this mentor"
	ErrClientMentorNotFound        = "The requested mentor does not exist"
	ErrClientMenteeOverlap         = "You already have a session at this time"
	ErrClientMentorBusy            = "The mentor is not available at the requested time"
	ErrClientUnsupportedDuration   = "Sessions of %d minutes are not offered by this mentor"
	ErrClientSelfBooking           = "You cannot book your own slot"
	ErrClientSessionNotFound       = "The requested session does not exist"
	ErrClientSessionState          = "The session is not in a state that allows this action"
	ErrClientSessionAlreadyStarted = "The session has already started"
	ErrClientSessionNotEnded       = "The session has not ended yet"
	ErrClientSessionCompleted      = "Completed sessions cannot be cancelled"
	ErrClientNotParticipant        = "You are not a participant of this session"

	ErrClientPaymentNotFound         = "The requested payment does not exist"
	ErrClientPaymentAlreadyAttached  = "A payment already exists for this session"
	ErrClientPaymentAlreadyConfirmed = "The session is already confirmed"
	ErrClientPaymentNotCaptured      = "The payment has not been completed yet"
	ErrClientPaymentAmountMismatch   = "The paid amount does not match the session price"
	ErrClientPaymentNotRefundable    = "The payment cannot be refunded"
	ErrClientRefundExceedsPayment    = "The refund exceeds the amount paid"
	ErrClientPaymentProvider         = "The payment provider could not process the request"
	ErrClientUnknownProvider         = "The payment provider is not supported"
	ErrClientWebhookRejected         = "The webhook could not be verified"

	ErrClientRescheduleNotFound = "The requested reschedule does not exist"
	ErrClientRescheduleResolved = "The reschedule request has already been resolved"
	ErrClientReschedulePending  = "A reschedule request is already pending for this session"

	ErrClientBalanceNotFound     = "No balance exists for this mentor"
	ErrClientInsufficientBalance = "The requested amount exceeds the available balance"
	ErrClientPayoutNotFound      = "The requested payout does not exist"
	ErrClientPayoutState         = "The payout is not pending"

	ErrClientDisputeNotFound      = "The requested dispute does not exist"
	ErrClientDisputeExists        = "A dispute already exists for this session"
	ErrClientDisputeWindowLapsed  = "The dispute window for this session has closed"
	ErrClientDisputeNotCompleted  = "Only completed sessions can be disputed"
	ErrClientDisputeResolved      = "The dispute has already been resolved"
	ErrClientDisputeEvidenceLimit = "Evidence files exceed the allowed size"
	ErrClientInvalidAmount        = "The %s is invalid"
)

// Developer-facing messages
const (
	ErrDevValidationFailed           = "validation failed"
	ErrDevURLParamValidationFailed   = "url param %s validation failed"
	ErrDevQueryParamValidationFailed = "query param %s validation failed"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotParseMultipartForm   = "cannot parse multipart form"
	ErrDevCannotParseTime            = "cannot parse time"
	ErrDevCannotReadBody             = "cannot read request body"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevCannotUnmarshalJSON        = "cannot unmarshal JSON"
	ErrDevServerDeadlineExceeded     = "server deadline exceeded"
	ErrDevMissingRequestID           = "request id missing from context"
	ErrDevServerProcess              = "server failed to process request"
	ErrDevAuthTokenMissing           = "authorization token missing"
	ErrDevAuthTokenInvalidOrExpired  = "authorization token invalid or expired"
	ErrDevAccessDenied               = "access denied by policy"
	ErrDevTooManyRequests            = "rate limit exceeded for %s"

	ErrDevDBFailedToFindData       = "postgres failed to find data"
	ErrDevDBFailedToInsertData     = "postgres failed to insert data"
	ErrDevDBFailedToUpdateData     = "postgres failed to update data"
	ErrDevDBFailedToIterateDataset = "postgres failed to iterate dataset"
	ErrDevDBFailedToBeginTx        = "postgres failed to begin transaction"
	ErrDevDBFailedToCommitTx       = "postgres failed to commit transaction"

	ErrDevMongoFailedToFindDocument   = "mongodb failed to find document"
	ErrDevMongoFailedToInsertDocument = "mongodb failed to insert document"

	ErrDevRedisGetNoData      = "redis has no data for key %s"
	ErrDevRedisGetData        = "redis failed to get data"
	ErrDevRedisSetData        = "redis failed to set data"
	ErrDevRedisDeleteData     = "redis failed to delete data"
	ErrDevRedisExpireData     = "redis failed to extend expiry"
	ErrDevRedisLockNotOwned   = "redis lock not owned by this client"
	ErrDevRabbitMQPublish     = "rabbitmq failed to publish message to %s"
	ErrDevRabbitMQFetch       = "rabbitmq failed to fetch message from %s"
	ErrDevMinioCreateObject   = "minio failed to create object in bucket %s"
	ErrDevMinioPresignObject  = "minio failed to presign object in bucket %s"
	ErrDevSMTPSendEmail       = "smtp failed to send email via %s"
	ErrDevUnknownJobOperation = "no handler registered for job operation %s"
	ErrDevCreateHTTPRequest   = "failed to create http request"
	ErrDevSendHTTPRequest     = "failed to send http request"
	ErrDevUnexpectedHTTPCode  = "%s responded with status %d: %s"
	ErrDevDecodeResponse      = "failed to decode %s response"
	ErrDevWebhookSignature    = "webhook signature from %s is invalid"
	ErrDevWebhookPayload      = "webhook payload from %s is malformed: %s"
	ErrDevCancelNotSupported  = "payment provider %s cannot cancel intents"
	ErrDevPayoutGateway       = "payout gateway rejected payout %s"

	ErrDevSlotNotFound           = "slot %s not found"
	ErrDevSlotAlreadyBooked      = "slot %s already booked"
	ErrDevSlotTooSoon            = "slot %s starts at %s, inside the advance notice window"
	ErrDevSlotOverlap            = "slot overlaps an existing slot of mentor %s"
	ErrDevMentorNotFound         = "mentor %s not found"
	ErrDevMenteeOverlap          = "mentee %s has an overlapping session"
	ErrDevMentorBusy             = "mentor %s has an overlapping slot or session"
	ErrDevUnsupportedDuration    = "mentor %s has no rate for %d minutes"
	ErrDevSelfBooking            = "mentee %s attempted to book own slot"
	ErrDevSessionNotFound        = "session %s not found"
	ErrDevSessionState           = "session %s is %s, expected %s"
	ErrDevSessionAlreadyStarted  = "session %s started at %s"
	ErrDevSessionNotEnded        = "session %s ends at %s"
	ErrDevSessionCompleted       = "session %s is completed"
	ErrDevNotParticipant         = "actor %s is not a participant of session %s"
	ErrDevPaymentNotFound        = "payment %s not found"
	ErrDevPaymentAlreadyAttached = "session %s already carries payment %s"
	ErrDevPaymentConfirmed       = "session %s already confirmed"
	ErrDevPaymentNotCaptured     = "payment %s is %s locally and %s at provider"
	ErrDevPaymentAmountMismatch  = "payment %s captured %s %s, expected %s %s"
	ErrDevPaymentNotRefundable   = "payment %s is %s with %s%% refunded"
	ErrDevRefundExceedsPayment   = "refund of %s%% on payment %s exceeds 100%% cumulative"
	ErrDevPaymentProvider        = "payment provider %s failed"
	ErrDevUnknownProvider        = "payment provider %s is not registered"
	ErrDevRescheduleNotFound     = "reschedule %s not found"
	ErrDevRescheduleResolved     = "reschedule %s is %s"
	ErrDevReschedulePending      = "session %s already has pending reschedule %s"
	ErrDevBalanceNotFound        = "balance for mentor %s not found"
	ErrDevInsufficientBalance    = "mentor %s requested %s with %s available"
	ErrDevPayoutNotFound         = "payout %s not found"
	ErrDevPayoutState            = "payout %s is %s"
	ErrDevDisputeNotFound        = "dispute %s not found"
	ErrDevDisputeExists          = "session %s already has dispute %s"
	ErrDevDisputeWindowLapsed    = "session %s completed at %s, dispute window closed"
	ErrDevDisputeNotCompleted    = "session %s is %s"
	ErrDevDisputeResolved        = "dispute %s is %s"
	ErrDevDisputeEvidenceLimit   = "evidence %s is %d bytes, limit %d"
	ErrDevInvalidAmount          = "%s must be positive and within range, got %s"
)
