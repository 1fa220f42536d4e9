package constvars

const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

const (
	MIMEApplicationJSON = "application/json"
	MIMETextPlain       = "text/plain"
	MIMETextHTML        = "text/html"
	MIMEOctetStream     = "application/octet-stream"
	MIMEMultipartForm   = "multipart/form-data"
)

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"
	HeaderRetryAfter    = "Retry-After"
	// provider webhook signature headers
	HeaderCardSignature = "X-Card-Signature"
	HeaderWalletToken   = "X-Callback-Token"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusAccepted            = 202
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusPaymentRequired     = 402
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusGone                = 410
	StatusUnprocessableEntity = 422
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

const (
	URLParamSlotID       = "slot_id"
	URLParamSessionID    = "session_id"
	URLParamPaymentID    = "payment_id"
	URLParamIntentID     = "intent_id"
	URLParamProvider     = "provider"
	URLParamRescheduleID = "reschedule_id"
	URLParamMentorID     = "mentor_id"
	URLParamPayoutID     = "payout_id"
	URLParamDisputeID    = "dispute_id"
	URLParamObjectKey    = "object_key"

	QueryParamFrom = "from"
	QueryParamTo   = "to"
)
