package constvars

const (
	LoggingRequestIDKey  = "request_id"
	LoggingErrorTypeKey  = "error_type"
	LoggingOperationKey  = "operation"
	LoggingDurationKey   = "duration"
	LoggingSuccessKey    = "success"
	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingRemoteAddrKey = "remote_addr"
	LoggingUserAgentKey  = "user_agent"
	LoggingQueryKey      = "query"
	LoggingStatusCodeKey = "status_code"

	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"

	LoggingActorIDKey         = "actor_id"
	LoggingActorRoleKey       = "actor_role"
	LoggingMentorIDKey        = "mentor_id"
	LoggingMenteeIDKey        = "mentee_id"
	LoggingSlotIDKey          = "slot_id"
	LoggingSessionIDKey       = "session_id"
	LoggingSessionStatusKey   = "session_status"
	LoggingPaymentIDKey       = "payment_id"
	LoggingPaymentStatusKey   = "payment_status"
	LoggingProviderKey        = "provider"
	LoggingIntentIDKey        = "intent_id"
	LoggingTransactionIDKey   = "transaction_id"
	LoggingAmountKey          = "amount"
	LoggingCurrencyKey        = "currency"
	LoggingPercentageKey      = "percentage"
	LoggingPayoutIDKey        = "payout_id"
	LoggingDisputeIDKey       = "dispute_id"
	LoggingRescheduleIDKey    = "reschedule_id"
	LoggingJobIDKey           = "job_id"
	LoggingJobOperationKey    = "job_operation"
	LoggingJobAttemptsKey     = "job_attempts"
	LoggingRecipientKey       = "recipient"
	LoggingQueueNameKey       = "queue_name"
	LoggingMessageIDKey       = "message_id"
	LoggingFailedCountKey     = "failed_count"
	LoggingBucketNameKey      = "bucket_name"
	LoggingObjectKey          = "object_key"
	LoggingEventIDKey         = "event_id"
	LoggingBalanceBucketKey   = "balance_bucket"
	LoggingRefundPercentKey   = "refund_percentage"
	LoggingHoursUntilStartKey = "hours_until_start"
)
