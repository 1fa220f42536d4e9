package config

import "github.com/shopspring/decimal"

type InternalConfig struct {
	App          App          `mapstructure:"app"`
	JWT          AppJWT       `mapstructure:"jwt"`
	RBAC         AppRBAC      `mapstructure:"rbac"`
	Booking      AppBooking   `mapstructure:"booking"`
	Payment      AppPayment   `mapstructure:"payment"`
	Cancellation AppCancel    `mapstructure:"cancellation"`
	Reschedule   AppResched   `mapstructure:"reschedule"`
	Balance      AppBalance   `mapstructure:"balance"`
	Payout       AppPayout    `mapstructure:"payout"`
	Dispute      AppDispute   `mapstructure:"dispute"`
	Scheduler    AppScheduler `mapstructure:"scheduler"`
	Webhook      AppWebhook   `mapstructure:"webhook"`
	Queue        AppQueue     `mapstructure:"queue"`
	Mailer       AppMailer    `mapstructure:"mailer"`
	Evidence     AppEvidence  `mapstructure:"evidence"`
	Archive      AppArchive   `mapstructure:"archive"`
	VideoLink    AppVideoLink `mapstructure:"video_link"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Address                    string `mapstructure:"address"`
	Timezone                   string `mapstructure:"timezone"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	Currency                   string `mapstructure:"currency"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
}

type AppJWT struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
	// ExpiryInMinutes applies to tokens minted by this service (ops tooling and tests)
	ExpiryInMinutes int `mapstructure:"expiry_in_minutes"`
}

type AppRBAC struct {
	ModelPath  string `mapstructure:"model_path"`
	PolicyPath string `mapstructure:"policy_path"`
}

type AppBooking struct {
	AdvanceNoticeInHours       int `mapstructure:"advance_notice_in_hours"`
	PaymentTimeoutInMinutes    int `mapstructure:"payment_timeout_in_minutes"`
	AutoCompleteGraceInMinutes int `mapstructure:"auto_complete_grace_in_minutes"`
}

type AppPayment struct {
	CommissionRate     string             `mapstructure:"commission_rate"`
	ConfirmHoldInHours int                `mapstructure:"confirm_hold_in_hours"`
	Card               AppPaymentProvider `mapstructure:"card"`
	Wallet             AppPaymentProvider `mapstructure:"wallet"`
}

// AppPaymentProvider configures one provider adapter.
type AppPaymentProvider struct {
	Enabled                 bool   `mapstructure:"enabled"`
	BaseUrl                 string `mapstructure:"base_url"`
	SecretKey               string `mapstructure:"secret_key"`
	WebhookSecret           string `mapstructure:"webhook_secret"`
	Currency                string `mapstructure:"currency"`
	ConversionRate          string `mapstructure:"conversion_rate"`
	CaptureTimeoutInMinutes int    `mapstructure:"capture_timeout_in_minutes"`
	RequestTimeoutInSeconds int    `mapstructure:"request_timeout_in_seconds"`
	RequestsPerSecond       int    `mapstructure:"requests_per_second"`
}

type AppCancel struct {
	FullRefundNoticeInHours    int `mapstructure:"full_refund_notice_in_hours"`
	PartialRefundNoticeInHours int `mapstructure:"partial_refund_notice_in_hours"`
	PartialRefundPercentage    int `mapstructure:"partial_refund_percentage"`
}

type AppResched struct {
	AutoRejectInHours int `mapstructure:"auto_reject_in_hours"`
}

type AppBalance struct {
	HoldingPeriodInDays int `mapstructure:"holding_period_in_days"`
	ReleaseRetryInHours int `mapstructure:"release_retry_in_hours"`
}

type AppPayout struct {
	BaseUrl                 string `mapstructure:"base_url"`
	ApiKey                  string `mapstructure:"api_key"`
	RequestTimeoutInSeconds int    `mapstructure:"request_timeout_in_seconds"`
	RequestQuotaPerDay      int    `mapstructure:"request_quota_per_day"`
}

type AppDispute struct {
	WindowInDays               int   `mapstructure:"window_in_days"`
	EvidenceMaxSizeInMB        int64 `mapstructure:"evidence_max_size_in_mb"`
	EvidenceURLExpiryInMinutes int   `mapstructure:"evidence_url_expiry_in_minutes"`
	CreateQuotaPerDay          int   `mapstructure:"create_quota_per_day"`
}

type AppScheduler struct {
	// CronSpec defines how often due jobs are polled (e.g., "@every 30s")
	CronSpec              string `mapstructure:"cron_spec"`
	BatchSize             int    `mapstructure:"batch_size"`
	MaxAttempts           int    `mapstructure:"max_attempts"`
	RetryBackoffInSeconds int    `mapstructure:"retry_backoff_in_seconds"`
	StaleAfterInMinutes   int    `mapstructure:"stale_after_in_minutes"`
}

// AppWebhook configures inbound provider webhook handling.
type AppWebhook struct {
	// MaxQueue defines how many retry items the worker processes per tick
	MaxQueue int `mapstructure:"max_queue"`
	// ThrottleRetry is the failedCount threshold before sending to DLQ
	ThrottleRetry         int `mapstructure:"throttle_retry"`
	TickIntervalInSeconds int `mapstructure:"tick_interval_in_seconds"`
	DedupeTTLInHours      int `mapstructure:"dedupe_ttl_in_hours"`
}

type AppQueue struct {
	MailerQueue            string `mapstructure:"mailer_queue"`
	WebhookRetryQueue      string `mapstructure:"webhook_retry_queue"`
	WebhookDeadLetterQueue string `mapstructure:"webhook_dead_letter_queue"`
	Prefetch               int    `mapstructure:"prefetch"`
}

type AppMailer struct {
	// Driver is either "rabbitmq" or "smtp"
	Driver      string `mapstructure:"driver"`
	EmailSender string `mapstructure:"email_sender"`
}

type AppEvidence struct {
	BucketName string `mapstructure:"bucket_name"`
}

type AppArchive struct {
	DBName                  string `mapstructure:"db_name"`
	WebhookEventsCollection string `mapstructure:"webhook_events_collection"`
	UsersCollection         string `mapstructure:"users_collection"`
}

type AppVideoLink struct {
	BaseUrl string `mapstructure:"base_url"`
}

func (p AppPayment) Commission() decimal.Decimal {
	return decimal.RequireFromString(p.CommissionRate)
}

func (p AppPaymentProvider) Rate() decimal.Decimal {
	if p.ConversionRate == "" {
		return decimal.NewFromInt(1)
	}
	return decimal.RequireFromString(p.ConversionRate)
}

type (
	DriverConfig struct {
		PostgresDB PostgresDB `mapstructure:"postgres"`
		MongoDB    MongoDB    `mapstructure:"mongodb"`
		Redis      Redis      `mapstructure:"redis"`
		Logger     Logger     `mapstructure:"logger"`
		RabbitMQ   RabbitMQ   `mapstructure:"rabbitmq"`
		Minio      Minio      `mapstructure:"minio"`
		SMTP       SMTP       `mapstructure:"smtp"`
	}
	PostgresDB struct {
		Host                   string `mapstructure:"host"`
		Port                   string `mapstructure:"port"`
		Username               string `mapstructure:"username"`
		Password               string `mapstructure:"password"`
		DBName                 string `mapstructure:"db_name"`
		SSLMode                string `mapstructure:"ssl_mode"`
		MaxOpenConns           int    `mapstructure:"max_open_conns"`
		MaxIdleConns           int    `mapstructure:"max_idle_conns"`
		ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	}
	MongoDB struct {
		Port     string `mapstructure:"port"`
		Host     string `mapstructure:"host"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	}
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	}
	Logger struct {
		Level               string `mapstructure:"level"`
		OutputFileName      string `mapstructure:"output_file_name"`
		OutputErrorFileName string `mapstructure:"output_error_file_name"`
	}
	RabbitMQ struct {
		Port     string `mapstructure:"port"`
		Host     string `mapstructure:"host"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	}
	Minio struct {
		Port     string `mapstructure:"port"`
		Host     string `mapstructure:"host"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseSSL   bool   `mapstructure:"use_ssl"`
	}
	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	}
)
