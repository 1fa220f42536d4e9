package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func init() {
	godotenv.Load()
}

// newViper reads an optional YAML file named by CONFIG_FILE, then lets environment
// variables override any key ("payment.card.base_url" -> PAYMENT_CARD_BASE_URL).
func newViper(defaults map[string]interface{}) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("Failed to read config file %s: %s", path, err.Error())
		}
	}
	return v
}

func NewDriverConfig() *DriverConfig {
	v := newViper(map[string]interface{}{
		"config_file":                        "",
		"postgres.host":                      "localhost",
		"postgres.port":                      "5432",
		"postgres.username":                  "postgres",
		"postgres.password":                  "postgres",
		"postgres.db_name":                   "mentorship",
		"postgres.ssl_mode":                  "disable",
		"postgres.max_open_conns":            25,
		"postgres.max_idle_conns":            5,
		"postgres.conn_max_lifetime_minutes": 30,
		"mongodb.host":                       "localhost",
		"mongodb.port":                       "27017",
		"mongodb.username":                   "defaultUsername",
		"mongodb.password":                   "defaultPassword",
		"redis.host":                         "localhost",
		"redis.port":                         "6379",
		"redis.password":                     "",
		"logger.level":                       "debug",
		"logger.output_file_name":            "logger.log",
		"logger.output_error_file_name":      "logger_error.log",
		"rabbitmq.host":                      "localhost",
		"rabbitmq.port":                      "5672",
		"rabbitmq.username":                  "guest",
		"rabbitmq.password":                  "guest",
		"minio.host":                         "localhost",
		"minio.port":                         "9000",
		"minio.username":                     "minioadmin",
		"minio.password":                     "minioadmin",
		"minio.use_ssl":                      false,
		"smtp.host":                          "localhost",
		"smtp.port":                          2525,
		"smtp.username":                      "",
		"smtp.password":                      "",
	})

	driverConfig := new(DriverConfig)
	if err := v.Unmarshal(driverConfig); err != nil {
		log.Fatalf("Failed to load driver config: %s", err.Error())
	}
	return driverConfig
}

func NewInternalConfig() *InternalConfig {
	v := newViper(map[string]interface{}{
		"config_file":                                 "",
		"app.env":                                     "development",
		"app.port":                                    ":8080",
		"app.version":                                 "v1",
		"app.address":                                 "localhost",
		"app.timezone":                                "UTC",
		"app.endpoint_prefix":                         "api",
		"app.currency":                                "USD",
		"app.max_requests":                            20,
		"app.shutdown_timeout_in_seconds":             10,
		"app.request_timeout_in_seconds":              15,
		"app.request_body_limit_in_megabyte":          10,
		"jwt.secret":                                  "anyjwt",
		"jwt.issuer":                                  "mentorship-identity",
		"jwt.expiry_in_minutes":                       60,
		"rbac.model_path":                             "resources/rbac_model.conf",
		"rbac.policy_path":                            "resources/rbac_policy.csv",
		"booking.advance_notice_in_hours":             24,
		"booking.payment_timeout_in_minutes":          15,
		"booking.auto_complete_grace_in_minutes":      60,
		"payment.commission_rate":                     "0.15",
		"payment.confirm_hold_in_hours":               72,
		"payment.card.enabled":                        true,
		"payment.card.base_url":                       "http://localhost:12111",
		"payment.card.secret_key":                     "",
		"payment.card.webhook_secret":                 "",
		"payment.card.currency":                       "USD",
		"payment.card.conversion_rate":                "1",
		"payment.card.capture_timeout_in_minutes":     30,
		"payment.card.request_timeout_in_seconds":     10,
		"payment.card.requests_per_second":            20,
		"payment.wallet.enabled":                      false,
		"payment.wallet.base_url":                     "http://localhost:12112",
		"payment.wallet.secret_key":                   "",
		"payment.wallet.webhook_secret":               "",
		"payment.wallet.currency":                     "IDR",
		"payment.wallet.conversion_rate":              "15000",
		"payment.wallet.capture_timeout_in_minutes":   60,
		"payment.wallet.request_timeout_in_seconds":   10,
		"payment.wallet.requests_per_second":          10,
		"cancellation.full_refund_notice_in_hours":    48,
		"cancellation.partial_refund_notice_in_hours": 24,
		"cancellation.partial_refund_percentage":      50,
		"reschedule.auto_reject_in_hours":             48,
		"balance.holding_period_in_days":              3,
		"balance.release_retry_in_hours":              24,
		"payout.base_url":                             "http://localhost:12113",
		"payout.api_key":                              "",
		"payout.request_timeout_in_seconds":           15,
		"payout.request_quota_per_day":                5,
		"dispute.window_in_days":                      3,
		"dispute.evidence_max_size_in_mb":             5,
		"dispute.evidence_url_expiry_in_minutes":      30,
		"dispute.create_quota_per_day":                3,
		"scheduler.cron_spec":                         "@every 30s",
		"scheduler.batch_size":                        50,
		"scheduler.max_attempts":                      5,
		"scheduler.retry_backoff_in_seconds":          60,
		"scheduler.stale_after_in_minutes":            10,
		"webhook.max_queue":                           20,
		"webhook.throttle_retry":                      5,
		"webhook.tick_interval_in_seconds":            30,
		"webhook.dedupe_ttl_in_hours":                 24,
		"queue.mailer_queue":                          "mentorship_mailer_queue",
		"queue.webhook_retry_queue":                   "payment_webhook_retry_queue",
		"queue.webhook_dead_letter_queue":             "payment_webhook_dlq",
		"queue.prefetch":                              10,
		"mailer.driver":                               "rabbitmq",
		"mailer.email_sender":                         "no-reply@mentorship.local",
		"evidence.bucket_name":                        "dispute-evidence",
		"archive.db_name":                             "mentorship",
		"archive.webhook_events_collection":           "webhook_events",
		"archive.users_collection":                    "users",
		"video_link.base_url":                         "https://meet.mentorship.local",
	})

	internalConfig := new(InternalConfig)
	if err := v.Unmarshal(internalConfig); err != nil {
		log.Fatalf("Failed to load internal config: %s", err.Error())
	}
	return internalConfig
}
