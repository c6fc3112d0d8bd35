package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr        = "REDIS_ADDR"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvRedisCacheDB     = "REDIS_CACHE_DB"
	EnvRedisQueueDB     = "REDIS_QUEUE_DB"
	EnvRedisDialTimeout = "REDIS_DIAL_TIMEOUT"
	EnvProfileCacheTTL  = "PROFILE_CACHE_TTL"

	EnvNotificationTopic    = "NOTIFICATION_TOPIC"
	EnvNotificationDLQTopic = "NOTIFICATION_DLQ_TOPIC"
	EnvNotifyTimeout        = "NOTIFY_TIMEOUT"

	EnvDocumentQueue       = "DOCUMENT_QUEUE"
	EnvDocumentMaxRetry    = "DOCUMENT_MAX_RETRY"
	EnvWorkerConcurrency   = "WORKER_CONCURRENCY"
	EnvAttachmentURLPrefix = "ATTACHMENT_URL_PREFIX"

	EnvManagedSLATechnical  = "SLA_MANAGED_TECHNICAL_REVIEW"
	EnvManagedSLAAdmin      = "SLA_MANAGED_ADMIN_REVIEW"
	EnvManagedSLAFinal      = "SLA_MANAGED_FINAL_APPROVAL"
	EnvStandardSLATechnical = "SLA_STANDARD_TECHNICAL_REVIEW"
	EnvStandardSLAAdmin     = "SLA_STANDARD_ADMIN_REVIEW"
	EnvStandardSLAFinal     = "SLA_STANDARD_FINAL_APPROVAL"

	EnvProductionDefaultServices = "PRODUCTION_DEFAULT_SERVICES"
	EnvCoordinationChannel       = "COORDINATION_CHANNEL"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
