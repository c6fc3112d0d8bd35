package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "backstage"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisCacheDB     = 0
	DefaultRedisQueueDB     = 1
	DefaultRedisDialTimeout = 2 * time.Second
	DefaultProfileCacheTTL  = 5 * time.Minute

	DefaultNotificationTopic = "booking-notifications"
	DefaultNotifyTimeout     = 5 * time.Second

	DefaultDocumentQueue       = "documents"
	DefaultDocumentMaxRetry    = 5
	DefaultWorkerConcurrency   = 10
	DefaultAttachmentURLPrefix = "/api/v1/bookings"

	DefaultManagedSLATechnical  = 2 * time.Hour
	DefaultManagedSLAAdmin      = 4 * time.Hour
	DefaultManagedSLAFinal      = 6 * time.Hour
	DefaultStandardSLATechnical = 24 * time.Hour
	DefaultStandardSLAAdmin     = 48 * time.Hour
	DefaultStandardSLAFinal     = 72 * time.Hour

	DefaultProductionDefaultServices = "photographer,videographer,marketing,social_media"
	DefaultCoordinationChannel       = "WhatsApp group"

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Commission rates are fixed terms and are not read from the environment.
const (
	AgentCommissionRate        = 0.15
	ProfessionalCommissionRate = 0.10
)
