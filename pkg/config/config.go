package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"backstage/pkg/client"
	kafka_config "backstage/pkg/kafka/config"
	"backstage/pkg/logger"
)

// SLAPolicy holds per-stage deadline offsets measured from workflow open time.
type SLAPolicy struct {
	TechnicalReview time.Duration
	AdminReview     time.Duration
	FinalApproval   time.Duration
}

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Redis           client.RedisOptions
	RedisQueueDB    int
	ProfileCacheTTL time.Duration

	Kafka                *kafka_config.Config
	NotificationTopic    string
	NotificationDLQTopic string
	NotifyTimeout        time.Duration

	DocumentQueue       string
	DocumentMaxRetry    int
	WorkerConcurrency   int
	AttachmentURLPrefix string

	ManagedSLA  SLAPolicy
	StandardSLA SLAPolicy

	AgentCommissionRate        float64
	ProfessionalCommissionRate float64
	ProductionDefaultServices  []string
	CoordinationChannel        string

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	kafkaCfg, kafkaErr := kafka_config.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Redis: client.RedisOptions{
			Addr:        getEnvStr(EnvRedisAddr, DefaultRedisAddr),
			Password:    getEnvStr(EnvRedisPassword, ""),
			DB:          getEnvNum(EnvRedisCacheDB, DefaultRedisCacheDB),
			DialTimeout: getEnvDuration(EnvRedisDialTimeout, DefaultRedisDialTimeout),
		},
		RedisQueueDB:    getEnvNum(EnvRedisQueueDB, DefaultRedisQueueDB),
		ProfileCacheTTL: getEnvDuration(EnvProfileCacheTTL, DefaultProfileCacheTTL),

		Kafka:                kafkaCfg,
		NotificationTopic:    getEnvStr(EnvNotificationTopic, DefaultNotificationTopic),
		NotificationDLQTopic: getEnvStr(EnvNotificationDLQTopic, ""),
		NotifyTimeout:        getEnvDuration(EnvNotifyTimeout, DefaultNotifyTimeout),

		DocumentQueue:       getEnvStr(EnvDocumentQueue, DefaultDocumentQueue),
		DocumentMaxRetry:    getEnvNum(EnvDocumentMaxRetry, DefaultDocumentMaxRetry),
		WorkerConcurrency:   getEnvNum(EnvWorkerConcurrency, DefaultWorkerConcurrency),
		AttachmentURLPrefix: getEnvStr(EnvAttachmentURLPrefix, DefaultAttachmentURLPrefix),

		ManagedSLA: SLAPolicy{
			TechnicalReview: getEnvDuration(EnvManagedSLATechnical, DefaultManagedSLATechnical),
			AdminReview:     getEnvDuration(EnvManagedSLAAdmin, DefaultManagedSLAAdmin),
			FinalApproval:   getEnvDuration(EnvManagedSLAFinal, DefaultManagedSLAFinal),
		},
		StandardSLA: SLAPolicy{
			TechnicalReview: getEnvDuration(EnvStandardSLATechnical, DefaultStandardSLATechnical),
			AdminReview:     getEnvDuration(EnvStandardSLAAdmin, DefaultStandardSLAAdmin),
			FinalApproval:   getEnvDuration(EnvStandardSLAFinal, DefaultStandardSLAFinal),
		},

		AgentCommissionRate:        AgentCommissionRate,
		ProfessionalCommissionRate: ProfessionalCommissionRate,
		ProductionDefaultServices:  getEnvList(EnvProductionDefaultServices, DefaultProductionDefaultServices),
		CoordinationChannel:        getEnvStr(EnvCoordinationChannel, DefaultCoordinationChannel),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if kafkaErr != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", kafkaErr)
	}
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.Redis)
}

func (cfg *Config) SetQueue() {
	cfg.Client.SetQueue(cfg.Log, cfg.QueueRedis())
}

// QueueRedis returns the Redis options for the task queue database.
func (cfg *Config) QueueRedis() client.RedisOptions {
	opts := cfg.Redis
	opts.DB = cfg.RedisQueueDB
	return opts
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.Redis.Addr == "" {
		errors = append(errors, "RedisAddr cannot be empty")
	}
	if cfg.Redis.DB < 0 || cfg.RedisQueueDB < 0 {
		errors = append(errors, fmt.Sprintf("Redis DB indexes cannot be negative, got cache=%d queue=%d", cfg.Redis.DB, cfg.RedisQueueDB))
	}
	if cfg.Redis.DB == cfg.RedisQueueDB {
		errors = append(errors, fmt.Sprintf("Redis cache DB and queue DB must differ, both are %d", cfg.Redis.DB))
	}
	if cfg.ProfileCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("ProfileCacheTTL must be positive, got: %s", cfg.ProfileCacheTTL))
	}

	if cfg.NotificationTopic == "" {
		errors = append(errors, "NotificationTopic cannot be empty")
	}
	if cfg.NotifyTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyTimeout must be positive, got: %s", cfg.NotifyTimeout))
	}

	if cfg.DocumentQueue == "" {
		errors = append(errors, "DocumentQueue cannot be empty")
	}
	if cfg.DocumentMaxRetry < 0 {
		errors = append(errors, fmt.Sprintf("DocumentMaxRetry cannot be negative, got: %d", cfg.DocumentMaxRetry))
	}
	if cfg.WorkerConcurrency <= 0 {
		errors = append(errors, fmt.Sprintf("WorkerConcurrency must be positive, got: %d", cfg.WorkerConcurrency))
	}

	errors = append(errors, validateSLA("ManagedSLA", cfg.ManagedSLA)...)
	errors = append(errors, validateSLA("StandardSLA", cfg.StandardSLA)...)

	for _, s := range cfg.ProductionDefaultServices {
		switch s {
		case "photographer", "videographer", "marketing", "social_media":
		default:
			errors = append(errors, fmt.Sprintf("ProductionDefaultServices contains unknown service %q", s))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func validateSLA(name string, p SLAPolicy) []string {
	var errors []string
	if p.TechnicalReview <= 0 || p.AdminReview <= 0 || p.FinalApproval <= 0 {
		errors = append(errors, fmt.Sprintf("%s deadlines must be positive, got: %s/%s/%s", name, p.TechnicalReview, p.AdminReview, p.FinalApproval))
	}
	if p.TechnicalReview > p.AdminReview || p.AdminReview > p.FinalApproval {
		errors = append(errors, fmt.Sprintf("%s deadlines must be non-decreasing by stage, got: %s/%s/%s", name, p.TechnicalReview, p.AdminReview, p.FinalApproval))
	}
	return errors
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.Redis.Addr,
		"redis_password_set", cfg.Redis.Password != "",
		"redis_cache_db", cfg.Redis.DB,
		"redis_queue_db", cfg.RedisQueueDB,
		"profile_cache_ttl", cfg.ProfileCacheTTL,
		"kafka_enabled", cfg.Kafka.Enabled(),
		"notification_topic", cfg.NotificationTopic,
		"notification_dlq_topic", cfg.NotificationDLQTopic,
		"notify_timeout", cfg.NotifyTimeout,
		"document_queue", cfg.DocumentQueue,
		"document_max_retry", cfg.DocumentMaxRetry,
		"worker_concurrency", cfg.WorkerConcurrency,
		"managed_sla", fmt.Sprintf("%s/%s/%s", cfg.ManagedSLA.TechnicalReview, cfg.ManagedSLA.AdminReview, cfg.ManagedSLA.FinalApproval),
		"standard_sla", fmt.Sprintf("%s/%s/%s", cfg.StandardSLA.TechnicalReview, cfg.StandardSLA.AdminReview, cfg.StandardSLA.FinalApproval),
		"agent_commission_rate", cfg.AgentCommissionRate,
		"professional_commission_rate", cfg.ProfessionalCommissionRate,
		"production_default_services", cfg.ProductionDefaultServices,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnvStr(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
