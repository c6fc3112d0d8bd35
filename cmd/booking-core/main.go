package main

import (
	agenthandler "backstage/internal/agents/handler"
	agentrepo "backstage/internal/agents/repository"
	agentservice "backstage/internal/agents/service"
	agentvalidator "backstage/internal/agents/validator"
	directoryrepo "backstage/internal/directory/repository"
	"backstage/internal/documents"
	documenthandler "backstage/internal/documents/handler"
	documentrepo "backstage/internal/documents/repository"
	"backstage/internal/matcher"
	"backstage/internal/notify"
	productionhandler "backstage/internal/production/handler"
	productionrepo "backstage/internal/production/repository"
	productionservice "backstage/internal/production/service"
	productionvalidator "backstage/internal/production/validator"
	workflowhandler "backstage/internal/workflow/handler"
	workflowrepo "backstage/internal/workflow/repository"
	workflowservice "backstage/internal/workflow/service"
	workflowvalidator "backstage/internal/workflow/validator"
	"backstage/pkg/app"
	"backstage/pkg/clock"
	"backstage/pkg/config"
	"backstage/pkg/contracts"
	mongotx "backstage/pkg/db/mongo"
	"backstage/pkg/kafka"
	kafka_middleware "backstage/pkg/kafka/middleware"
)

const ServiceName = "booking-core"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	cfg.SetQueue()

	cfg.Log.Info("Starting booking core service")
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg, serverApp)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, serverApp *app.Application) []contracts.Handler {
	clk := clock.NewSystem()
	sink := initSink(cfg, serverApp)
	txManager := mongotx.NewTransactionManager(cfg.Client.Mongo)

	profiles := directoryrepo.NewMongoProfileRepository(cfg)
	if cfg.Client.Redis != nil {
		cache := directoryrepo.NewRedisProfileCache(cfg.Client.Redis, cfg.ProfileCacheTTL)
		profiles = directoryrepo.NewCachedProfileRepository(profiles, cache, cfg.Log)
	}
	ranker := matcher.New(profiles)

	attachments := documentrepo.NewMongoAttachmentRepository(cfg)
	scheduler := documents.NewScheduler(cfg.Client.Queue, cfg.DocumentQueue, cfg.DocumentMaxRetry, cfg.Log)

	engine := workflowservice.NewWorkflowService(
		workflowrepo.NewMongoBookingRepository(cfg),
		profiles,
		workflowvalidator.NewWorkflowValidator(cfg.Log),
		sink,
		scheduler,
		clk,
		cfg,
	)

	agentService := agentservice.NewAgentService(
		agentrepo.NewMongoAssignmentRepository(cfg),
		txManager,
		engine,
		engine,
		profiles,
		ranker,
		agentvalidator.NewOfferValidator(cfg.Log),
		sink,
		clk,
		cfg,
	)

	productionService := productionservice.NewProductionService(
		productionrepo.NewMongoProductionRepository(cfg),
		txManager,
		engine,
		profiles,
		ranker,
		productionvalidator.NewProductionValidator(cfg.Log),
		sink,
		clk,
		cfg,
	)

	engine.UseAgentAssigner(agentService)
	engine.UseProductionAssembler(productionService)

	cfg.Log.Info("Booking core services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		workflowhandler.NewWorkflowHandler(engine, cfg.Log),
		agenthandler.NewAgentHandler(agentService, cfg.Log),
		productionhandler.NewProductionHandler(productionService, cfg.Log),
		documenthandler.NewAttachmentHandler(attachments, cfg.Log),
	}
}

// initSink publishes to Kafka when brokers are configured and logs
// notifications otherwise.
func initSink(cfg *config.Config, serverApp *app.Application) notify.Sink {
	if !cfg.Kafka.Enabled() {
		cfg.Log.Warn("Kafka not configured, notifications are logged only")
		return notify.NewLogSink(cfg.Log)
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.NotificationTopic, cfg.NotificationDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	sink := notify.NewKafkaSink(producer, ServiceName, cfg.NotifyTimeout, cfg.Log)
	serverApp.OnShutdown(func() {
		sink.Wait()
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
		cfg.Log.Info("Notification sink closed", "failures", sink.Failures())
	})
	return sink
}
