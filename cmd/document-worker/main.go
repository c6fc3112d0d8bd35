package main

import (
	"fmt"

	"backstage/internal/documents"
	documentrepo "backstage/internal/documents/repository"
	workflowrepo "backstage/internal/workflow/repository"
	"backstage/pkg/client"
	"backstage/pkg/config"

	"github.com/hibiken/asynq"
)

const ServiceName = "document-worker"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	processor := documents.NewProcessor(
		workflowrepo.NewMongoBookingRepository(cfg),
		documents.TextRenderer{},
		documentrepo.NewMongoAttachmentRepository(cfg),
		cfg.AttachmentURLPrefix,
		cfg.Log,
	)

	server := asynq.NewServer(client.QueueRedisOpt(cfg.QueueRedis()), asynq.Config{
		Concurrency:     cfg.WorkerConcurrency,
		Queues:          map[string]int{cfg.DocumentQueue: 1},
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          asynqLogger{cfg: cfg},
	})

	mux := asynq.NewServeMux()
	processor.Register(mux)

	cfg.Log.Info("Starting document worker", "queue", cfg.DocumentQueue, "concurrency", cfg.WorkerConcurrency)
	if err := server.Run(mux); err != nil {
		cfg.Log.Fatal("Document worker stopped", "error", err)
	}
}

// asynqLogger routes the queue server's own logging through the service logger.
type asynqLogger struct {
	cfg *config.Config
}

func (l asynqLogger) Debug(args ...any) { l.cfg.Log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.cfg.Log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.cfg.Log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.cfg.Log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.cfg.Log.Fatal(fmt.Sprint(args...)) }
