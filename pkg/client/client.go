package client

import (
	"context"
	"time"

	"backstage/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client holds the process-wide connections to backing infrastructure.
type Client struct {
	Mongo *mongo.Client
	Redis *redis.Client
	Queue *asynq.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

// SetRedis connects the cache client. A failed ping is logged and the
// client is left unset so callers fall back to uncached reads.
func (c *Client) SetRedis(log *logger.Logger, opts RedisOptions) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, profile cache disabled", "addr", opts.Addr, "error", err)
		_ = client.Close()
		return
	}

	log.Info("Successfully connected to Redis", "addr", opts.Addr, "db", opts.DB)
	c.Redis = client
}

func (c *Client) SetQueue(log *logger.Logger, opts RedisOptions) {
	c.Queue = asynq.NewClient(QueueRedisOpt(opts))
	log.Info("Task queue client configured", "addr", opts.Addr, "db", opts.DB)
}

type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

func QueueRedisOpt(opts RedisOptions) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	}
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Error("Failed to close task queue client", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}
}
