package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
)

const (
	NotificationQueue = "notification_events"
	FailedQueue       = "failed_notification_events"
)

type RedisClient struct {
	Client *redis.Client
}

type NotificationEvent struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ActionType     string    `json:"action_type"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewRedisClient returns nil when no REDIS_URL is configured.
func NewRedisClient(cfg config.Config) *RedisClient {
	if cfg.RedisURL == "" {
		logger.Info("Redis not configured, push notifications disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("Failed to parse Redis url", logger.Fields{"error": err.Error(), "url": cfg.RedisURL})
		opt = &redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       0,
		}
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Error("Failed to connect to Redis", logger.Fields{"error": err.Error(), "url": cfg.RedisURL})
	} else {
		logger.Info("Connected to Redis", logger.Fields{"url": cfg.RedisURL})
	}

	return &RedisClient{Client: rdb}
}

func (r *RedisClient) PublishNotification(ctx context.Context, event NotificationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.Client.RPush(ctx, NotificationQueue, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to redis: %w", err)
	}

	return nil
}

// Pop blocks up to timeout for the next queued event. A nil slice with a
// nil error means the wait timed out.
func (r *RedisClient) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	result, err := r.Client.BLPop(ctx, timeout, NotificationQueue).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(result[1]), nil
}

func (r *RedisClient) PushToDLQ(ctx context.Context, data []byte) error {
	if err := r.Client.RPush(ctx, FailedQueue, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to DLQ: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}
