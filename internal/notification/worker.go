package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zjoart/instantpay-wallet/pkg/events"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
)

type Queue interface {
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)
	PushToDLQ(ctx context.Context, data []byte) error
}

// Pusher delivers a notification to the user's device.
type Pusher interface {
	Push(ctx context.Context, event events.NotificationEvent) error
}

// LogPusher stands in for a device push provider.
type LogPusher struct{}

func (LogPusher) Push(ctx context.Context, event events.NotificationEvent) error {
	logger.Info("Push delivered", logger.Fields{
		"notification_id": event.NotificationID,
		logger.UserIdKey:  event.UserID,
		"title":           event.Title,
		"action_type":     event.ActionType,
	})
	return nil
}

type PushWorker struct {
	Queue      Queue
	Pusher     Pusher
	MaxRetries int
	Backoff    func(attempt int) time.Duration
}

func NewPushWorker(queue Queue, pusher Pusher) *PushWorker {
	return &PushWorker{
		Queue:      queue,
		Pusher:     pusher,
		MaxRetries: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
}

// Start consumes the queue until ctx is cancelled.
func (w *PushWorker) Start(ctx context.Context) {
	logger.Info("Starting push worker...")
	go w.processEvents(ctx)
}

func (w *PushWorker) processEvents(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			logger.Info("Push worker stopped")
			return
		}

		data, err := w.Queue.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("PushWorker: Failed to pop event", logger.WithError(err))
				time.Sleep(time.Second)
			}
			continue
		}
		if data == nil {
			continue
		}

		w.handle(ctx, data)
	}
}

func (w *PushWorker) handle(ctx context.Context, data []byte) {
	var event events.NotificationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Error("PushWorker: Failed to unmarshal event", logger.Fields{"error": err.Error(), "data": string(data)})
		w.moveToDLQ(ctx, data)
		return
	}

	for attempt := 1; attempt <= w.MaxRetries; attempt++ {
		err := w.Pusher.Push(ctx, event)
		if err == nil {
			return
		}

		logger.Warn("PushWorker: Failed to deliver, retrying", logger.Fields{
			"notification_id": event.NotificationID,
			"attempt":         attempt,
			"error":           err.Error(),
		})

		if attempt < w.MaxRetries {
			select {
			case <-ctx.Done():
				w.moveToDLQ(context.Background(), data)
				return
			case <-time.After(w.Backoff(attempt)):
			}
		}
	}

	logger.Error("PushWorker: Max retries exhausted, moving to DLQ", logger.Fields{"notification_id": event.NotificationID})
	w.moveToDLQ(ctx, data)
}

func (w *PushWorker) moveToDLQ(ctx context.Context, data []byte) {
	if err := w.Queue.PushToDLQ(ctx, data); err != nil {
		logger.Error("PushWorker: Failed to push to DLQ", logger.Fields{"error": err.Error()})
	}
}
