package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zjoart/instantpay-wallet/pkg/events"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"gorm.io/gorm"
)

// Publisher hands committed notifications to the push queue.
type Publisher interface {
	PublishNotification(ctx context.Context, event events.NotificationEvent) error
}

// Sink records user-facing events. Notify runs inside the caller's database
// transaction; Dispatch is called once that transaction has committed.
type Sink struct {
	repo      Repository
	publisher Publisher
}

// NewSink accepts a nil publisher, in which case Dispatch does nothing.
func NewSink(repo Repository, publisher Publisher) *Sink {
	return &Sink{repo: repo, publisher: publisher}
}

func (s *Sink) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title, message string, action ActionType) (*Notification, error) {
	n := &Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		ActionType: action,
	}

	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	if err := repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *Sink) Dispatch(ctx context.Context, notes ...Notification) {
	if s.publisher == nil {
		return
	}

	for _, n := range notes {
		event := events.NotificationEvent{
			NotificationID: n.ID.String(),
			UserID:         n.UserID.String(),
			Title:          n.Title,
			Message:        n.Message,
			ActionType:     string(n.ActionType),
			Timestamp:      n.CreatedAt,
		}
		if err := s.publisher.PublishNotification(ctx, event); err != nil {
			logger.Warn("Failed to publish notification", logger.Fields{
				"notification_id": event.NotificationID,
				logger.UserIdKey:  event.UserID,
				logger.ErrorKey:   err.Error(),
			})
		}
	}
}

// List returns the user's notifications newest first with the total count.
func (s *Sink) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Notification, int64, error) {
	notes, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notes, count, nil
}

func (s *Sink) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Sink) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Sink) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
