package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/testutil"
	"github.com/zjoart/instantpay-wallet/pkg/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.NotificationEvent
	err    error
}

func (p *recordingPublisher) PublishNotification(ctx context.Context, event events.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func TestListNewestFirstAndMarkRead(t *testing.T) {
	a := testutil.NewApp(t)
	demo := testutil.SeedDemo(t, a)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := a.Notifications.Notify(ctx, nil, demo.ID, title, "msg", notification.ActionTransaction)
		require.NoError(t, err)
	}

	notes, count, err := a.Notifications.List(ctx, demo.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, notes, 3)
	assert.Equal(t, "third", notes[0].Title)
	assert.Equal(t, "first", notes[2].Title)
	for _, n := range notes {
		assert.False(t, n.IsRead)
	}

	require.NoError(t, a.Notifications.MarkRead(ctx, demo.ID, notes[1].ID))

	unread, err := a.Notifications.UnreadCount(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	after, _, err := a.Notifications.List(ctx, demo.ID, 10, 0)
	require.NoError(t, err)
	assert.True(t, after[1].IsRead)
	assert.Equal(t, notes[1].Title, after[1].Title)
	assert.Equal(t, notes[1].Message, after[1].Message)
	assert.Equal(t, notes[1].ActionType, after[1].ActionType)

	n, err := a.Notifications.MarkAllRead(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMarkReadRequiresOwnership(t *testing.T) {
	a := testutil.NewApp(t)
	demo := testutil.SeedDemo(t, a)
	other := testutil.Register(t, a, 1, "")
	ctx := context.Background()

	note, err := a.Notifications.Notify(ctx, nil, demo.ID, "Money Added", "₦100 added to wallet", notification.ActionTransaction)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Notifications.MarkRead(ctx, other.ID, note.ID), apperr.ErrNotFound)
	assert.ErrorIs(t, a.Notifications.MarkRead(ctx, demo.ID, uuid.New()), apperr.ErrNotFound)

	unread, err := a.Notifications.UnreadCount(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestDispatchPublishesEachNotification(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	a := testutil.NewAppWith(t, testutil.Config(), pub)
	demo := testutil.SeedDemo(t, a)
	ctx := context.Background()

	first, err := a.Notifications.Notify(ctx, nil, demo.ID, "a", "one", notification.ActionAccount)
	require.NoError(t, err)
	second, err := a.Notifications.Notify(ctx, nil, demo.ID, "b", "two", notification.ActionReferral)
	require.NoError(t, err)

	// publish failures are logged, not returned
	a.Notifications.Dispatch(ctx, *first, *second)

	require.Len(t, pub.events, 2)
	assert.Equal(t, first.ID.String(), pub.events[0].NotificationID)
	assert.Equal(t, demo.ID.String(), pub.events[0].UserID)
	assert.Equal(t, "referral", pub.events[1].ActionType)
}

func TestDispatchWithoutPublisherIsNoop(t *testing.T) {
	a := testutil.NewApp(t)
	a.Notifications.Dispatch(context.Background(), notification.Notification{ID: uuid.New()})
}
