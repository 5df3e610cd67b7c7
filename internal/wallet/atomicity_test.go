package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/wallet"
	"gorm.io/gorm"
)

var errSinkDown = errors.New("sink down")

// brokenNotifier fails every Notify so the enclosing transaction must roll back.
type brokenNotifier struct {
	dispatched int
}

func (n *brokenNotifier) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title, message string, action notification.ActionType) (*notification.Notification, error) {
	return nil, errSinkDown
}

func (n *brokenNotifier) Dispatch(ctx context.Context, notes ...notification.Notification) {
	n.dispatched++
}

func TestFailedOperationsLeaveNoTrace(t *testing.T) {
	a, demo, other := setup(t)
	ctx := context.Background()

	broken := &brokenNotifier{}
	svc := wallet.NewService(a.Config, a.DB, a.WalletRepo, a.UserRepo, a.BillRepo, a.Users, broken)

	_, err := svc.Transfer(ctx, demo.ID, wallet.TransferInput{RecipientPhone: other.Phone, Amount: 500, Pin: "1234"})
	assert.ErrorIs(t, err, errSinkDown)

	_, err = svc.PayBill(ctx, demo.ID, wallet.BillInput{Category: "Data", Provider: "Glo Data", AccountNumber: "08055555555", Amount: 300, Pin: "1234"})
	assert.ErrorIs(t, err, errSinkDown)

	_, err = svc.Deposit(ctx, demo.ID, wallet.DepositInput{Amount: 700, Pin: "1234"})
	assert.ErrorIs(t, err, errSinkDown)

	assert.Equal(t, int64(10500), balance(t, a, demo))
	assert.Equal(t, int64(1000), balance(t, a, other))

	count, err := a.WalletRepo.CountTransactions(ctx, demo.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	bills, err := a.BillRepo.CountByUser(ctx, demo.ID)
	require.NoError(t, err)
	assert.Zero(t, bills)

	assert.Zero(t, broken.dispatched)
}
