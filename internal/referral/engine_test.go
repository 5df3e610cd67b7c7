package referral_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/referral"
	"github.com/zjoart/instantpay-wallet/internal/testutil"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/internal/wallet"
	"gorm.io/gorm"
)

func TestPayoutsFireAtEveryThirdReferral(t *testing.T) {
	a := testutil.NewApp(t)
	demo := testutil.SeedDemo(t, a)
	ctx := context.Background()

	expected := map[int]int64{1: 10500, 2: 10500, 3: 10600, 4: 10600, 5: 10600, 6: 10700}

	for n := 1; n <= 6; n++ {
		testutil.Register(t, a, n, "ADE123")

		bal, err := a.Wallet.Balance(ctx, demo.ID)
		require.NoError(t, err)
		assert.Equal(t, expected[n], bal, "after %d referrals", n)
	}

	stats, err := a.Referrals.Stats(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, referral.Stats{Total: 6, Pending: 0, Earned: 6, Payouts: 2, TotalEarned: 200}, stats)

	refs, err := a.Referrals.List(ctx, demo.ID)
	require.NoError(t, err)
	payouts := make(map[string]int)
	for _, r := range refs {
		require.NotNil(t, r.PayoutID)
		payouts[r.PayoutID.String()]++
	}
	assert.Len(t, payouts, 2)
	for _, n := range payouts {
		assert.Equal(t, 3, n)
	}

	txs, _, err := a.Wallet.Transactions(ctx, demo.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, wallet.TransactionBonus, tx.Type)
		assert.Equal(t, int64(100), tx.Amount)
	}

	notes, _, err := a.Notifications.List(ctx, demo.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Referral Bonus!", notes[0].Title)
	assert.Equal(t, "₦100 credited for 3 referrals", notes[0].Message)
	assert.Equal(t, notification.ActionReferral, notes[0].ActionType)
}

func TestEvaluateBonusCatchesUpWithoutDoublePaying(t *testing.T) {
	a := testutil.NewApp(t)
	demo := testutil.SeedDemo(t, a)
	ctx := context.Background()

	var users []*user.User
	for n := 1; n <= 7; n++ {
		users = append(users, testutil.Register(t, a, 100+n, ""))
	}

	// attach directly so no evaluation runs in between
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		for _, usr := range users {
			ref, err := a.Referrals.Attach(ctx, tx, usr, "ADE123")
			require.NoError(t, err)
			require.NotNil(t, ref)
		}
		return nil
	})
	require.NoError(t, err)

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		notes, err := a.Referrals.EvaluateBonus(ctx, tx, demo.ID)
		assert.Len(t, notes, 2)
		return err
	})
	require.NoError(t, err)

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		notes, err := a.Referrals.EvaluateBonus(ctx, tx, demo.ID)
		assert.Empty(t, notes)
		return err
	})
	require.NoError(t, err)

	stats, err := a.Referrals.Stats(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(6), stats.Earned)
	assert.Equal(t, int64(200), stats.TotalEarned)

	bal, err := a.Wallet.Balance(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10700), bal)
}

func TestAttachIgnoresUnknownCode(t *testing.T) {
	a := testutil.NewApp(t)
	usr := testutil.Register(t, a, 1, "")

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		ref, err := a.Referrals.Attach(context.Background(), tx, usr, "NOPE00")
		assert.Nil(t, ref)
		return err
	})
	require.NoError(t, err)
}
