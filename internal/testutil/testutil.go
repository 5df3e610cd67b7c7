// Package testutil builds an isolated App on a private in-memory SQLite
// database for each test.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zjoart/instantpay-wallet/internal/app"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/store"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

var dbSeq atomic.Int64

func Config() config.Config {
	cfg := config.Defaults()
	cfg.JWTSecret = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

func NewApp(t *testing.T) *app.App {
	t.Helper()
	return NewAppWith(t, Config(), nil)
}

func NewAppWith(t *testing.T, cfg config.Config, publisher notification.Publisher) *app.App {
	t.Helper()

	dsn := fmt.Sprintf("file:instantpay_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Connect(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, store.Migrate(db))

	return app.New(cfg, db, publisher)
}

// Register signs up a user with a valid generated phone and email.
func Register(t *testing.T, a *app.App, n int, referralCode string) *user.User {
	t.Helper()

	usr, err := a.Users.Register(context.Background(), user.RegisterInput{
		FullName:     fmt.Sprintf("User %d", n),
		Phone:        fmt.Sprintf("0%010d", 7000000000+n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		Pin:          "4321",
		ReferralCode: referralCode,
	})
	require.NoError(t, err)
	return usr
}

func SeedDemo(t *testing.T, a *app.App) *user.User {
	t.Helper()

	demo, err := store.SeedDemo(context.Background(), a.DB, a.Config)
	require.NoError(t, err)
	return demo
}
