// Package app wires every repository and service around one database
// handle. An App is built once per process (or per test) and passed to the
// HTTP layer; nothing in the wallet keeps package-level state.
package app

import (
	"github.com/zjoart/instantpay-wallet/internal/bill"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/referral"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/internal/wallet"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"gorm.io/gorm"
)

type App struct {
	Config config.Config
	DB     *gorm.DB

	UserRepo     user.Repository
	WalletRepo   wallet.Repository
	BillRepo     bill.Repository
	ReferralRepo referral.Repository
	NotifRepo    notification.Repository

	Notifications *notification.Sink
	Referrals     *referral.Engine
	Users         *user.Service
	Wallet        *wallet.Service
}

// New builds the container. publisher may be nil.
func New(cfg config.Config, db *gorm.DB, publisher notification.Publisher) *App {
	a := &App{
		Config:       cfg,
		DB:           db,
		UserRepo:     user.NewRepository(db),
		WalletRepo:   wallet.NewRepository(db),
		BillRepo:     bill.NewRepository(db),
		ReferralRepo: referral.NewRepository(db),
		NotifRepo:    notification.NewRepository(db),
	}

	a.Notifications = notification.NewSink(a.NotifRepo, publisher)
	a.Referrals = referral.NewEngine(cfg, a.ReferralRepo, a.UserRepo, a.WalletRepo, a.Notifications)
	a.Users = user.NewService(cfg, db, a.UserRepo, a.Referrals, a.Notifications)
	a.Wallet = wallet.NewService(cfg, db, a.WalletRepo, a.UserRepo, a.BillRepo, a.Users, a.Notifications)

	return a
}
