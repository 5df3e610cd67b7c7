// Package store owns the schema and the demo seed.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/internal/bill"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/referral"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/internal/wallet"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"gorm.io/gorm"
)

const (
	DemoPhone = "08012345678"
	DemoPin   = "1234"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&user.User{},
		&wallet.Transaction{},
		&bill.Bill{},
		&referral.Referral{},
		&notification.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedDemo inserts the demo account once. Running it again is a no-op.
func SeedDemo(ctx context.Context, db *gorm.DB, cfg config.Config) (*user.User, error) {
	repo := user.NewRepository(db)

	existing, err := repo.FindByPhone(ctx, DemoPhone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	pinHash, err := user.HashPin(cfg, DemoPin)
	if err != nil {
		return nil, err
	}

	demo := &user.User{
		FullName:     "Adaeze Ude",
		Phone:        DemoPhone,
		Email:        "adaeze@example.com",
		PinHash:      pinHash,
		Balance:      10500,
		ReferralCode: "ADE123",
		IsVerified:   true,
	}
	if err := repo.CreateUser(ctx, demo); err != nil {
		return nil, fmt.Errorf("seed demo user: %w", err)
	}

	logger.Info("Seeded demo user", logger.Fields{"phone": DemoPhone, "referral_code": demo.ReferralCode})
	return demo, nil
}
