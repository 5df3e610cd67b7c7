package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/internal/wallet"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
	"gorm.io/gorm"
)

var errPayoutConflict = errors.New("referral payout conflict")

type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title, message string, action notification.ActionType) (*notification.Notification, error)
}

// Engine pays ReferralBonus to a referrer for every complete group of
// ReferralThreshold pending referrals.
type Engine struct {
	Config   config.Config
	Repo     Repository
	Users    user.Repository
	Ledger   wallet.Repository
	Notifier Notifier
}

func NewEngine(cfg config.Config, repo Repository, users user.Repository, ledger wallet.Repository, notifier Notifier) *Engine {
	return &Engine{
		Config:   cfg,
		Repo:     repo,
		Users:    users,
		Ledger:   ledger,
		Notifier: notifier,
	}
}

// Enroll attaches the referral for a fresh signup and evaluates the
// referrer's bonus in the signup transaction.
func (e *Engine) Enroll(ctx context.Context, tx *gorm.DB, newUser *user.User, code string) ([]notification.Notification, error) {
	ref, err := e.Attach(ctx, tx, newUser, code)
	if err != nil || ref == nil {
		return nil, err
	}
	return e.EvaluateBonus(ctx, tx, ref.ReferrerID)
}

// Attach records a pending referral when code belongs to another user. An
// unknown code attaches nothing.
func (e *Engine) Attach(ctx context.Context, tx *gorm.DB, newUser *user.User, code string) (*Referral, error) {
	referrer, err := e.Users.WithTx(tx).FindByReferralCode(ctx, code)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if referrer.ID == newUser.ID {
		return nil, nil
	}

	ref := &Referral{
		ReferrerID:     referrer.ID,
		ReferredUserID: newUser.ID,
		CodeUsed:       code,
		BonusAmount:    e.Config.ReferralBonus,
		Status:         StatusPending,
	}
	if err := e.Repo.WithTx(tx).Create(ctx, ref); err != nil {
		return nil, fmt.Errorf("create referral: %w", err)
	}

	return ref, nil
}

// EvaluateBonus consumes pending referrals oldest first in groups of
// exactly ReferralThreshold. Each group is marked earned under one payout id
// and credits the referrer once.
func (e *Engine) EvaluateBonus(ctx context.Context, tx *gorm.DB, referrerID uuid.UUID) ([]notification.Notification, error) {
	repo := e.Repo.WithTx(tx)
	threshold := e.Config.ReferralThreshold

	pending, err := repo.Pending(ctx, referrerID)
	if err != nil {
		return nil, err
	}

	var notes []notification.Notification
	for len(pending) >= threshold {
		group := pending[:threshold]
		pending = pending[threshold:]

		ids := make([]uuid.UUID, len(group))
		for i, ref := range group {
			ids[i] = ref.ID
		}

		payoutID := uuid.New()
		n, err := repo.MarkEarned(ctx, ids, payoutID)
		if err != nil {
			return nil, err
		}
		if n != int64(len(ids)) {
			return nil, fmt.Errorf("%w: consumed %d of %d referrals", errPayoutConflict, n, len(ids))
		}

		bonus := e.Config.ReferralBonus
		if _, err := e.Ledger.WithTx(tx).CreditBonus(ctx, referrerID, bonus, fmt.Sprintf("Referral bonus for %d referrals", threshold)); err != nil {
			return nil, fmt.Errorf("credit referral bonus: %w", err)
		}

		note, err := e.Notifier.Notify(ctx, tx, referrerID, "Referral Bonus!",
			fmt.Sprintf("%s credited for %d referrals", utils.FormatNaira(bonus), threshold), notification.ActionReferral)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)

		logger.Info("Referral bonus paid", logger.Fields{
			logger.UserIdKey: referrerID.String(),
			"payout_id":      payoutID.String(),
			"amount":         bonus,
		})
	}

	return notes, nil
}

func (e *Engine) List(ctx context.Context, referrerID uuid.UUID) ([]Referral, error) {
	return e.Repo.ListByReferrer(ctx, referrerID)
}

func (e *Engine) Stats(ctx context.Context, referrerID uuid.UUID) (Stats, error) {
	var st Stats
	var err error

	if st.Pending, err = e.Repo.CountByStatus(ctx, referrerID, StatusPending); err != nil {
		return st, err
	}
	if st.Earned, err = e.Repo.CountByStatus(ctx, referrerID, StatusEarned); err != nil {
		return st, err
	}
	if st.Payouts, err = e.Repo.CountPayouts(ctx, referrerID); err != nil {
		return st, err
	}

	st.Total = st.Pending + st.Earned
	st.TotalEarned = st.Payouts * e.Config.ReferralBonus
	return st, nil
}
