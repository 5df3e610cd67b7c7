package wallet

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/pkg/id"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Debit(ctx context.Context, userID uuid.UUID, amount int64, entry Transaction) (*Transaction, error)
	Credit(ctx context.Context, userID uuid.UUID, amount int64, entry Transaction) (*Transaction, error)
	CreditBonus(ctx context.Context, userID uuid.UUID, amount int64, note string) (*Transaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	GetTransactionByReference(ctx context.Context, ref string) (*Transaction, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, error)
	CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// Debit lowers the balance only when it covers amount, then appends entry
// with the resulting snapshot. Call it inside a transaction.
func (r *repository) Debit(ctx context.Context, userID uuid.UUID, amount int64, entry Transaction) (*Transaction, error) {
	if amount <= 0 {
		return nil, apperr.ErrInvalidAmount
	}

	db := r.db.WithContext(ctx)

	res := db.Model(&user.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetBalance(ctx, userID); err != nil {
			return nil, err
		}
		return nil, apperr.ErrInsufficientBalance
	}

	after, err := r.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return r.record(ctx, userID, amount, after+amount, after, entry)
}

// Credit raises the balance and appends entry with the resulting snapshot.
func (r *repository) Credit(ctx context.Context, userID uuid.UUID, amount int64, entry Transaction) (*Transaction, error) {
	db := r.db.WithContext(ctx)

	if amount <= 0 {
		return nil, apperr.ErrInvalidAmount
	}

	res := db.Model(&user.User{}).
		Where("id = ? AND balance <= ?", userID, math.MaxInt64-amount).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetBalance(ctx, userID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: balance limit exceeded", apperr.ErrInvalidAmount)
	}

	after, err := r.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return r.record(ctx, userID, amount, after-amount, after, entry)
}

func (r *repository) CreditBonus(ctx context.Context, userID uuid.UUID, amount int64, note string) (*Transaction, error) {
	return r.Credit(ctx, userID, amount, Transaction{
		Reference: id.Reference("bns"),
		Type:      TransactionBonus,
		Note:      note,
	})
}

func (r *repository) record(ctx context.Context, userID uuid.UUID, amount, before, after int64, entry Transaction) (*Transaction, error) {
	entry.UserID = userID
	entry.Amount = amount
	entry.Status = TransactionSuccess
	entry.BalanceBefore = before
	entry.BalanceAfter = after

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("record %s transaction: %w", entry.Type, err)
	}
	return &entry, nil
}

func (r *repository) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var usr user.User
	err := r.db.WithContext(ctx).Select("balance").Where("id = ?", userID).First(&usr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return usr.Balance, nil
}

func (r *repository) GetTransactionByReference(ctx context.Context, ref string) (*Transaction, error) {
	var tx Transaction
	err := r.db.WithContext(ctx).Where("reference = ?", ref).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *repository) GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, error) {
	var txs []Transaction
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&txs).Error
	return txs, err
}

func (r *repository) CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
