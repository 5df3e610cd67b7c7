package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateUser(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByReferralCode(ctx context.Context, code string) (*User, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	MarkVerified(ctx context.Context, id uuid.UUID) (bool, error)
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

func (r *repository) CreateUser(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*User, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *repository) FindByReferralCode(ctx context.Context, code string) (*User, error) {
	return r.first(ctx, "referral_code = ?", code)
}

func (r *repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone = ?", phone)
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *repository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, "referral_code = ?", code)
}

// MarkVerified reports whether the flag actually changed.
func (r *repository) MarkVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND is_verified = ?", id, false).
		Updates(map[string]interface{}{"is_verified": true})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *repository) first(ctx context.Context, query string, arg interface{}) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}
