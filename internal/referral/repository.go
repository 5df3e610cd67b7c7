package referral

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ref *Referral) error
	Pending(ctx context.Context, referrerID uuid.UUID) ([]Referral, error)
	MarkEarned(ctx context.Context, ids []uuid.UUID, payoutID uuid.UUID) (int64, error)
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]Referral, error)
	CountByStatus(ctx context.Context, referrerID uuid.UUID, status Status) (int64, error)
	CountPayouts(ctx context.Context, referrerID uuid.UUID) (int64, error)
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

func (r *repository) Create(ctx context.Context, ref *Referral) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

// Pending returns the referrer's unpaid referrals, oldest first.
func (r *repository) Pending(ctx context.Context, referrerID uuid.UUID) ([]Referral, error) {
	var refs []Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ? AND status = ?", referrerID, StatusPending).
		Order("created_at asc").
		Find(&refs).Error
	return refs, err
}

// MarkEarned only touches rows still pending, so the returned count tells
// the caller whether every id was actually consumed.
func (r *repository) MarkEarned(ctx context.Context, ids []uuid.UUID, payoutID uuid.UUID) (int64, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	res := r.db.WithContext(ctx).Model(&Referral{}).
		Where("id IN ? AND status = ?", keys, StatusPending).
		Updates(map[string]interface{}{"status": StatusEarned, "payout_id": payoutID})
	return res.RowsAffected, res.Error
}

func (r *repository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]Referral, error) {
	var refs []Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at desc").
		Find(&refs).Error
	return refs, err
}

func (r *repository) CountByStatus(ctx context.Context, referrerID uuid.UUID, status Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Referral{}).
		Where("referrer_id = ? AND status = ?", referrerID, status).
		Count(&count).Error
	return count, err
}

func (r *repository) CountPayouts(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Referral{}).
		Where("referrer_id = ? AND payout_id IS NOT NULL", referrerID).
		Distinct("payout_id").
		Count(&count).Error
	return count, err
}
