package bill

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Record(ctx context.Context, b *Bill) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Bill, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
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

func (r *repository) Record(ctx context.Context, b *Bill) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Bill, error) {
	var bills []Bill
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&bills).Error
	return bills, err
}

func (r *repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Bill{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
