package bill

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const StatusSuccess Status = "success"

type Bill struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null" json:"transaction_id"`
	Category      string    `gorm:"not null" json:"category"`
	Provider      string    `gorm:"not null" json:"provider"`
	AccountNumber string    `gorm:"not null" json:"account_number"`
	Amount        int64     `gorm:"not null;check:amount > 0" json:"amount"`
	Fee           int64     `gorm:"not null" json:"fee"`
	Status        Status    `gorm:"not null" json:"status"`
	CreatedAt     time.Time `gorm:"index" json:"timestamp"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b Bill) Total() int64 {
	return b.Amount + b.Fee
}
