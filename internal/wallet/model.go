package wallet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionSend    TransactionType = "send"
	TransactionReceive TransactionType = "receive"
	TransactionBill    TransactionType = "bill"
	TransactionDeposit TransactionType = "deposit"
	TransactionBonus   TransactionType = "bonus"
)

// IsDebit reports whether the type lowers the balance.
func (t TransactionType) IsDebit() bool {
	return t == TransactionSend || t == TransactionBill
}

type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
)

// Transaction is one side of a balance change. Rows are never updated.
type Transaction struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Reference         string            `gorm:"uniqueIndex;not null" json:"reference"`
	Type              TransactionType   `gorm:"not null" json:"type"`
	Amount            int64             `gorm:"not null;check:amount > 0" json:"amount"`
	Fee               int64             `gorm:"not null;default:0" json:"fee"`
	CounterpartyPhone string            `json:"counterparty_phone,omitempty"`
	CounterpartyName  string            `json:"counterparty_name,omitempty"`
	Category          string            `json:"category,omitempty"`
	Note              string            `json:"note,omitempty"`
	Status            TransactionStatus `gorm:"not null" json:"status"`
	BalanceBefore     int64             `gorm:"not null" json:"balance_before"`
	BalanceAfter      int64             `gorm:"not null" json:"balance_after"`
	CreatedAt         time.Time         `gorm:"index" json:"timestamp"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
