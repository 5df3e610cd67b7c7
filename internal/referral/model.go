package referral

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusEarned  Status = "earned"
)

// Referral links a referrer to a user who signed up with their code.
// PayoutID groups the referrals consumed by one bonus credit.
type Referral struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReferrerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"referrer_id"`
	ReferredUserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"referred_user_id"`
	CodeUsed       string     `gorm:"size:6;not null" json:"code_used"`
	BonusAmount    int64      `gorm:"not null" json:"bonus_amount"`
	Status         Status     `gorm:"not null;index" json:"status"`
	PayoutID       *uuid.UUID `gorm:"type:uuid;index" json:"payout_id,omitempty"`
	CreatedAt      time.Time  `json:"timestamp"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Stats struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Earned      int64 `json:"earned"`
	Payouts     int64 `json:"payouts"`
	TotalEarned int64 `json:"total_earned"`
}
