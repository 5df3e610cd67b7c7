package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionType string

const (
	ActionTransaction ActionType = "transaction"
	ActionReferral    ActionType = "referral"
	ActionAccount     ActionType = "account"
)

type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string     `gorm:"not null" json:"title"`
	Message    string     `gorm:"not null" json:"message"`
	IsRead     bool       `gorm:"not null;default:false" json:"is_read"`
	ActionType ActionType `gorm:"not null" json:"action_type"`
	CreatedAt  time.Time  `gorm:"index" json:"timestamp"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
