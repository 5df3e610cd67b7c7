package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Phone        string    `gorm:"uniqueIndex;not null" json:"phone"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PinHash      string    `gorm:"not null" json:"-"`
	Balance      int64     `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	ReferralCode string    `gorm:"uniqueIndex;size:6;not null" json:"referral_code"`
	ReferredBy   *string   `gorm:"size:6" json:"referred_by"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
