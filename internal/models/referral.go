package models

import (
	"time"

	"gorm.io/gorm"
)

// Referral tracks the relationship between a referrer and a referred user.
// A user can only be referred once (unique index on ReferredUserID). Status
// advances REGISTERED -> COMPLETED_FIRST_TASK when the referred user finishes
// their first task, and terminates at REWARD_GIVEN once the referrer claims
// the one-time bonus.
type Referral struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ReferrerID     uint           `gorm:"not null;index" json:"referrer_id"`
	ReferredUserID uint           `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	ReferralCode   string         `gorm:"size:20;not null" json:"referral_code"` // the code used at signup
	Status         string         `gorm:"size:30;not null;index" json:"status"`
	RewardClaimed  bool           `gorm:"default:false" json:"reward_claimed"`
	CoinReward     int64          `gorm:"not null;default:0" json:"coin_reward"` // amount actually paid, set at claim time
	ClaimedAt      *time.Time     `json:"claimed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Referrer     User `gorm:"foreignKey:ReferrerID" json:"-"`
	ReferredUser User `gorm:"foreignKey:ReferredUserID" json:"referred_user,omitempty"`
}

func (Referral) TableName() string { return "referrals" }
