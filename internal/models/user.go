package models

import (
	"time"

	"dukani/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:100;not null" json:"name"`
	Email            string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash     string         `gorm:"size:255" json:"-"`
	Role             string         `gorm:"size:20;not null;index" json:"role"` // USER | ADMIN
	CoinBalance      int64          `gorm:"not null;default:0" json:"coin_balance"`
	TotalCoinsEarned int64          `gorm:"not null;default:0" json:"total_coins_earned"`
	ReferralCode     *string        `gorm:"uniqueIndex;size:20" json:"referral_code"` // nil until generated (avoids duplicate '' on unique index)
	OnboardingDone   bool           `gorm:"default:false" json:"onboarding_done"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
