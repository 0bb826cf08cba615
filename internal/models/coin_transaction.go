package models

import (
	"time"
)

// CoinTransaction is one immutable row in a user's coin ledger. Amount is
// signed (positive = credit, negative = debit). BalanceBefore/BalanceAfter
// are captured at write time so the history forms a verifiable chain: each
// row's BalanceBefore equals the previous row's BalanceAfter, and the user's
// live CoinBalance equals the latest BalanceAfter. Rows are never updated
// or deleted.
type CoinTransaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Type          string    `gorm:"size:30;not null;index" json:"type"` // SIGNUP_BONUS, TASK_REWARD, REFERRAL_BONUS, PURCHASE, ADMIN_ADJUSTMENT
	Description   string    `gorm:"size:255" json:"description"`
	ReferenceID   *uint     `json:"reference_id"`
	ReferenceType string    `gorm:"size:30" json:"reference_type"` // user_task, referral, order
	ReferenceCode string    `gorm:"size:64;uniqueIndex" json:"reference_code"`
	BalanceBefore int64     `gorm:"not null" json:"balance_before"`
	BalanceAfter  int64     `gorm:"not null" json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (CoinTransaction) TableName() string { return "coin_transactions" }
