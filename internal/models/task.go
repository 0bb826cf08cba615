package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is an admin-managed definition in the onboarding progression.
// OrderIndex gives the tasks a total order; users work through them one
// at a time, each unlocking DelayHours after the previous one completes.
type Task struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Name                 string         `gorm:"size:100;not null" json:"name"`
	Description          string         `gorm:"type:text" json:"description"`
	CoinReward           int64          `gorm:"not null;default:0" json:"coin_reward"`
	TaskType             string         `gorm:"size:30;not null;index" json:"task_type"` // opaque category tag
	DelayHours           int            `gorm:"not null;default:0" json:"delay_hours"`
	OrderIndex           int            `gorm:"uniqueIndex;not null" json:"order_index"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	VerificationRequired bool           `gorm:"default:false" json:"verification_required"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }
