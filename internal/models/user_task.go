package models

import (
	"time"

	"gorm.io/gorm"
)

// UserTask is one user's progress on one task definition. Rows are created
// in bulk at registration and only ever mutated through guarded status
// transitions; they are never deleted in normal operation.
type UserTask struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"not null;uniqueIndex:idx_user_task" json:"user_id"`
	TaskID            uint           `gorm:"not null;uniqueIndex:idx_user_task" json:"task_id"`
	Status            string         `gorm:"size:20;not null;index" json:"status"` // LOCKED, AVAILABLE, IN_PROGRESS, PENDING_VERIFY, COMPLETED
	StartedAt         *time.Time     `json:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at"`
	VerifiedAt        *time.Time     `json:"verified_at"`
	NextAvailableAt   *time.Time     `json:"next_available_at"` // set when the row unlocks; nil while LOCKED
	ProofURL          string         `gorm:"size:512" json:"proof_url"`
	VerificationNotes string         `gorm:"size:512" json:"verification_notes"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserTask) TableName() string { return "user_tasks" }
