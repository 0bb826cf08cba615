package repository

import (
	"time"

	"dukani/internal/domain"
	"dukani/internal/models"

	"gorm.io/gorm"
)

// UserTaskRepository owns the per-user progress rows. State transitions are
// guarded updates: the WHERE clause re-checks the expected current status so
// two concurrent submissions of the same transition cannot both win; the
// loser sees RowsAffected == 0.
type UserTaskRepository struct {
	db *gorm.DB
}

func NewUserTaskRepository(db *gorm.DB) *UserTaskRepository {
	return &UserTaskRepository{db: db}
}

// SeedForUser creates one progress row per active task: the first in the
// sequence AVAILABLE right away, the rest LOCKED with no due time.
func (r *UserTaskRepository) SeedForUser(userID uint, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]models.UserTask, 0, len(tasks))
	for i, t := range tasks {
		ut := models.UserTask{
			UserID: userID,
			TaskID: t.ID,
			Status: domain.TaskStatusLocked,
		}
		if i == 0 {
			ut.Status = domain.TaskStatusAvailable
			ut.NextAvailableAt = &now
		}
		rows = append(rows, ut)
	}
	return r.db.Create(&rows).Error
}

func (r *UserTaskRepository) GetByID(id uint) (*models.UserTask, error) {
	var ut models.UserTask
	if err := r.db.Preload("Task").First(&ut, id).Error; err != nil {
		return nil, err
	}
	return &ut, nil
}

func (r *UserTaskRepository) GetByUserAndTask(userID, taskID uint) (*models.UserTask, error) {
	var ut models.UserTask
	err := r.db.Preload("Task").Where("user_id = ? AND task_id = ?", userID, taskID).First(&ut).Error
	if err != nil {
		return nil, err
	}
	return &ut, nil
}

// ListByUser returns the user's progress rows in progression order.
func (r *UserTaskRepository) ListByUser(userID uint) ([]models.UserTask, error) {
	var list []models.UserTask
	err := r.db.Preload("Task").
		Joins("JOIN tasks ON tasks.id = user_tasks.task_id").
		Where("user_tasks.user_id = ?", userID).
		Order("tasks.order_index ASC").
		Find(&list).Error
	return list, err
}

// CountCompleted returns how many of the currently active tasks the user has
// finished. Counting against the active set keeps the number comparable with
// the catalog's size after a definition is deactivated.
func (r *UserTaskRepository) CountCompleted(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.UserTask{}).
		Joins("JOIN tasks ON tasks.id = user_tasks.task_id").
		Where("user_tasks.user_id = ? AND user_tasks.status = ? AND tasks.is_active = ?",
			userID, domain.TaskStatusCompleted, true).
		Count(&n).Error
	return n, err
}

// TransitionIn performs a guarded status change inside tx: the row moves to
// newStatus (with the extra column updates) only if its status is still one
// of fromStatuses. Returns whether the update won.
func (r *UserTaskRepository) TransitionIn(tx *gorm.DB, id uint, fromStatuses []string, newStatus string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = newStatus
	res := tx.Model(&models.UserTask{}).
		Where("id = ? AND status IN ?", id, fromStatuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UnlockIn flips the user's row for taskID from LOCKED to AVAILABLE with the
// given due time, inside tx. A missing or already-unlocked row is a no-op.
func (r *UserTaskRepository) UnlockIn(tx *gorm.DB, userID, taskID uint, dueAt time.Time) error {
	return tx.Model(&models.UserTask{}).
		Where("user_id = ? AND task_id = ? AND status = ?", userID, taskID, domain.TaskStatusLocked).
		Updates(map[string]interface{}{
			"status":            domain.TaskStatusAvailable,
			"next_available_at": dueAt,
		}).Error
}

// ListPendingVerification returns rows awaiting admin review, oldest first (admin view).
func (r *UserTaskRepository) ListPendingVerification(limit, offset int) ([]models.UserTask, error) {
	var list []models.UserTask
	err := r.db.Preload("Task").
		Where("status = ?", domain.TaskStatusPendingVerify).
		Order("completed_at ASC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ListAll returns progress rows across all users (admin view).
func (r *UserTaskRepository) ListAll(limit, offset int) ([]models.UserTask, error) {
	var list []models.UserTask
	err := r.db.Preload("Task").
		Order("user_id ASC, task_id ASC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
