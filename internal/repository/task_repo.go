package repository

import (
	"errors"

	"dukani/internal/models"

	"gorm.io/gorm"
)

// TaskRepository is the catalog of task definitions. It owns the ordering:
// "next task" questions are answered by position in the ordered active
// sequence it returns, not by ad hoc queries elsewhere.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(t *models.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) GetByID(id uint) (*models.Task, error) {
	var t models.Task
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(t *models.Task) error {
	return r.db.Save(t).Error
}

func (r *TaskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// ListActiveOrdered returns the active task sequence in progression order.
func (r *TaskRepository) ListActiveOrdered() ([]models.Task, error) {
	var list []models.Task
	err := r.db.Where("is_active = ?", true).Order("order_index ASC").Find(&list).Error
	return list, err
}

// ListAll returns every definition including inactive ones (admin view).
func (r *TaskRepository) ListAll() ([]models.Task, error) {
	var list []models.Task
	err := r.db.Order("order_index ASC").Find(&list).Error
	return list, err
}

// NextActiveIn returns the active task that follows the given one in the
// ordered sequence, or nil when nothing does. The successor is found by order
// index, not by locating the completed task in the active list, so the chain
// survives the completed task itself being deactivated. Runs on the caller's
// transaction so completion reads and writes share one unit of work.
func (r *TaskRepository) NextActiveIn(tx *gorm.DB, current *models.Task) (*models.Task, error) {
	var next models.Task
	err := tx.Where("is_active = ? AND order_index > ?", true, current.OrderIndex).
		Order("order_index ASC").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}
