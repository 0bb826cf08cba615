package service

import (
	"errors"
	"fmt"
	"time"

	"dukani/internal/domain"
	"dukani/internal/models"
	"dukani/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrProgressNotFound       = errors.New("task progress not found")
	ErrTaskNotAvailable       = errors.New("task is not available")
	ErrTaskNotYetDue          = errors.New("task is not yet due")
	ErrInvalidTaskState       = errors.New("task cannot be completed from its current state")
	ErrNotPendingVerification = errors.New("task is not pending verification")
)

// StateError wraps a progression sentinel with the row's actual status and
// the status the action needed, so callers can report both to the client.
type StateError struct {
	Err      error
	Current  string
	Required string
}

func (e *StateError) Error() string { return e.Err.Error() }
func (e *StateError) Unwrap() error { return e.Err }

func stateErr(err error, current, required string) error {
	return &StateError{Err: err, Current: current, Required: required}
}

// TaskService drives the per-user task progression state machine. Transitions
// are guarded updates, so a duplicate submission racing the winner loses at
// the database rather than double-paying; completion, its coin reward and the
// unlock of the next task commit together.
type TaskService struct {
	db           *gorm.DB
	taskRepo     *repository.TaskRepository
	userTaskRepo *repository.UserTaskRepository
	coinRepo     *repository.CoinRepository
	referralRepo *repository.ReferralRepository
}

func NewTaskService(
	db *gorm.DB,
	taskRepo *repository.TaskRepository,
	userTaskRepo *repository.UserTaskRepository,
	coinRepo *repository.CoinRepository,
	referralRepo *repository.ReferralRepository,
) *TaskService {
	return &TaskService{
		db:           db,
		taskRepo:     taskRepo,
		userTaskRepo: userTaskRepo,
		coinRepo:     coinRepo,
		referralRepo: referralRepo,
	}
}

// InitializeUserTasks seeds progress rows for a new user: the first active
// task AVAILABLE immediately, the rest LOCKED. Called at registration.
func (s *TaskService) InitializeUserTasks(userID uint) error {
	tasks, err := s.taskRepo.ListActiveOrdered()
	if err != nil {
		return err
	}
	return s.userTaskRepo.SeedForUser(userID, tasks)
}

// Start moves an AVAILABLE task to IN_PROGRESS.
func (s *TaskService) Start(userID, taskID uint) (*models.UserTask, error) {
	ut, err := s.userTaskRepo.GetByUserAndTask(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	if ut.Status != domain.TaskStatusAvailable {
		return nil, stateErr(ErrTaskNotAvailable, ut.Status, domain.TaskStatusAvailable)
	}
	if err := checkDue(ut); err != nil {
		return nil, err
	}
	now := time.Now()
	won, err := s.userTaskRepo.TransitionIn(s.db, ut.ID,
		[]string{domain.TaskStatusAvailable},
		domain.TaskStatusInProgress,
		map[string]interface{}{"started_at": now})
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrTaskNotAvailable
	}
	return s.userTaskRepo.GetByID(ut.ID)
}

// Complete submits a task from AVAILABLE or IN_PROGRESS. Tasks that need
// verification park in PENDING_VERIFY with no payout; the rest complete,
// pay the reward and unlock the successor in one transaction.
func (s *TaskService) Complete(userID, taskID uint, proofURL string) (*models.UserTask, error) {
	ut, err := s.userTaskRepo.GetByUserAndTask(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	if ut.Status != domain.TaskStatusAvailable && ut.Status != domain.TaskStatusInProgress {
		return nil, stateErr(ErrInvalidTaskState, ut.Status,
			domain.TaskStatusAvailable+" or "+domain.TaskStatusInProgress)
	}
	if err := checkDue(ut); err != nil {
		return nil, err
	}

	now := time.Now()
	from := []string{domain.TaskStatusAvailable, domain.TaskStatusInProgress}
	updates := map[string]interface{}{"completed_at": now, "proof_url": proofURL}

	if ut.Task.VerificationRequired {
		won, err := s.userTaskRepo.TransitionIn(s.db, ut.ID, from, domain.TaskStatusPendingVerify, updates)
		if err != nil {
			return nil, err
		}
		if !won {
			return nil, ErrInvalidTaskState
		}
		return s.userTaskRepo.GetByID(ut.ID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		won, err := s.userTaskRepo.TransitionIn(tx, ut.ID, from, domain.TaskStatusCompleted, updates)
		if err != nil {
			return err
		}
		if !won {
			return ErrInvalidTaskState
		}
		return s.finalizeCompletion(tx, ut)
	})
	if err != nil {
		return nil, err
	}
	return s.userTaskRepo.GetByID(ut.ID)
}

// Verify resolves a PENDING_VERIFY submission. Approval completes the task
// with full side effects; rejection drops it back to AVAILABLE with the
// reviewer's notes and no payout.
func (s *TaskService) Verify(userTaskID uint, approved bool, notes string) (*models.UserTask, error) {
	ut, err := s.userTaskRepo.GetByID(userTaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	if ut.Status != domain.TaskStatusPendingVerify {
		return nil, stateErr(ErrNotPendingVerification, ut.Status, domain.TaskStatusPendingVerify)
	}

	from := []string{domain.TaskStatusPendingVerify}
	if !approved {
		won, err := s.userTaskRepo.TransitionIn(s.db, ut.ID, from, domain.TaskStatusAvailable,
			map[string]interface{}{"verification_notes": notes, "completed_at": nil})
		if err != nil {
			return nil, err
		}
		if !won {
			return nil, ErrNotPendingVerification
		}
		return s.userTaskRepo.GetByID(ut.ID)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		won, err := s.userTaskRepo.TransitionIn(tx, ut.ID, from, domain.TaskStatusCompleted,
			map[string]interface{}{"verified_at": now, "verification_notes": notes})
		if err != nil {
			return err
		}
		if !won {
			return ErrNotPendingVerification
		}
		return s.finalizeCompletion(tx, ut)
	})
	if err != nil {
		return nil, err
	}
	return s.userTaskRepo.GetByID(ut.ID)
}

// finalizeCompletion runs the side effects of a transition into COMPLETED:
// pay the reward, unlock the next task in the sequence, and on the user's
// first-ever completion advance a pending referral where they are the
// referred party.
func (s *TaskService) finalizeCompletion(tx *gorm.DB, ut *models.UserTask) error {
	if ut.Task.CoinReward > 0 {
		_, err := s.coinRepo.AwardIn(tx, ut.UserID, ut.Task.CoinReward,
			domain.CoinTxTypeTaskReward,
			fmt.Sprintf("Reward for completing %q", ut.Task.Name),
			&ut.ID, domain.ReferenceTypeUserTask)
		if err != nil {
			return err
		}
	}

	next, err := s.taskRepo.NextActiveIn(tx, &ut.Task)
	if err != nil {
		return err
	}
	if next != nil {
		dueAt := time.Now().Add(time.Duration(next.DelayHours) * time.Hour)
		if err := s.userTaskRepo.UnlockIn(tx, ut.UserID, next.ID, dueAt); err != nil {
			return err
		}
	}

	var completed int64
	if err := tx.Model(&models.UserTask{}).
		Where("user_id = ? AND status = ?", ut.UserID, domain.TaskStatusCompleted).
		Count(&completed).Error; err != nil {
		return err
	}
	if completed == 1 {
		return s.referralRepo.AdvanceToFirstTaskCompleted(tx, ut.UserID)
	}
	return nil
}

// ListForUser returns the user's progress rows in progression order.
func (s *TaskService) ListForUser(userID uint) ([]models.UserTask, error) {
	return s.userTaskRepo.ListByUser(userID)
}

// checkDue rejects actions on a row whose unlock time is still in the future.
// Rows are unlocked eagerly with a due timestamp rather than by a scheduler,
// so the time gate is enforced here, at action time.
func checkDue(ut *models.UserTask) error {
	if ut.NextAvailableAt != nil && time.Now().Before(*ut.NextAvailableAt) {
		return stateErr(ErrTaskNotYetDue, ut.Status, "")
	}
	return nil
}
