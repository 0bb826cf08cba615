package service

import (
	"errors"

	"dukani/internal/domain"
	"dukani/internal/models"
	"dukani/internal/repository"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// DashboardSummary is the read-only projection of a user's engagement state.
type DashboardSummary struct {
	CoinBalance        int64                    `json:"coin_balance"`
	TotalCoinsEarned   int64                    `json:"total_coins_earned"`
	ReferralCode       *string                  `json:"referral_code"`
	TasksCompleted     int64                    `json:"tasks_completed"`
	TasksTotal         int                      `json:"tasks_total"`
	NextTask           *models.UserTask         `json:"next_task"`
	ReferralCount      int64                    `json:"referral_count"`
	RecentTransactions []models.CoinTransaction `json:"recent_transactions"`
}

// DashboardService composes ledger, progression and referral state into one
// summary. Pure reads, no invariants of its own.
type DashboardService struct {
	userRepo     *repository.UserRepository
	userTaskRepo *repository.UserTaskRepository
	taskRepo     *repository.TaskRepository
	coinRepo     *repository.CoinRepository
	referralRepo *repository.ReferralRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	userTaskRepo *repository.UserTaskRepository,
	taskRepo *repository.TaskRepository,
	coinRepo *repository.CoinRepository,
	referralRepo *repository.ReferralRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:     userRepo,
		userTaskRepo: userTaskRepo,
		taskRepo:     taskRepo,
		coinRepo:     coinRepo,
		referralRepo: referralRepo,
	}
}

func (s *DashboardService) Summary(userID uint) (*DashboardSummary, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	completed, err := s.userTaskRepo.CountCompleted(userID)
	if err != nil {
		return nil, err
	}
	active, err := s.taskRepo.ListActiveOrdered()
	if err != nil {
		return nil, err
	}

	// Next actionable task: first AVAILABLE or IN_PROGRESS row in order.
	progress, err := s.userTaskRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	var next *models.UserTask
	for i := range progress {
		st := progress[i].Status
		if st == domain.TaskStatusAvailable || st == domain.TaskStatusInProgress {
			next = &progress[i]
			break
		}
	}

	referralCount, err := s.referralRepo.CountByReferrerID(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.coinRepo.Recent(userID, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		CoinBalance:        u.CoinBalance,
		TotalCoinsEarned:   u.TotalCoinsEarned,
		ReferralCode:       u.ReferralCode,
		TasksCompleted:     completed,
		TasksTotal:         len(active),
		NextTask:           next,
		ReferralCount:      referralCount,
		RecentTransactions: recent,
	}, nil
}
