package service

import (
	"testing"

	"dukani/config"
	"dukani/internal/domain"
	"dukani/internal/models"
	"dukani/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// Each pooled connection to :memory: opens a separate database; one
	// connection keeps every query in a test on the same one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.UserTask{},
		&models.CoinTransaction{},
		&models.Referral{},
		&models.SystemSetting{},
	))
	return db
}

type fixture struct {
	db          *gorm.DB
	taskSvc     *TaskService
	referralSvc *ReferralService
	dashSvc     *DashboardService
	coinRepo    *repository.CoinRepository
	taskRepo    *repository.TaskRepository
	utRepo      *repository.UserTaskRepository
	refRepo     *repository.ReferralRepository
	userRepo    *repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	utRepo := repository.NewUserTaskRepository(db)
	coinRepo := repository.NewCoinRepository(db)
	refRepo := repository.NewReferralRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	rewards := config.RewardsConfig{SignupBonusCoins: 50, ReferralBonusCoins: 100, HistoryPageSize: 50}
	return &fixture{
		db:          db,
		taskSvc:     NewTaskService(db, taskRepo, utRepo, coinRepo, refRepo),
		referralSvc: NewReferralService(db, refRepo, coinRepo, settingRepo, rewards),
		dashSvc:     NewDashboardService(userRepo, utRepo, taskRepo, coinRepo, refRepo),
		coinRepo:    coinRepo,
		taskRepo:    taskRepo,
		utRepo:      utRepo,
		refRepo:     refRepo,
		userRepo:    userRepo,
	}
}

func (f *fixture) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Test User", Email: email, Role: domain.RoleUser}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

// seedCatalog creates a four-step sequence: two plain tasks, one needing
// verification, and a final one that unlocks only a day after its
// predecessor.
func (f *fixture) seedCatalog(t *testing.T) []models.Task {
	t.Helper()
	tasks := []models.Task{
		{Name: "Complete your profile", CoinReward: 20, TaskType: "PROFILE", OrderIndex: 1, IsActive: true},
		{Name: "Browse the catalog", CoinReward: 30, TaskType: "BROWSE", OrderIndex: 2, IsActive: true},
		{Name: "Share on social media", CoinReward: 50, TaskType: "SOCIAL", OrderIndex: 3, IsActive: true, VerificationRequired: true},
		{Name: "Place your first order", CoinReward: 10, TaskType: "ORDER", OrderIndex: 4, DelayHours: 24, IsActive: true},
	}
	require.NoError(t, f.db.Create(&tasks).Error)
	return tasks
}

func (f *fixture) registerWithTasks(t *testing.T, email string) *models.User {
	t.Helper()
	u := f.createUser(t, email)
	require.NoError(t, f.taskSvc.InitializeUserTasks(u.ID))
	return u
}
