package database

import (
	"log"
	"strconv"

	"dukani/config"
	"dukani/internal/domain"
	"dukani/internal/models"
	"dukani/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.UserTask{},
		&models.CoinTransaction{},
		&models.Referral{},
		&models.SystemSetting{},
	)
}

// SeedAdmin creates the default admin account if no admin exists yet.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] admin password hash: %v", err)
		return
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        "admin@dukani.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("[seed] admin account: %v", err)
		return
	}
	log.Printf("[seed] created default admin %s (change the password)", admin.Email)
}

// SeedTasks inserts a starter onboarding sequence when the catalog is empty.
func SeedTasks(db *gorm.DB) {
	var count int64
	db.Model(&models.Task{}).Count(&count)
	if count > 0 {
		return
	}
	tasks := []models.Task{
		{Name: "Complete your profile", Description: "Add your name and a profile photo.", CoinReward: 20, TaskType: "PROFILE", DelayHours: 0, OrderIndex: 1, IsActive: true},
		{Name: "Browse the catalog", Description: "Open any three product pages.", CoinReward: 10, TaskType: "BROWSE", DelayHours: 24, OrderIndex: 2, IsActive: true},
		{Name: "Share on social media", Description: "Post about us and attach a link to the post.", CoinReward: 50, TaskType: "SOCIAL", DelayHours: 24, OrderIndex: 3, IsActive: true, VerificationRequired: true},
		{Name: "Place your first order", Description: "Check out any item from the store.", CoinReward: 100, TaskType: "ORDER", DelayHours: 48, OrderIndex: 4, IsActive: true},
	}
	if err := db.Create(&tasks).Error; err != nil {
		log.Printf("[seed] task catalog: %v", err)
		return
	}
	log.Printf("[seed] created %d starter tasks", len(tasks))
}

// SeedSettings writes the default reward amounts unless already configured.
func SeedSettings(db *gorm.DB, rewards config.RewardsConfig) {
	defaults := map[string]string{
		domain.SettingSignupBonusCoins:   strconv.FormatInt(rewards.SignupBonusCoins, 10),
		domain.SettingReferralBonusCoins: strconv.FormatInt(rewards.ReferralBonusCoins, 10),
	}
	if err := repository.NewSettingRepository(db).SeedDefaults(defaults); err != nil {
		log.Printf("[seed] settings: %v", err)
	}
}
