package service

import (
	"errors"
	"log"

	"dukani/config"
	"dukani/internal/auth"
	"dukani/internal/domain"
	"dukani/internal/models"
	"dukani/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

type AuthService struct {
	cfg         *config.Config
	userRepo    *repository.UserRepository
	coinRepo    *repository.CoinRepository
	settingRepo *repository.SettingRepository
	taskSvc     *TaskService
	referralSvc *ReferralService
}

func NewAuthService(
	cfg *config.Config,
	userRepo *repository.UserRepository,
	coinRepo *repository.CoinRepository,
	settingRepo *repository.SettingRepository,
	taskSvc *TaskService,
	referralSvc *ReferralService,
) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		coinRepo:    coinRepo,
		settingRepo: settingRepo,
		taskSvc:     taskSvc,
		referralSvc: referralSvc,
	}
}

// Register creates the account and runs the engagement hooks: seed the task
// progression, pay the signup bonus, register the referral if a code was
// supplied. Hook failures are logged, never fatal - a broken referral must
// not block account creation.
func (s *AuthService) Register(name, email, password, referralCode string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}

	if err := s.taskSvc.InitializeUserTasks(u.ID); err != nil {
		log.Printf("[register] failed to seed tasks for user %d: %v", u.ID, err)
	}
	bonus := s.settingRepo.GetInt64(domain.SettingSignupBonusCoins, s.cfg.Rewards.SignupBonusCoins)
	if bonus > 0 {
		if _, err := s.coinRepo.Award(u.ID, bonus, domain.CoinTxTypeSignupBonus, "Welcome bonus", nil, ""); err != nil {
			log.Printf("[register] failed to pay signup bonus to user %d: %v", u.ID, err)
		}
	}
	if referralCode != "" {
		if _, err := s.referralSvc.RegisterReferral(referralCode, u.ID); err != nil {
			log.Printf("[register] referral code %q rejected for user %d: %v", referralCode, u.ID, err)
		}
	}

	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
}
