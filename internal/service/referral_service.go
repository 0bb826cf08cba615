package service

import (
	"errors"
	"fmt"

	"dukani/config"
	"dukani/internal/domain"
	"dukani/internal/models"
	"dukani/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidReferralCode    = errors.New("invalid referral code")
	ErrSelfReferral           = errors.New("cannot use your own referral code")
	ErrAlreadyReferred        = errors.New("user was already referred")
	ErrReferralNotFound       = errors.New("referral not found")
	ErrNotYourReferral        = errors.New("referral belongs to another user")
	ErrAlreadyClaimed         = errors.New("referral bonus already claimed")
	ErrReferredTaskIncomplete = errors.New("referred user has not completed their first task")
)

// ReferralService handles the referral lifecycle: code issuance, signup
// registration, advancement on the referred user's first task, and the
// one-time bonus claim.
type ReferralService struct {
	db           *gorm.DB
	referralRepo *repository.ReferralRepository
	coinRepo     *repository.CoinRepository
	settingRepo  *repository.SettingRepository
	rewards      config.RewardsConfig
}

func NewReferralService(
	db *gorm.DB,
	referralRepo *repository.ReferralRepository,
	coinRepo *repository.CoinRepository,
	settingRepo *repository.SettingRepository,
	rewards config.RewardsConfig,
) *ReferralService {
	return &ReferralService{
		db:           db,
		referralRepo: referralRepo,
		coinRepo:     coinRepo,
		settingRepo:  settingRepo,
		rewards:      rewards,
	}
}

// GenerateCode returns the user's referral code, creating one on first call.
func (s *ReferralService) GenerateCode(userID uint) (string, error) {
	return s.referralRepo.GetOrCreateCode(userID)
}

// RegisterReferral records that newUserID signed up with the given code.
func (s *ReferralService) RegisterReferral(code string, newUserID uint) (*models.Referral, error) {
	owner, err := s.referralRepo.GetOwnerByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReferralCode
		}
		return nil, err
	}
	if owner.ID == newUserID {
		return nil, ErrSelfReferral
	}
	if _, err := s.referralRepo.GetByReferredUserID(newUserID); err == nil {
		return nil, ErrAlreadyReferred
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	ref := &models.Referral{
		ReferrerID:     owner.ID,
		ReferredUserID: newUserID,
		ReferralCode:   code,
		Status:         domain.ReferralStatusRegistered,
	}
	if err := s.referralRepo.Create(ref); err != nil {
		// The unique index on referred_user_id catches a racing duplicate.
		return nil, ErrAlreadyReferred
	}
	return ref, nil
}

// AdvanceOnFirstTaskCompletion marks the referral for the given referred user
// as COMPLETED_FIRST_TASK. Idempotent: no referral, or one already advanced,
// is a no-op.
func (s *ReferralService) AdvanceOnFirstTaskCompletion(referredUserID uint) error {
	return s.referralRepo.AdvanceToFirstTaskCompleted(s.db, referredUserID)
}

// ClaimBonus pays the referrer the one-time bonus for a referral whose
// referred user has completed their first task. The claim stamp and the coin
// credit commit together; the guarded update means a double claim pays once.
func (s *ReferralService) ClaimBonus(referrerID, referralID uint) (*models.CoinTransaction, error) {
	ref, err := s.referralRepo.GetByID(referralID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	if ref.ReferrerID != referrerID {
		return nil, ErrNotYourReferral
	}
	if ref.RewardClaimed {
		return nil, ErrAlreadyClaimed
	}
	if ref.Status != domain.ReferralStatusCompletedFirstTask {
		return nil, ErrReferredTaskIncomplete
	}

	bonus := s.settingRepo.GetInt64(domain.SettingReferralBonusCoins, s.rewards.ReferralBonusCoins)
	var ct *models.CoinTransaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		won, err := s.referralRepo.MarkClaimedIn(tx, referralID, bonus)
		if err != nil {
			return err
		}
		if !won {
			return ErrAlreadyClaimed
		}
		ct, err = s.coinRepo.AwardIn(tx, referrerID, bonus,
			domain.CoinTxTypeReferralBonus,
			fmt.Sprintf("Referral bonus for referral #%d", referralID),
			&ref.ID, domain.ReferenceTypeReferral)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// ListForReferrer returns the referrer's referrals, newest first.
func (s *ReferralService) ListForReferrer(referrerID uint, limit, offset int) ([]models.Referral, error) {
	return s.referralRepo.ListByReferrerID(referrerID, limit, offset)
}
