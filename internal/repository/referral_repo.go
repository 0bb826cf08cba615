package repository

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"dukani/internal/domain"
	"dukani/internal/models"

	"gorm.io/gorm"
)

var ErrCodeExhausted = errors.New("failed to generate a unique referral code after retries")

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// generateReferralCode returns an 8-character hex code drawn from crypto/rand.
// With a 4-byte keyspace collisions are rare; the unique index on users.referral_code
// is the actual arbiter and the caller retries a bounded number of times.
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetOrCreateCode returns the user's existing referral code, generating and
// persisting one if absent. Generation attempts are capped so code assignment
// cannot loop unboundedly.
func (r *ReferralRepository) GetOrCreateCode(userID uint) (string, error) {
	var u models.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return "", err
	}
	if u.ReferralCode != nil && *u.ReferralCode != "" {
		return *u.ReferralCode, nil
	}
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return "", err
		}
		res := r.db.Model(&models.User{}).
			Where("id = ? AND referral_code IS NULL", userID).
			Update("referral_code", code)
		if res.Error == nil && res.RowsAffected > 0 {
			return code, nil
		}
		if res.Error == nil {
			// Another request assigned a code first; return theirs.
			if err := r.db.First(&u, userID).Error; err != nil {
				return "", err
			}
			if u.ReferralCode != nil {
				return *u.ReferralCode, nil
			}
		}
		// Unique index collision: retry with a fresh code.
	}
	return "", ErrCodeExhausted
}

// GetOwnerByCode returns the user owning the given referral code.
func (r *ReferralRepository) GetOwnerByCode(code string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("referral_code = ?", code).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *ReferralRepository) Create(ref *models.Referral) error {
	return r.db.Create(ref).Error
}

func (r *ReferralRepository) GetByID(id uint) (*models.Referral, error) {
	var ref models.Referral
	if err := r.db.First(&ref, id).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

// GetByReferredUserID returns the referral where the given user is the
// referred party, if any.
func (r *ReferralRepository) GetByReferredUserID(userID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("referred_user_id = ?", userID).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// AdvanceToFirstTaskCompleted flips a REGISTERED referral for the referred
// user to COMPLETED_FIRST_TASK. The status guard makes repeat calls no-ops.
func (r *ReferralRepository) AdvanceToFirstTaskCompleted(tx *gorm.DB, referredUserID uint) error {
	return tx.Model(&models.Referral{}).
		Where("referred_user_id = ? AND status = ?", referredUserID, domain.ReferralStatusRegistered).
		Update("status", domain.ReferralStatusCompletedFirstTask).Error
}

// MarkClaimedIn stamps the claim inside tx, guarded so only one claim wins.
func (r *ReferralRepository) MarkClaimedIn(tx *gorm.DB, referralID uint, reward int64) (bool, error) {
	res := tx.Model(&models.Referral{}).
		Where("id = ? AND reward_claimed = ? AND status = ?", referralID, false, domain.ReferralStatusCompletedFirstTask).
		Updates(map[string]interface{}{
			"reward_claimed": true,
			"coin_reward":    reward,
			"status":         domain.ReferralStatusRewardGiven,
			"claimed_at":     time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByReferrerID returns all referrals created by the given referrer, newest first.
func (r *ReferralRepository) ListByReferrerID(referrerID uint, limit, offset int) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Where("referrer_id = ?", referrerID).
		Preload("ReferredUser").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// CountByReferrerID returns how many users the referrer has brought in.
func (r *ReferralRepository) CountByReferrerID(referrerID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Referral{}).Where("referrer_id = ?", referrerID).Count(&n).Error
	return n, err
}
