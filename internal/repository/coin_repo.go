package repository

import (
	"errors"

	"dukani/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientBalance = errors.New("insufficient coin balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrUserNotFound        = errors.New("user not found")
)

// CoinRepository is the ledger. Every successful Award/Deduct writes the new
// balance on the user row and appends exactly one immutable CoinTransaction,
// in the same database transaction, with the user row locked FOR UPDATE so
// concurrent mutations against one user serialize. Different users proceed
// in parallel.
type CoinRepository struct {
	db *gorm.DB
}

func NewCoinRepository(db *gorm.DB) *CoinRepository {
	return &CoinRepository{db: db}
}

// Balance returns the user's current spendable coins, 0 if the user does not exist.
func (r *CoinRepository) Balance(userID uint) (int64, error) {
	var u models.User
	err := r.db.Select("coin_balance").First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return u.CoinBalance, nil
}

// Award credits amount coins and bumps the lifetime earned counter.
func (r *CoinRepository) Award(userID uint, amount int64, txType, description string, referenceID *uint, referenceType string) (*models.CoinTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var ct *models.CoinTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		ct, err = r.AwardIn(tx, userID, amount, txType, description, referenceID, referenceType)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// Deduct debits amount coins; fails with ErrInsufficientBalance and no
// mutation when the balance does not cover it. The stored transaction amount
// is negative.
func (r *CoinRepository) Deduct(userID uint, amount int64, txType, description string, referenceID *uint, referenceType string) (*models.CoinTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var ct *models.CoinTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		ct, err = mutateIn(tx, userID, -amount, txType, description, referenceID, referenceType)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// AwardIn credits coins inside an already-open transaction, for callers that
// need the credit to commit together with their own writes (task completion,
// referral claim).
func (r *CoinRepository) AwardIn(tx *gorm.DB, userID uint, amount int64, txType, description string, referenceID *uint, referenceType string) (*models.CoinTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return mutateIn(tx, userID, amount, txType, description, referenceID, referenceType)
}

func mutateIn(tx *gorm.DB, userID uint, amount int64, txType, description string, referenceID *uint, referenceType string) (*models.CoinTransaction, error) {
	// SQLite (used in tests) has a single writer and no FOR UPDATE syntax;
	// the row lock matters on MySQL where writers run concurrently.
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var u models.User
	if err := q.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if amount < 0 && u.CoinBalance+amount < 0 {
		return nil, ErrInsufficientBalance
	}
	before := u.CoinBalance
	after := before + amount

	updates := map[string]interface{}{"coin_balance": after}
	if amount > 0 {
		updates["total_coins_earned"] = u.TotalCoinsEarned + amount
	}
	if err := tx.Model(&u).Updates(updates).Error; err != nil {
		return nil, err
	}

	ct := models.CoinTransaction{
		UserID:        userID,
		Amount:        amount,
		Type:          txType,
		Description:   description,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
		ReferenceCode: uuid.NewString(),
		BalanceBefore: before,
		BalanceAfter:  after,
	}
	if err := tx.Create(&ct).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

// History returns a user's transactions, newest first.
func (r *CoinRepository) History(userID uint, limit, offset int) ([]models.CoinTransaction, int64, error) {
	var total int64
	if err := r.db.Model(&models.CoinTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.CoinTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, total, err
}

// Recent returns the n most recent transactions for the dashboard.
func (r *CoinRepository) Recent(userID uint, n int) ([]models.CoinTransaction, error) {
	var list []models.CoinTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&list).Error
	return list, err
}

// ListAll returns transactions across all users, newest first (admin view).
func (r *CoinRepository) ListAll(limit, offset int) ([]models.CoinTransaction, error) {
	var list []models.CoinTransaction
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
