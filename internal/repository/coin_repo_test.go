package repository

import (
	"testing"

	"dukani/internal/domain"
	"dukani/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
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

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Test User", Email: email, Role: domain.RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestAwardCreditsBalanceAndHistory(t *testing.T) {
	db := setupDB(t)
	repo := NewCoinRepository(db)
	u := createUser(t, db, "a@example.com")

	ct, err := repo.Award(u.ID, 50, domain.CoinTxTypeSignupBonus, "Welcome bonus", nil, "")
	require.NoError(t, err)
	assert.EqualValues(t, 50, ct.Amount)
	assert.EqualValues(t, 0, ct.BalanceBefore)
	assert.EqualValues(t, 50, ct.BalanceAfter)

	balance, err := repo.Balance(u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, balance)

	var fresh models.User
	require.NoError(t, db.First(&fresh, u.ID).Error)
	assert.EqualValues(t, 50, fresh.TotalCoinsEarned)
}

func TestDeductStoresNegativeAmount(t *testing.T) {
	db := setupDB(t)
	repo := NewCoinRepository(db)
	u := createUser(t, db, "a@example.com")
	_, err := repo.Award(u.ID, 100, domain.CoinTxTypeSignupBonus, "Welcome bonus", nil, "")
	require.NoError(t, err)

	ct, err := repo.Deduct(u.ID, 30, domain.CoinTxTypePurchase, "Order #1", nil, domain.ReferenceTypeOrder)
	require.NoError(t, err)
	assert.EqualValues(t, -30, ct.Amount)
	assert.EqualValues(t, 100, ct.BalanceBefore)
	assert.EqualValues(t, 70, ct.BalanceAfter)

	balance, _ := repo.Balance(u.ID)
	assert.EqualValues(t, 70, balance)

	// Debits do not touch the lifetime earned counter.
	var fresh models.User
	require.NoError(t, db.First(&fresh, u.ID).Error)
	assert.EqualValues(t, 100, fresh.TotalCoinsEarned)
}

func TestDeductInsufficientBalanceMutatesNothing(t *testing.T) {
	db := setupDB(t)
	repo := NewCoinRepository(db)
	u := createUser(t, db, "a@example.com")
	_, err := repo.Award(u.ID, 100, domain.CoinTxTypeSignupBonus, "Welcome bonus", nil, "")
	require.NoError(t, err)

	_, err = repo.Deduct(u.ID, 500, domain.CoinTxTypePurchase, "Order #1", nil, domain.ReferenceTypeOrder)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	balance, _ := repo.Balance(u.ID)
	assert.EqualValues(t, 100, balance)

	var count int64
	db.Model(&models.CoinTransaction{}).Where("user_id = ?", u.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestInvalidAmountRejected(t *testing.T) {
	db := setupDB(t)
	repo := NewCoinRepository(db)
	u := createUser(t, db, "a@example.com")

	_, err := repo.Award(u.ID, 0, domain.CoinTxTypeAdminAdjust, "noop", nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = repo.Deduct(u.ID, -5, domain.CoinTxTypeAdminAdjust, "noop", nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAwardUnknownUser(t *testing.T) {
	db := setupDB(t)
	repo := NewCoinRepository(db)
	_, err := repo.Award(999, 10, domain.CoinTxTypeAdminAdjust, "ghost", nil, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBalanceDefaultsToZeroForMissingUser(t *testing.T) {
	db := setupDB(t)
	repo := NewCoinRepository(db)
	balance, err := repo.Balance(12345)
	require.NoError(t, err)
	assert.EqualValues(t, 0, balance)
}

// The ledger is a chain: each row's BalanceBefore equals the previous row's
// BalanceAfter, the signed amounts sum to the live balance, and the positive
// amounts sum to TotalCoinsEarned.
func TestTransactionChainIntegrity(t *testing.T) {
	db := setupDB(t)
	repo := NewCoinRepository(db)
	u := createUser(t, db, "a@example.com")

	_, err := repo.Award(u.ID, 50, domain.CoinTxTypeSignupBonus, "Welcome bonus", nil, "")
	require.NoError(t, err)
	_, err = repo.Award(u.ID, 20, domain.CoinTxTypeTaskReward, "Task 1", nil, "")
	require.NoError(t, err)
	_, err = repo.Deduct(u.ID, 30, domain.CoinTxTypePurchase, "Order", nil, domain.ReferenceTypeOrder)
	require.NoError(t, err)
	_, err = repo.Award(u.ID, 100, domain.CoinTxTypeReferralBonus, "Referral", nil, "")
	require.NoError(t, err)

	var txs []models.CoinTransaction
	require.NoError(t, db.Where("user_id = ?", u.ID).Order("id ASC").Find(&txs).Error)
	require.Len(t, txs, 4)

	var sum, earned int64
	for i, ct := range txs {
		if i > 0 {
			assert.Equal(t, txs[i-1].BalanceAfter, ct.BalanceBefore, "row %d breaks the chain", i)
		}
		assert.Equal(t, ct.BalanceBefore+ct.Amount, ct.BalanceAfter)
		sum += ct.Amount
		if ct.Amount > 0 {
			earned += ct.Amount
		}
	}

	var fresh models.User
	require.NoError(t, db.First(&fresh, u.ID).Error)
	assert.Equal(t, sum, fresh.CoinBalance)
	assert.Equal(t, txs[len(txs)-1].BalanceAfter, fresh.CoinBalance)
	assert.Equal(t, earned, fresh.TotalCoinsEarned)
}

func TestHistoryNewestFirstAndPaginated(t *testing.T) {
	db := setupDB(t)
	repo := NewCoinRepository(db)
	u := createUser(t, db, "a@example.com")

	for i := 0; i < 5; i++ {
		_, err := repo.Award(u.ID, int64(i+1), domain.CoinTxTypeAdminAdjust, "adj", nil, "")
		require.NoError(t, err)
	}

	list, total, err := repo.History(u.ID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, list, 2)
	assert.EqualValues(t, 5, list[0].Amount)
	assert.EqualValues(t, 4, list[1].Amount)

	list, _, err = repo.History(u.ID, 2, 4)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].Amount)
}
