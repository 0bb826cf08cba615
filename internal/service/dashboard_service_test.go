package service

import (
	"testing"

	"dukani/internal/domain"
	"dukani/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummaryComposition(t *testing.T) {
	f := newFixture(t)
	tasks := f.seedCatalog(t)
	u := f.registerWithTasks(t, "a@example.com")

	_, err := f.coinRepo.Award(u.ID, 50, domain.CoinTxTypeSignupBonus, "Welcome bonus", nil, "")
	require.NoError(t, err)
	_, err = f.taskSvc.Complete(u.ID, tasks[0].ID, "")
	require.NoError(t, err)
	code, err := f.referralSvc.GenerateCode(u.ID)
	require.NoError(t, err)

	friend := f.createUser(t, "friend@example.com")
	_, err = f.referralSvc.RegisterReferral(code, friend.ID)
	require.NoError(t, err)

	summary, err := f.dashSvc.Summary(u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 70, summary.CoinBalance)
	assert.EqualValues(t, 70, summary.TotalCoinsEarned)
	require.NotNil(t, summary.ReferralCode)
	assert.Equal(t, code, *summary.ReferralCode)
	assert.EqualValues(t, 1, summary.TasksCompleted)
	assert.Equal(t, 4, summary.TasksTotal)
	assert.EqualValues(t, 1, summary.ReferralCount)
	require.Len(t, summary.RecentTransactions, 2)
	// Newest first: the task reward precedes the signup bonus.
	assert.Equal(t, domain.CoinTxTypeTaskReward, summary.RecentTransactions[0].Type)

	// Next actionable task is the newly unlocked second step.
	require.NotNil(t, summary.NextTask)
	assert.Equal(t, tasks[1].ID, summary.NextTask.TaskID)
	assert.Equal(t, domain.TaskStatusAvailable, summary.NextTask.Status)
}

func TestDashboardCapsRecentTransactionsAtFive(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	u := f.registerWithTasks(t, "a@example.com")
	for i := 0; i < 7; i++ {
		_, err := f.coinRepo.Award(u.ID, 10, domain.CoinTxTypeAdminAdjust, "adj", nil, "")
		require.NoError(t, err)
	}

	summary, err := f.dashSvc.Summary(u.ID)
	require.NoError(t, err)
	assert.Len(t, summary.RecentTransactions, 5)
}

func TestDashboardCountsCompletedAgainstActiveSet(t *testing.T) {
	f := newFixture(t)
	tasks := f.seedCatalog(t)
	u := f.registerWithTasks(t, "a@example.com")

	_, err := f.taskSvc.Complete(u.ID, tasks[0].ID, "")
	require.NoError(t, err)

	// Retiring the completed task shrinks both counts together, so the
	// summary never shows more completed tasks than the catalog holds.
	require.NoError(t, f.db.Model(&models.Task{}).
		Where("id = ?", tasks[0].ID).
		Update("is_active", false).Error)

	summary, err := f.dashSvc.Summary(u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.TasksCompleted)
	assert.Equal(t, 3, summary.TasksTotal)
	assert.LessOrEqual(t, summary.TasksCompleted, int64(summary.TasksTotal))
}

func TestDashboardUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.dashSvc.Summary(999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
