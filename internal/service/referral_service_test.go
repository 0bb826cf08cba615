package service

import (
	"testing"

	"dukani/internal/domain"
	"dukani/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeIsStable(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "a@example.com")

	code, err := f.referralSvc.GenerateCode(u.ID)
	require.NoError(t, err)
	assert.Len(t, code, 8)

	again, err := f.referralSvc.GenerateCode(u.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestRegisterReferralGuards(t *testing.T) {
	f := newFixture(t)
	referrer := f.createUser(t, "referrer@example.com")
	code, err := f.referralSvc.GenerateCode(referrer.ID)
	require.NoError(t, err)
	other := f.createUser(t, "other@example.com")

	_, err = f.referralSvc.RegisterReferral("nope1234", other.ID)
	assert.ErrorIs(t, err, ErrInvalidReferralCode)

	_, err = f.referralSvc.RegisterReferral(code, referrer.ID)
	assert.ErrorIs(t, err, ErrSelfReferral)

	ref, err := f.referralSvc.RegisterReferral(code, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralStatusRegistered, ref.Status)
	assert.Equal(t, referrer.ID, ref.ReferrerID)

	// A user can only ever be referred once, whatever code is used.
	secondReferrer := f.createUser(t, "second@example.com")
	code2, err := f.referralSvc.GenerateCode(secondReferrer.ID)
	require.NoError(t, err)
	_, err = f.referralSvc.RegisterReferral(code2, other.ID)
	assert.ErrorIs(t, err, ErrAlreadyReferred)
}

func TestAdvanceOnFirstTaskCompletionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	referrer := f.createUser(t, "referrer@example.com")
	code, _ := f.referralSvc.GenerateCode(referrer.ID)
	referred := f.createUser(t, "referred@example.com")
	_, err := f.referralSvc.RegisterReferral(code, referred.ID)
	require.NoError(t, err)

	require.NoError(t, f.referralSvc.AdvanceOnFirstTaskCompletion(referred.ID))
	require.NoError(t, f.referralSvc.AdvanceOnFirstTaskCompletion(referred.ID))
	// Unknown user is a no-op too.
	require.NoError(t, f.referralSvc.AdvanceOnFirstTaskCompletion(9999))

	ref, err := f.refRepo.GetByReferredUserID(referred.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralStatusCompletedFirstTask, ref.Status)
}

func TestClaimBonusLifecycle(t *testing.T) {
	f := newFixture(t)
	referrer := f.createUser(t, "referrer@example.com")
	code, _ := f.referralSvc.GenerateCode(referrer.ID)
	referred := f.createUser(t, "referred@example.com")
	ref, err := f.referralSvc.RegisterReferral(code, referred.ID)
	require.NoError(t, err)

	// Referred user has not finished their first task yet.
	_, err = f.referralSvc.ClaimBonus(referrer.ID, ref.ID)
	assert.ErrorIs(t, err, ErrReferredTaskIncomplete)

	require.NoError(t, f.referralSvc.AdvanceOnFirstTaskCompletion(referred.ID))

	// Only the referrer may claim.
	stranger := f.createUser(t, "stranger@example.com")
	_, err = f.referralSvc.ClaimBonus(stranger.ID, ref.ID)
	assert.ErrorIs(t, err, ErrNotYourReferral)

	ct, err := f.referralSvc.ClaimBonus(referrer.ID, ref.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, ct.Amount)
	assert.Equal(t, domain.CoinTxTypeReferralBonus, ct.Type)

	balance, _ := f.coinRepo.Balance(referrer.ID)
	assert.EqualValues(t, 100, balance)

	claimed, err := f.refRepo.GetByID(ref.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralStatusRewardGiven, claimed.Status)
	assert.True(t, claimed.RewardClaimed)
	assert.EqualValues(t, 100, claimed.CoinReward)
	assert.NotNil(t, claimed.ClaimedAt)

	// A second claim fails and pays nothing.
	_, err = f.referralSvc.ClaimBonus(referrer.ID, ref.ID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	var count int64
	f.db.Model(&models.CoinTransaction{}).
		Where("user_id = ? AND type = ?", referrer.ID, domain.CoinTxTypeReferralBonus).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestClaimBonusUnknownReferral(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "a@example.com")
	_, err := f.referralSvc.ClaimBonus(u.ID, 404)
	assert.ErrorIs(t, err, ErrReferralNotFound)
}

func TestBonusAmountComesFromSettings(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&models.SystemSetting{
		Key:   domain.SettingReferralBonusCoins,
		Value: "250",
	}).Error)

	referrer := f.createUser(t, "referrer@example.com")
	code, _ := f.referralSvc.GenerateCode(referrer.ID)
	referred := f.createUser(t, "referred@example.com")
	ref, err := f.referralSvc.RegisterReferral(code, referred.ID)
	require.NoError(t, err)
	require.NoError(t, f.referralSvc.AdvanceOnFirstTaskCompletion(referred.ID))

	ct, err := f.referralSvc.ClaimBonus(referrer.ID, ref.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 250, ct.Amount)
}
