package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOnboardingDone(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	u := createUser(t, db, "a@example.com")
	require.False(t, u.OnboardingDone)

	require.NoError(t, repo.SetOnboardingDone(u.ID))

	got, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.OnboardingDone)
}
