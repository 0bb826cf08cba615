package handler

import (
	"net/http"

	"dukani/internal/middleware"
	"dukani/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo *repository.UserRepository
}

func NewMeHandler(userRepo *repository.UserRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo}
}

// GetProfile returns the current user's account record.
func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// CompleteOnboarding marks the current user's onboarding walkthrough as done.
func (h *MeHandler) CompleteOnboarding(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.userRepo.SetOnboardingDone(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile update error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "onboarding completed"})
}
