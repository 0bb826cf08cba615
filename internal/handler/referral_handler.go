package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dukani/internal/middleware"
	"dukani/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralSvc *service.ReferralService
}

func NewReferralHandler(referralSvc *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// GetCode returns the user's referral code, generating one on first request.
func (h *ReferralHandler) GetCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	code, err := h.referralSvc.GenerateCode(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "referral code error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referral_code": code})
}

// ListMine returns the referrals the user has brought in.
func (h *ReferralHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	list, err := h.referralSvc.ListForReferrer(userID, 50, (page-1)*50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "referral error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list, "page": page})
}

// Claim pays the one-time referral bonus to the referrer.
func (h *ReferralHandler) Claim(c *gin.Context) {
	userID := middleware.GetUserID(c)
	referralID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral id"})
		return
	}
	ct, err := h.referralSvc.ClaimBonus(userID, uint(referralID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReferralNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotYourReferral):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyClaimed),
			errors.Is(err, service.ErrReferredTaskIncomplete):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claim failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": ct})
}
