package handler

import (
	"net/http"
	"strconv"

	"dukani/internal/middleware"
	"dukani/internal/repository"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	coinRepo *repository.CoinRepository
	pageSize int
}

func NewWalletHandler(coinRepo *repository.CoinRepository, pageSize int) *WalletHandler {
	return &WalletHandler{coinRepo: coinRepo, pageSize: pageSize}
}

// GetBalance returns the current user's coin balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	balance, err := h.coinRepo.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coin_balance": balance})
}

// GetTransactions returns the user's ledger history, newest first.
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.pageSize)))
	if size < 1 || size > 200 {
		size = h.pageSize
	}
	list, total, err := h.coinRepo.History(userID, size, (page-1)*size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": list,
		"total":        total,
		"page":         page,
		"page_size":    size,
	})
}
