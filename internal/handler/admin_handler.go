package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dukani/internal/domain"
	"dukani/internal/models"
	"dukani/internal/repository"
	"dukani/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	taskRepo     *repository.TaskRepository
	taskSvc      *service.TaskService
	userTaskRepo *repository.UserTaskRepository
	coinRepo     *repository.CoinRepository
	settingRepo  *repository.SettingRepository
	userRepo     *repository.UserRepository
}

func NewAdminHandler(
	taskRepo *repository.TaskRepository,
	taskSvc *service.TaskService,
	userTaskRepo *repository.UserTaskRepository,
	coinRepo *repository.CoinRepository,
	settingRepo *repository.SettingRepository,
	userRepo *repository.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		taskRepo:     taskRepo,
		taskSvc:      taskSvc,
		userTaskRepo: userTaskRepo,
		coinRepo:     coinRepo,
		settingRepo:  settingRepo,
		userRepo:     userRepo,
	}
}

type taskRequest struct {
	Name                 string `json:"name" binding:"required,max=100"`
	Description          string `json:"description"`
	CoinReward           int64  `json:"coin_reward" binding:"min=0"`
	TaskType             string `json:"task_type" binding:"required,max=30"`
	DelayHours           int    `json:"delay_hours" binding:"min=0"`
	OrderIndex           int    `json:"order_index"`
	IsActive             *bool  `json:"is_active"`
	VerificationRequired bool   `json:"verification_required"`
}

func (h *AdminHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task catalog error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *AdminHandler) CreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	t := &models.Task{
		Name:                 req.Name,
		Description:          req.Description,
		CoinReward:           req.CoinReward,
		TaskType:             req.TaskType,
		DelayHours:           req.DelayHours,
		OrderIndex:           req.OrderIndex,
		IsActive:             active,
		VerificationRequired: req.VerificationRequired,
	}
	if err := h.taskRepo.Create(t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create task (order index must be unique)"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": t})
}

func (h *AdminHandler) UpdateTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	t, err := h.taskRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t.Name = req.Name
	t.Description = req.Description
	t.CoinReward = req.CoinReward
	t.TaskType = req.TaskType
	t.DelayHours = req.DelayHours
	t.OrderIndex = req.OrderIndex
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	t.VerificationRequired = req.VerificationRequired
	if err := h.taskRepo.Update(t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not update task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

func (h *AdminHandler) DeleteTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	if err := h.taskRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListVerifications returns submissions waiting for review, oldest first.
func (h *AdminHandler) ListVerifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	list, err := h.userTaskRepo.ListPendingVerification(50, (page-1)*50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification queue error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": list, "page": page})
}

type verifyRequest struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes" binding:"max=512"`
}

// ResolveVerification approves or rejects a PENDING_VERIFY submission.
func (h *AdminHandler) ResolveVerification(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_task_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user task id"})
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ut, err := h.taskSvc.Verify(uint(id), req.Approved, req.Notes)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": ut})
}

type adjustRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"` // positive credits, negative debits
	Description string `json:"description" binding:"required,max=255"`
}

// AdjustCoins credits or debits a user's balance through the ledger, so the
// adjustment shows up in the audit trail like any other transaction.
func (h *AdminHandler) AdjustCoins(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var ct *models.CoinTransaction
	var err error
	if req.Amount > 0 {
		ct, err = h.coinRepo.Award(req.UserID, req.Amount, domain.CoinTxTypeAdminAdjust, req.Description, nil, "")
	} else {
		ct, err = h.coinRepo.Deduct(req.UserID, -req.Amount, domain.CoinTxTypeAdminAdjust, req.Description, nil, "")
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientBalance):
			balance, _ := h.coinRepo.Balance(req.UserID)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"balance":   balance,
				"requested": -req.Amount,
			})
		case errors.Is(err, repository.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "adjustment failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": ct})
}

// ListTransactions returns the ledger across all users.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	list, err := h.coinRepo.ListAll(50, (page-1)*50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "page": page})
}

// ListProgress returns task progress across all users.
func (h *AdminHandler) ListProgress(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	list, err := h.userTaskRepo.ListAll(100, (page-1)*100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "progress error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": list, "page": page})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	list, err := h.settingRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

type settingRequest struct {
	Key   string `json:"key" binding:"required,max=100"`
	Value string `json:"value" binding:"required,max=255"`
}

func (h *AdminHandler) PutSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// ListUsers returns registered users (admin view).
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	list, err := h.userRepo.List(100, (page-1)*100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user listing error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list, "page": page})
}
