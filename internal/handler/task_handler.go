package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dukani/internal/middleware"
	"dukani/internal/repository"
	"dukani/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskRepo *repository.TaskRepository
	taskSvc  *service.TaskService
}

func NewTaskHandler(taskRepo *repository.TaskRepository, taskSvc *service.TaskService) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo, taskSvc: taskSvc}
}

// ListCatalog returns the active task definitions in progression order.
func (h *TaskHandler) ListCatalog(c *gin.Context) {
	tasks, err := h.taskRepo.ListActiveOrdered()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task catalog error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// ListMine returns the current user's per-task progress in order.
func (h *TaskHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	progress, err := h.taskSvc.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task progress error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": progress})
}

// Start moves an available task to IN_PROGRESS.
func (h *TaskHandler) Start(c *gin.Context) {
	userID := middleware.GetUserID(c)
	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	ut, err := h.taskSvc.Start(userID, uint(taskID))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": ut})
}

type completeRequest struct {
	ProofURL string `json:"proof_url" binding:"max=512"`
}

// Complete submits a task completion, optionally with proof.
func (h *TaskHandler) Complete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	var req completeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	ut, err := h.taskSvc.Complete(userID, uint(taskID), req.ProofURL)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": ut})
}

// respondTaskError maps progression errors onto HTTP statuses, carrying the
// current state detail the client needs to render a useful message.
func respondTaskError(c *gin.Context, err error) {
	var se *service.StateError
	switch {
	case errors.Is(err, service.ErrProgressNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &se):
		body := gin.H{"error": se.Error(), "current_status": se.Current}
		if se.Required != "" {
			body["required_status"] = se.Required
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, service.ErrTaskNotAvailable),
		errors.Is(err, service.ErrInvalidTaskState),
		errors.Is(err, service.ErrTaskNotYetDue),
		errors.Is(err, service.ErrNotPendingVerification):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task error"})
	}
}
