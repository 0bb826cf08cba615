package router

import (
	"time"

	"dukani/config"
	"dukani/internal/handler"
	"dukani/internal/middleware"
	"dukani/internal/repository"
	"dukani/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userTaskRepo := repository.NewUserTaskRepository(db)
	coinRepo := repository.NewCoinRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Services
	taskSvc := service.NewTaskService(db, taskRepo, userTaskRepo, coinRepo, referralRepo)
	referralSvc := service.NewReferralService(db, referralRepo, coinRepo, settingRepo, cfg.Rewards)
	authSvc := service.NewAuthService(cfg, userRepo, coinRepo, settingRepo, taskSvc, referralSvc)
	dashboardSvc := service.NewDashboardService(userRepo, userTaskRepo, taskRepo, coinRepo, referralRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(coinRepo, cfg.Rewards.HistoryPageSize)
	taskHandler := handler.NewTaskHandler(taskRepo, taskSvc)
	referralHandler := handler.NewReferralHandler(referralSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	adminHandler := handler.NewAdminHandler(taskRepo, taskSvc, userTaskRepo, coinRepo, settingRepo, userRepo)
	meHandler := handler.NewMeHandler(userRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/tasks", authMw, taskHandler.ListCatalog)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.POST("/onboarding", meHandler.CompleteOnboarding)
			me.GET("/wallet", walletHandler.GetBalance)
			me.GET("/wallet/transactions", walletHandler.GetTransactions)
			me.GET("/dashboard", dashboardHandler.Get)
			me.GET("/tasks", taskHandler.ListMine)
			me.POST("/tasks/:task_id/start", taskHandler.Start)
			me.POST("/tasks/:task_id/complete", taskHandler.Complete)
			me.GET("/referral-code", referralHandler.GetCode)
			me.GET("/referrals", referralHandler.ListMine)
			me.POST("/referrals/:id/claim", referralHandler.Claim)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/tasks", adminHandler.ListTasks)
			admin.POST("/tasks", adminHandler.CreateTask)
			admin.PUT("/tasks/:id", adminHandler.UpdateTask)
			admin.DELETE("/tasks/:id", adminHandler.DeleteTask)
			admin.GET("/verifications", adminHandler.ListVerifications)
			admin.POST("/verifications/:user_task_id", adminHandler.ResolveVerification)
			admin.POST("/coins/adjust", adminHandler.AdjustCoins)
			admin.GET("/transactions", adminHandler.ListTransactions)
			admin.GET("/progress", adminHandler.ListProgress)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.PutSetting)
			admin.GET("/users", adminHandler.ListUsers)
		}
	}

	return r
}
