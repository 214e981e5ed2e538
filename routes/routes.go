package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/handlers"
	"github.com/fintrack/fintrack-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupLedgerRoutes sets up accounts, categories and transactions.
func SetupLedgerRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	accountHandler := &handlers.AccountHandler{DB: db, WS: ws}
	categoryHandler := &handlers.CategoryHandler{DB: db, WS: ws}
	transactionHandler := &handlers.TransactionHandler{DB: db, WS: ws}

	rg.GET("/accounts", accountHandler.List)
	rg.POST("/accounts", accountHandler.Create)
	rg.PUT("/accounts/:id", accountHandler.Update)
	rg.DELETE("/accounts/:id", accountHandler.Delete)

	rg.GET("/categories", categoryHandler.List)
	rg.POST("/categories", categoryHandler.Create)
	rg.DELETE("/categories/:id", categoryHandler.Delete)

	rg.GET("/transactions", transactionHandler.List)
	rg.POST("/transactions", transactionHandler.Create)
	rg.PUT("/transactions/:id", transactionHandler.Update)
	rg.DELETE("/transactions/:id", transactionHandler.Delete)
	rg.GET("/transactions/export", transactionHandler.ExportCSV)
}

// SetupPlanningRoutes sets up budgets, goals and debts.
func SetupPlanningRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	budgetHandler := &handlers.BudgetHandler{DB: db, WS: ws}
	goalHandler := &handlers.GoalHandler{DB: db, WS: ws}
	debtHandler := &handlers.DebtHandler{DB: db, WS: ws}

	rg.GET("/budgets", budgetHandler.List)
	rg.POST("/budgets", budgetHandler.Create)
	rg.PUT("/budgets/:id", budgetHandler.Update)
	rg.DELETE("/budgets/:id", budgetHandler.Delete)

	rg.GET("/goals", goalHandler.List)
	rg.POST("/goals", goalHandler.Create)
	rg.POST("/goals/:id/contribute", goalHandler.Contribute)
	rg.DELETE("/goals/:id", goalHandler.Delete)

	rg.GET("/debts", debtHandler.List)
	rg.POST("/debts", debtHandler.Create)
	rg.PUT("/debts/:id", debtHandler.Update)
	rg.DELETE("/debts/:id", debtHandler.Delete)
	rg.GET("/debts/plan", debtHandler.Plan)
	rg.GET("/debts/:id/payments", debtHandler.ListPayments)
	rg.POST("/debts/:id/payments", debtHandler.RecordPayment)
}

// SetupAnalyticsRoutes sets up the dashboard, the health score and the
// AI insight feed.
func SetupAnalyticsRoutes(rg *gin.RouterGroup, db *sql.DB) {
	claude := services.NewClaudeAIService()
	dashboardHandler := &handlers.DashboardHandler{DB: db}
	healthHandler := &handlers.HealthScoreHandler{DB: db}
	insightHandler := &handlers.InsightHandler{
		DB:       db,
		Insights: services.NewInsightService(db, claude),
		Claude:   claude,
	}

	rg.GET("/dashboard/stats", dashboardHandler.Stats)
	rg.GET("/dashboard/spending", dashboardHandler.SpendingByCategory)
	rg.GET("/dashboard/trends", dashboardHandler.Trends)

	rg.GET("/health-score", healthHandler.Get)

	rg.GET("/insights", insightHandler.List)
	rg.POST("/insights/generate", insightHandler.Generate)
	rg.POST("/insights/:id/dismiss", insightHandler.Dismiss)
	rg.POST("/insights/chat", insightHandler.Chat)
}
