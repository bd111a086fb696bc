package server

import (
	"github.com/labstack/echo/v4"

	"example.com/finance-tracker/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	transactionHandler *handlers.TransactionHandler,
	categoryHandler *handlers.CategoryHandler,
	assetHandler *handlers.AssetHandler,
	debtHandler *handlers.DebtHandler,
	accountHandler *handlers.AccountHandler,
	recurringHandler *handlers.RecurringHandler,
	goalHandler *handlers.GoalHandler,
	reportHandler *handlers.ReportHandler,
	notificationHandler *handlers.NotificationHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)
	authGroup.PATCH("/me", authHandler.UpdateMe, authMiddleware)

	transactions := api.Group("/transactions", authMiddleware)
	transactions.GET("", transactionHandler.List)
	transactions.POST("", transactionHandler.Create)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	categories := api.Group("/categories", authMiddleware)
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	assets := api.Group("/assets", authMiddleware)
	assets.GET("", assetHandler.List)
	assets.POST("", assetHandler.Create)
	assets.PUT("/:id", assetHandler.Update)
	assets.PATCH("/:id/deactivate", assetHandler.Deactivate)

	debts := api.Group("/debts", authMiddleware)
	debts.GET("", debtHandler.List)
	debts.POST("", debtHandler.Create)
	debts.PUT("/:id", debtHandler.Update)
	debts.POST("/:id/payments", debtHandler.RecordPayment)
	debts.PATCH("/:id/paid", debtHandler.MarkPaid)
	debts.DELETE("/:id", debtHandler.Delete)

	accounts := api.Group("/accounts", authMiddleware)
	accounts.GET("", accountHandler.List)
	accounts.POST("", accountHandler.Create)
	accounts.PUT("/:id", accountHandler.Update)
	accounts.PATCH("/:id/deactivate", accountHandler.Deactivate)

	incomeSources := api.Group("/income-sources", authMiddleware)
	incomeSources.GET("", recurringHandler.ListIncomeSources)
	incomeSources.POST("", recurringHandler.CreateIncomeSource)
	incomeSources.PUT("/:id", recurringHandler.UpdateIncomeSource)
	incomeSources.DELETE("/:id", recurringHandler.DeleteIncomeSource)

	recurringExpenses := api.Group("/recurring-expenses", authMiddleware)
	recurringExpenses.GET("", recurringHandler.ListRecurringExpenses)
	recurringExpenses.POST("", recurringHandler.CreateRecurringExpense)
	recurringExpenses.PUT("/:id", recurringHandler.UpdateRecurringExpense)
	recurringExpenses.DELETE("/:id", recurringHandler.DeleteRecurringExpense)

	goals := api.Group("/goals", authMiddleware)
	goals.GET("", goalHandler.List)
	goals.POST("", goalHandler.Create)
	goals.PUT("/:id", goalHandler.Update)
	goals.DELETE("/:id", goalHandler.Delete)

	reports := api.Group("/reports", authMiddleware)
	reports.GET("/income-statement", reportHandler.IncomeStatement)
	reports.GET("/balance-sheet", reportHandler.BalanceSheet)
	reports.GET("/cash-flow", reportHandler.CashFlow)
	reports.GET("/budget-summary", reportHandler.BudgetSummary)
	reports.GET("/kpis", reportHandler.KPIs)
	reports.GET("/dashboard", reportHandler.Dashboard)
	reports.GET("/snapshots", reportHandler.ListSnapshots)
	reports.POST("/snapshots", reportHandler.CreateSnapshot)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)
}
