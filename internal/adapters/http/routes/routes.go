package routes

import (
	"time"

	"masarify/internal/adapters/http/handlers"
	"masarify/internal/adapters/http/middleware"
	"masarify/internal/adapters/persistence/repositories"
	"masarify/internal/config"
	"masarify/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	shareRepo := repositories.NewShareRepository(db)
	roscaRepo := repositories.NewRoscaRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	expenseService := services.NewExpenseService(expenseRepo, categoryRepo)
	loanService := services.NewLoanService(loanRepo)
	shareService := services.NewShareService(shareRepo)
	roscaService := services.NewRoscaService(roscaRepo)
	dashboardService := services.NewDashboardService(db)
	notifyService := services.NewNotificationService()
	cronService := services.NewCronService(roscaService, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	loanHandler := handlers.NewLoanHandler(loanService)
	shareHandler := handlers.NewShareHandler(shareService)
	roscaHandler := handlers.NewRoscaHandler(roscaService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, stricter rate limit, never cached)
	auth := apiV1.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	// Auth routes (protected)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Everything below requires authentication
	protected := apiV1.Group("", middleware.AuthMiddleware(cfg))

	// User profile
	users := protected.Group("/users")
	users.Get("/profile", userHandler.GetProfile)
	users.Put("/profile", userHandler.UpdateProfile)
	users.Post("/change-password", userHandler.ChangePassword)

	// Expenses
	expenses := protected.Group("/expenses")
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/sum", expenseHandler.Sum)
	expenses.Get("/:id", expenseHandler.Get)
	expenses.Put("/:id", expenseHandler.Update)
	expenses.Delete("/:id", expenseHandler.Delete)

	// Expense categories (list changes rarely, cacheable)
	categories := protected.Group("/categories")
	categories.Get("/", middleware.CategoryCache(), expenseHandler.ListCategories)
	categories.Post("/", expenseHandler.CreateCategory)

	// Loans
	loans := protected.Group("/loans")
	loans.Post("/", loanHandler.Create)
	loans.Get("/", loanHandler.List)
	loans.Patch("/:id/status", loanHandler.UpdateStatus)
	loans.Delete("/:id", loanHandler.Delete)

	// Share purchases
	shares := protected.Group("/shares")
	shares.Post("/", shareHandler.Create)
	shares.Get("/", shareHandler.List)
	shares.Delete("/:id", shareHandler.Delete)

	// Roscas
	roscas := protected.Group("/roscas")
	roscas.Post("/", roscaHandler.Create)
	roscas.Get("/", roscaHandler.List)
	roscas.Get("/:id", roscaHandler.Get)
	roscas.Put("/:id/settings", roscaHandler.UpdateSettings)
	roscas.Delete("/:id", roscaHandler.Delete)
	roscas.Post("/:id/participants", roscaHandler.AddParticipant)
	roscas.Get("/:id/participants", roscaHandler.ListParticipants)
	roscas.Post("/:id/payments", roscaHandler.AddPayment)
	roscas.Get("/:id/payments", roscaHandler.ListPayments)
	roscas.Get("/:id/stats", roscaHandler.Stats)
	roscas.Get("/:id/turns/draft", roscaHandler.BeginArrangement)
	roscas.Put("/:id/turns", roscaHandler.SaveTurns)
	roscas.Get("/:id/turns", roscaHandler.ListTurns)
	roscas.Patch("/:id/turns/:turnId/complete", roscaHandler.CompleteTurn)

	// Dashboard (short private cache)
	protected.Get("/dashboard", middleware.PrivateCacheHeaders(30*time.Second), dashboardHandler.Get)

	return cronService
}
