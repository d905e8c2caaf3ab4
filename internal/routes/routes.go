package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/rdua-dev/sadhana-tracker/internal/auth"
	"github.com/rdua-dev/sadhana-tracker/internal/handlers"
	"github.com/rdua-dev/sadhana-tracker/internal/middleware"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/rdua-dev/sadhana-tracker/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	sadhanaHandler *handlers.SadhanaHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	userHandler *handlers.UserHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
) {
	// Rate limiting config for auth endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public auth routes
	router.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(rateLimitConfig))

			r.Post("/register-user", authHandler.Register)
			r.Post("/login-user", authHandler.Login)
			r.Get("/verify-user", authHandler.VerifyUser)
			r.Post("/resend-verification", authHandler.ResendVerification)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password/{token}", authHandler.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager))
			r.Post("/logout-user", authHandler.Logout)
		})
	})

	// Daily practice logs and monthly goals
	router.Route("/sadhna", func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Post("/create-sadhna", sadhanaHandler.CreateSadhna)
		r.Get("/get-sadhna", sadhanaHandler.GetSadhna)
		r.Get("/check-daily-goals", sadhanaHandler.CheckDailyGoals)
		r.Put("/set-daily-goals", sadhanaHandler.SetDailyGoals)
	})

	// Live Ekadashi rounds board
	router.Route("/live", func(r chi.Router) {
		r.Get("/live-ekadashi-rounds", leaderboardHandler.GetLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager))
			r.Post("/add-rounds", leaderboardHandler.AddRounds)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRoles(userRepo, models.RoleAdmin, models.RoleSuperadmin))
				r.Delete("/delete-all-rounds", leaderboardHandler.DeleteAllRounds)
			})
		})
	})

	// User accounts
	router.Route("/user", func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Get("/get-user", userHandler.GetUser)
		r.Put("/update-user", userHandler.UpdateUser)
		r.Delete("/delete-user", userHandler.DeleteUser)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(userRepo, models.RoleAdmin, models.RoleSuperadmin))
			r.Get("/getAllUsers", userHandler.GetAllUsers)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(userRepo, models.RoleSuperadmin))
			r.Put("/update-role", userHandler.UpdateRole)
		})
	})
}
