package api

import (
	"net/http"
	"time"

	"algopulse/internal/api/handler"
	"algopulse/internal/app/service"
	"algopulse/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	syncService *service.SyncService,
	winnerService *service.WinnerService,
	problemService *service.ProblemService,
	discussionService *service.DiscussionService,
	notificationService *service.NotificationService,
	maintenanceService *service.MaintenanceService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies token when present, puts claims in context. Protected
	// groups add the Authenticator on top.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		api.Route("/auth", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService, syncService, winnerService)
		api.Route("/users", userHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(problemService)
		api.Route("/problems", problemHandler.RegisterRoutes)

		discussionHandler := handler.NewDiscussionHandler(discussionService)
		api.Route("/discussions", discussionHandler.RegisterRoutes)

		notificationHandler := handler.NewNotificationHandler(notificationService)
		api.Route("/notifications", notificationHandler.RegisterRoutes)

		maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService)
		api.Route("/maintenance", maintenanceHandler.RegisterRoutes)
	})

	return r
}
