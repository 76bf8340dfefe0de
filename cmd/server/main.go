package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"algopulse/internal/api"
	"algopulse/internal/app/leetcode"
	"algopulse/internal/app/service"
	appsync "algopulse/internal/app/sync"
	"algopulse/internal/app/worker"
	"algopulse/internal/common/security"
	"algopulse/internal/domain/repository"
	"algopulse/internal/platform/cache"
	"algopulse/internal/platform/config"
	"algopulse/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	winnerRepo := repository.NewPgWinnerRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	discussionRepo := repository.NewPgDiscussionRepository(database.DB)
	notificationRepo := repository.NewPgNotificationRepository(database.DB)

	// 6. Initialize Services
	cfg := config.AppConfig
	lbCache := service.NewLeaderboardCache(cache.RDB, cfg.LeaderboardCacheTTL)
	statsClient := leetcode.NewClient(cfg.LeetCodeGraphQLURL, cfg.LeetCodeTimeout)
	engine := appsync.NewEngine(appsync.DefaultScoring)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, lbCache)
	syncService := service.NewSyncService(userRepo, statsClient, engine, lbCache, cfg.SyncWriteRetries, cfg.SyncFanout)
	winnerService := service.NewWinnerService(winnerRepo, userRepo)
	problemService := service.NewProblemService(problemRepo)
	discussionService := service.NewDiscussionService(discussionRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	maintenanceService := service.NewMaintenanceService(userRepo, lbCache, cfg.DailyPenaltyPoints, cfg.SyncFanout)

	// 7. Start Scheduler (as a goroutine)
	scheduler := worker.NewScheduler(cache.RDB, syncService, maintenanceService, cfg.SyncInterval)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go scheduler.Start(workerCtx)
	fmt.Println("Scheduler started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		userService,
		syncService,
		winnerService,
		problemService,
		discussionService,
		notificationService,
		maintenanceService,
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal scheduler to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and scheduler stopped gracefully.")
}
