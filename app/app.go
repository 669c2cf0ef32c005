// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bytebank-api/config"
	"bytebank-api/db"
	"bytebank-api/handler"
	"bytebank-api/logger"
	"bytebank-api/repository"
	"bytebank-api/router"
	"bytebank-api/service"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	// Repositories, services, and handlers are created here and injected
	// downwards; nothing below this block reaches for globals.

	// Layers for operator users
	userRepo := repository.NewUserRepository(database)
	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService)

	// Layers for accounts
	accountRepo := repository.NewAccountRepository(database)
	accountService := service.NewAccountService(accountRepo, redisClient)
	accountHandler := handler.NewAccountHandler(accountService)

	r := router.NewRouter(userHandler, accountHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// TestApp bundles the wired application pieces for integration tests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

// NewTestApp wires the full stack against the given database and Redis
// client, skipping server startup. Intended for tests only.
func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	userRepo := repository.NewUserRepository(database)
	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService)

	accountRepo := repository.NewAccountRepository(database)
	accountService := service.NewAccountService(accountRepo, redisClient)
	accountHandler := handler.NewAccountHandler(accountService)

	return &TestApp{
		DB:     database,
		Router: router.NewRouter(userHandler, accountHandler),
	}
}
