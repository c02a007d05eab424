package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/haidave/everbase-sync-engine/internal/adapters/cache"
	adapterHTTP "github.com/haidave/everbase-sync-engine/internal/adapters/handler/http"
	"github.com/haidave/everbase-sync-engine/internal/adapters/repository"
	"github.com/haidave/everbase-sync-engine/internal/core/domain"
	"github.com/haidave/everbase-sync-engine/internal/core/services"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is required")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rdb, err := cache.NewRedisClient(cache.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	completionRepo := repository.NewPostgresCompletionRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	var boardRepo domain.BoardItemRepository = repository.NewPostgresBoardItemRepository(db)
	if rdb != nil {
		boardRepo = repository.NewCachedBoardItemRepository(boardRepo, rdb)
	}

	tokenService := services.NewTokenService(jwtSecret, getEnv("JWT_ISSUER", "everbase"), 24*time.Hour)
	authService := services.NewAuthService(userRepo, tokenService)
	completionService := services.NewCompletionService(completionRepo)
	streakService := services.NewStreakService(completionRepo)
	boardService := services.NewBoardService(boardRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService),
		CompletionHandler: adapterHTTP.NewCompletionHandler(completionService, streakService),
		BoardHandler:      adapterHTTP.NewBoardHandler(boardService),
		TokenService:      tokenService,
		DB:                db,
		Redis:             rdb,
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Everbase Sync Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
