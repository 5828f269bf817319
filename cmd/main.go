package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civiport/backend/internal/api/handler"
	"civiport/backend/internal/complaint"
	"civiport/backend/internal/eventhub"
	"civiport/backend/internal/localization"
	"civiport/backend/internal/models"
	"civiport/backend/internal/notify"
	"civiport/backend/internal/storage"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "user"),
		envOr("DB_PASSWORD", "password"),
		envOr("DB_NAME", "civiportdb"),
		envOr("DB_PORT", "5432"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis (daily activity counters)
	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Migrations
	if err := db.AutoMigrate(&models.User{}, &models.Complaint{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Civiport Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set!")
	}

	// 1. Dependencies
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	// 2. Event hub (the realtime fan-out for complaint status updates)
	hub := eventhub.NewHub()

	// 3. Optional staff notifications via Telegram
	var notifier complaint.Notifier
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_STAFF_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatalf("TELEGRAM_STAFF_CHAT_ID is missing or invalid: %v", err)
		}
		localizer, err := localization.NewLocalizer(envOr("LOCALE_DIR", "internal/localization"))
		if err != nil {
			log.Fatalf("Failed to load localization catalogs: %v", err)
		}
		tg, err := notify.NewTelegramNotifier(token, chatID, localizer, envOr("NOTIFY_LANG", localization.DefaultLang))
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		notifier = tg
	}

	svc := complaint.NewService(s, hub, notifier)

	// 4. Core goroutine
	go hub.Run()

	// 5. Gin routing
	r := gin.Default()
	h := handler.NewHandler(hub, s, svc, []byte(jwtSecret))

	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)

	auth := r.Group("/api", h.RequireAuth)
	auth.POST("/complaints", h.FileComplaint)
	auth.GET("/complaints/user/:id", h.ListUserComplaints)

	admin := auth.Group("", h.RequireAdmin)
	admin.GET("/complaints/all", h.ListAllComplaints)
	admin.PATCH("/complaints/status/:id", h.UpdateComplaintStatus)
	admin.GET("/complaints/export", h.ExportComplaintsCSV)
	admin.GET("/activity/:metric", h.DailyActivity)

	r.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:           ":" + envOr("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
