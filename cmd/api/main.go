// server/cmd/api/main.go
package main

import (
	"log"

	"car-rental-api-server/config"
	"car-rental-api-server/internal/api/routes"
	"car-rental-api-server/internal/auth"
	"car-rental-api-server/internal/database"
	"car-rental-api-server/internal/jobs"
	"car-rental-api-server/internal/locker"
	"car-rental-api-server/internal/s3"
	"car-rental-api-server/internal/socket"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	// 1. Load configuration (.env for local dev, then yaml + env vars)
	godotenv.Load()
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	auth.Init(cfg.JWT.Secret, cfg.JWT.Expiration)

	// 2. Connect MongoDB, ensure indexes, seed the admin account
	db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := database.SeedAdmin(db, cfg.Seed); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	// 3. Redis client backs the per-car booking lock
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	carLocker := locker.New(redisClient)

	// 4. S3 uploader for car photos
	s3Uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to create S3 uploader: %v", err)
	}

	// 5. WebSocket hub for the admin booking feed
	wsHub := socket.NewHub()

	// 6. Housekeeping cron (expire stale pending, complete overdue active)
	c := cron.New()
	if err := jobs.InitCronJobs(c, db, wsHub, cfg.Booking); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}
	defer c.Stop()

	// 7. Router and server
	router := routes.SetupRouter(db, carLocker, s3Uploader, wsHub)

	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
