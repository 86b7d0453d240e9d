package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/cache"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/fanout"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/queue"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/repository"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/worker"
)

// The standalone worker drains the durable command queue. It requires
// redis: an in-memory queue is invisible to a separate process.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}
	redisClient := cache.NewRedisClient(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis is required for the standalone worker:", err)
	}

	messageRepo := repository.NewMessageRepository(db)
	deliveryRepo := repository.NewDeliveryStatusRepository(db)
	userRepo := repository.NewUserRepository(db)

	var publisher fanout.Publisher = fanout.NoopPublisher{}
	switch os.Getenv("FANOUT_DRIVER") {
	case "nats":
		natsURL := os.Getenv("NATS_URL")
		if natsURL == "" {
			natsURL = nats.DefaultURL
		}
		conn, err := nats.Connect(natsURL)
		if err != nil {
			log.Printf("WARNING: NATS connection failed: %v. Fan-out disabled.", err)
		} else {
			publisher = fanout.NewNatsPublisher(conn)
		}
	case "none":
	default:
		publisher = fanout.NewRedisPublisher(redisClient)
	}

	ingestionWorker := worker.NewWorker(queue.NewRedisQueue(redisClient), messageRepo, deliveryRepo, userRepo, publisher)

	log.Println("Ingestion worker started")
	ingestionWorker.Run(ctx)
	log.Println("Ingestion worker stopped")
}
