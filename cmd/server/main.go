package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/cache"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/fanout"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/handlers"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/handlers/ws"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/middleware"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/queue"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/repository"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/service"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/worker"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Chat Ingestion API",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis (used for the durable queue, fan-out and read cache)
	redisClient := connectRedis()

	commandQueue := buildQueue(redisClient)
	publisher, subscriber := buildFanout(redisClient)

	var historyCache *cache.HistoryCache
	if redisClient != nil {
		historyCache = cache.NewHistoryCache(cache.NewRedisCache(redisClient))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	deliveryRepo := repository.NewDeliveryStatusRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	channelService := service.NewChannelService(channelRepo)
	messageService := service.NewMessageService(messageRepo, deliveryRepo, channelRepo, commandQueue, historyCache)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(messageService, channelService, commandQueue)
	userHandler := handlers.NewUserHandler(userService)
	channelHandler := handlers.NewChannelHandler(channelService, wsHandler.GetHub())
	messageHandler := handlers.NewMessageHandler(messageService)

	// Bridge fan-out events into this server's websocket hub
	if subscriber != nil {
		if err := ws.StartBridge(ctx, subscriber, wsHandler.GetHub()); err != nil {
			log.Printf("WARNING: fan-out bridge failed to start: %v", err)
		}
	}

	// Optional in-process worker, for single-binary deployments
	if os.Getenv("RUN_WORKER") != "false" {
		ingestionWorker := worker.NewWorker(commandQueue, messageRepo, deliveryRepo, userRepo, publisher)
		go ingestionWorker.Run(ctx)
		log.Println("In-process ingestion worker started")
	}

	// API routes
	api := app.Group("/api/v1", middleware.OriginAllowed())

	api.Post("/users", userHandler.CreateUser)
	api.Get("/users", userHandler.GetUsers)
	api.Get("/users/:id", userHandler.GetUser)
	api.Get("/users/:id/channels", channelHandler.GetUserChannels)

	api.Post("/channels", channelHandler.CreateChannel)
	api.Get("/channels", channelHandler.GetChannels)
	api.Get("/channels/:id", channelHandler.GetChannel)
	api.Get("/channels/:id/members", channelHandler.GetMembers)
	api.Post("/channels/:id/members", channelHandler.JoinChannel)
	api.Delete("/channels/:id/members/:userID", channelHandler.LeaveChannel)
	api.Get("/channels/:id/messages", messageHandler.GetChannelMessages)
	api.Post("/channels/:id/read", messageHandler.MarkChannelRead)
	api.Get("/channels/:id/read-state", messageHandler.GetReadState)

	api.Post("/messages", limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}), messageHandler.SendMessage)
	api.Get("/messages/:id", messageHandler.GetMessage)
	api.Delete("/messages/:id", messageHandler.DeleteMessage)
	api.Get("/messages/:id/delivery", messageHandler.GetDeliveryStatus)

	api.Get("/queue/stats", messageHandler.QueueStats)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		func(c *fiber.Ctx) error {
			// Upgrade to WebSocket
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		depth, err := commandQueue.Length(c.Context())
		if err != nil {
			depth = -1
		}
		return c.JSON(fiber.Map{
			"status":      "ok",
			"queue_depth": depth,
			"connections": wsHandler.GetHub().Count(),
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func connectRedis() *redis.Client {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	client := cache.NewRedisClient(redisAddr, redisPassword, redisDB)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Falling back to in-memory queue, no cache.", err)
		return nil
	}
	log.Println("Redis connected successfully")
	return client
}

// buildQueue selects the command queue backend. Redis keeps commands across
// restarts; memory is for development and tests.
func buildQueue(redisClient *redis.Client) queue.Queue {
	driver := os.Getenv("QUEUE_DRIVER")
	if driver == "" {
		driver = "redis"
	}

	if driver == "redis" && redisClient != nil {
		log.Println("Using redis command queue")
		return queue.NewRedisQueue(redisClient)
	}
	log.Println("Using in-memory command queue")
	return queue.NewMemoryQueue()
}

// buildFanout selects the event backplane. With no broker available the
// publisher degrades to a logged no-op.
func buildFanout(redisClient *redis.Client) (fanout.Publisher, fanout.Subscriber) {
	driver := os.Getenv("FANOUT_DRIVER")
	if driver == "" {
		driver = "redis"
	}

	switch driver {
	case "nats":
		natsURL := os.Getenv("NATS_URL")
		if natsURL == "" {
			natsURL = nats.DefaultURL
		}
		conn, err := nats.Connect(natsURL)
		if err != nil {
			log.Printf("WARNING: NATS connection failed: %v. Fan-out disabled.", err)
			return fanout.NoopPublisher{}, nil
		}
		log.Println("Using NATS fan-out")
		return fanout.NewNatsPublisher(conn), fanout.NewNatsSubscriber(conn)
	case "redis":
		if redisClient != nil {
			log.Println("Using redis fan-out")
			return fanout.NewRedisPublisher(redisClient), fanout.NewRedisSubscriber(redisClient)
		}
		log.Println("Redis unavailable, fan-out disabled")
		return fanout.NoopPublisher{}, nil
	default:
		log.Println("Fan-out disabled")
		return fanout.NoopPublisher{}, nil
	}
}
