package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/cache"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/handlers"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/handlers/ws"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/middleware"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/repository"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/service"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/storage"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/validation"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	uploadMax := validation.UploadMaxBytes()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Virtual Study Mugen Backend",
		// Attachment limit plus multipart/base64 overhead.
		BodyLimit: int(uploadMax + uploadMax/2),
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
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

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	messageCache := cache.NewMessageCache(redisCache)

	// Initialize S3/MinIO storage (best-effort; image endpoints return 503 if missing)
	var s3Store *storage.S3Storage
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		s3Store = st
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	messageReadRepo := repository.NewMessageReadRepository(db)

	// Real-time hub; injected into services as the broadcast handle
	hub := ws.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	groupService := service.NewGroupService(groupRepo, userRepo, s3Store)
	messageService := service.NewMessageService(messageRepo, groupRepo, userRepo, messageCache, hub)
	readReceipts := service.NewReadReceiptService(messageRepo, messageReadRepo, groupRepo, messageCache, hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	groupHandler := handlers.NewGroupHandler(groupService)
	messageHandler := handlers.NewMessageHandler(messageService, readReceipts)
	uploadHandler := handlers.NewUploadHandler(uploadMax)
	mediaHandler := handlers.NewMediaHandler(s3Store)
	wsHandler := handlers.NewWebSocketHandler(hub, groupService, readReceipts)

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired())
	protected.Get("/auth/profile", authHandler.GetProfile)
	protected.Put("/auth/profile", authHandler.UpdateProfile)
	protected.Get("/auth/groups", groupHandler.GetMyGroups)

	protected.Post("/messages", messageHandler.SendMessage)
	protected.Put("/messages/:id", messageHandler.EditMessage)
	protected.Delete("/messages/:id", messageHandler.DeleteMessage)
	protected.Get("/messages/unread", messageHandler.GetUnreadCounts)
	protected.Get("/messages/:id/readers", messageHandler.GetMessageReaders)
	protected.Post("/upload", uploadHandler.Upload)
	protected.Get("/presence", wsHandler.Presence)

	protected.Post("/groups", groupHandler.CreateGroup)
	protected.Get("/groups/:id/members", groupHandler.GetGroupMembers)
	protected.Post("/groups/:id/join", groupHandler.JoinGroup)
	protected.Post("/groups/:id/leave", groupHandler.LeaveGroup)
	protected.Get("/groups/:id/messages", messageHandler.GetGroupMessages)
	protected.Post("/groups/:id/read", messageHandler.MarkGroupRead)
	protected.Post("/groups/:id/image", groupHandler.UploadGroupImage)
	protected.Get("/media/*", mediaHandler.GetGroupImage)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
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
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Virtual Study Mugen is running",
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
