package main

import (
	"fmt"
	"log"
	"os"
	"time"

	apirouter "country_chat_service/internal/api/router"

	"country_chat_service/internal/api/handlers"
	chatapp "country_chat_service/internal/chat/app"
	chatrepository "country_chat_service/internal/chat/repository"
	chatrouter "country_chat_service/internal/chat/router"
	presenceapp "country_chat_service/internal/presence/app"
	presencerepository "country_chat_service/internal/presence/repository"
	userrepository "country_chat_service/internal/user/repository"
	"country_chat_service/pkg/config"
	"country_chat_service/pkg/database"
	"country_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatBackend, config.EnvConfig.ChatBackendLogPath)
	if config.IsLocal() {
		logger.Log.SetDebugMode(true)
	}
	cfg := config.LoadConfig[config.ChatBackend](config.EnvConfig.ChatBackend, config.EnvConfig.ChatBackendYAMLPath)

	// 1. PostgreSQL, gorm session for the membership relations
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	db, err := database.NewPGConnection(database.Connection{
		ConnectStr: dsn,

		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", dsn)),
			zap.Error(err),
		)
	}

	// pgx pool for the externally owned user rows
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr: fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database),

		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect postgreSQL pool err : %v", err))
	}
	defer pool.Close()

	// 2. Redis, presence store and pub/sub broadcaster
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 3. repositories
	membershipRepo := chatrepository.NewMembershipRepository(db)
	if err := membershipRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal(fmt.Sprintf("migrate membership relations err : %v", err))
	}
	userRepo := userrepository.NewUserRepository(pool)
	presenceStore := presencerepository.NewRedisPresenceStore(redisClient, cfg.Presence.KeyPrefix)
	pubsub := chatrepository.NewRedisPubSub(redisClient)

	// 4. use cases
	presenceTTL := time.Duration(cfg.Presence.TTLMinutes) * time.Minute
	presenceUC := presenceapp.NewPresenceUseCase(presenceStore, userRepo, pubsub, presenceTTL)
	engine := chatapp.NewChatEventEngine(membershipRepo, pubsub)

	// 5. fiber
	r := fiber.New(fiber.Config{
		DisableStartupMessage: config.IsProduction(),
	})
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatBackendLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	apirouter.RegisterRoutes(r, handlers.NewPresenceHandler(presenceUC))
	chatrouter.RegisterRoutes(r, chatapp.NewChatWebsocketHandler(engine, presenceUC, pubsub))

	port := cfg.Port
	if port == "" {
		port = config.EnvConfig.ChatBackendPort
	}
	port = ":" + port
	log.Printf("Chat backend listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
