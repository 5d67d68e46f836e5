package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	routes "github.com/swiftprep/swiftprep/internal/api"
	v1 "github.com/swiftprep/swiftprep/internal/api/v1"
	"github.com/swiftprep/swiftprep/internal/auth"
	"github.com/swiftprep/swiftprep/internal/config"
	"github.com/swiftprep/swiftprep/internal/db"
	"github.com/swiftprep/swiftprep/internal/models"
	"github.com/swiftprep/swiftprep/pkg/logger"
	"github.com/swiftprep/swiftprep/pkg/oss"
	storage "github.com/swiftprep/swiftprep/pkg/redis"
	"github.com/swiftprep/swiftprep/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	log, err := logger.NewLogger(logger.WithAppName("swiftprep"))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	redisClient, err := storage.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize Redis")
		panic(err)
	}
	defer redisClient.Close(log)

	gormDB, err := db.NewDB(ctx, cfg.DSN(), models.RegisterModels(), db.WithLogger(log))
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize PostgreSQL database")
		panic("DB init failed")
	}
	defer db.CloseDB(log)

	media, err := oss.NewStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize object storage")
		panic("Object storage init failed")
	}

	auth.SetSecret(cfg.JWTSecret)
	oauthProvider := auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.PublicURL)

	v1.Setup(gormDB, redisClient, log, media, oauthProvider)

	// Lecture uploads arrive as multipart bodies well above Fiber's 4MB default.
	app := fiber.New(fiber.Config{
		BodyLimit: 512 * 1024 * 1024,
	})
	routes.NewRoutes(app, cfg, gormDB, log, redisClient)

	go func() {
		<-ctx.Done()
		log.Info(context.Background()).Logs("Shutting down server")
		app.Shutdown()
	}()

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Error(context.Background()).WithMeta(utils.Map{"error": err.Error()}).Logs("Server stopped")
	}
}
