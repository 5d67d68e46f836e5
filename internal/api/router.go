package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	v1 "github.com/swiftprep/swiftprep/internal/api/v1"
	"github.com/swiftprep/swiftprep/internal/auth"
	"github.com/swiftprep/swiftprep/internal/config"
	"github.com/swiftprep/swiftprep/internal/realtime"
	"github.com/swiftprep/swiftprep/pkg/logger"
	storage "github.com/swiftprep/swiftprep/pkg/redis"
	"gorm.io/gorm"
)

func NewRoutes(app *fiber.App, cfg *config.Config, db *gorm.DB, log *logger.Logger, rclient *storage.RedisClient) {
	app.Use(
		logger.SetupLogger(log),
		recover.New(),
		cors.New(
			cors.Config{
				AllowOrigins:     cfg.PublicURL,
				AllowCredentials: true,
				AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			},
		),
		compress.New(
			compress.Config{
				Level: compress.LevelBestCompression,
			},
		),
		limiter.New(
			limiter.Config{
				Expiration: 1 * time.Minute,
				Max:        60,
				KeyGenerator: func(c *fiber.Ctx) string {
					return c.IP()
				},
			},
		),
	)
	app.Use(log.Middleware())

	authOpts := auth.Options{DB: db, Rclient: rclient, Logger: log}
	requireAuth := auth.RequireAuth(authOpts)
	requireModerator := auth.RequireModerator(authOpts)
	tracker := realtime.NewTracker(rclient, log)

	app.Get("/", v1.Home)
	app.Post("/filter", v1.Filter)

	app.Get("/google", v1.GoogleLogin)
	app.Get("/google/redirect", v1.GoogleRedirect)
	app.Get("/logout", requireAuth, v1.Logout)

	app.Get("/view/:id", requireAuth, v1.ViewVideo)
	app.Post("/view/:id/like", requireAuth, v1.LikeVideo)
	app.Post("/upload", requireAuth, requireModerator, v1.UploadLecture)
	app.Delete("/view/:id", requireAuth, requireModerator, v1.DeleteVideo)

	app.Get("/view/:id/comment", v1.ListComments)
	app.Post("/view/:id/comment", requireAuth, v1.CreateComment)
	app.Delete("/view/:id/:commentId", requireAuth, v1.DeleteComment)
	app.Post("/view/:id/:commentId/like", requireAuth, v1.LikeComment)
	app.Post("/view/:id/:commentId/reply", requireAuth, v1.CreateReply)
	app.Delete("/view/:id/:commentId/:replyId", requireAuth, v1.DeleteReply)

	app.Get("/ws/devices", tracker.Upgrade(), requireAuth, tracker.Handler())
}
