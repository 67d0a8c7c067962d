package server

import (
	"github.com/katie878/motion-tracking/internal/analysis"
	"github.com/katie878/motion-tracking/internal/batch"
	"github.com/katie878/motion-tracking/internal/config"
	"github.com/katie878/motion-tracking/internal/report"
	"github.com/katie878/motion-tracking/internal/store"
	"github.com/katie878/motion-tracking/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	Store  *store.Store
	Stream *stream.Hub
}

func NewServer(cfg config.Config, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{BodyLimit: cfg.MaxUploadBytes})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		Store:  store.New(),
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	svc := batch.NewService(s.Store, s.Stream)

	analysis.RegisterRoutes(s.App.Group("/analysis"), svc, s.Store, s.Cfg.DefaultFPS)
	report.RegisterRoutes(s.App.Group("/reports"), s.Store)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
