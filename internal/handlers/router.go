package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screening-agent/internal/config"
	"alfredoptarigan/cv-screening-agent/internal/logger"
	"alfredoptarigan/cv-screening-agent/internal/middleware"
	"alfredoptarigan/cv-screening-agent/internal/models"
	"alfredoptarigan/cv-screening-agent/internal/services"
)

// NewApp wires middleware and routes around the evaluator.
func NewApp(cfg *config.Config, evaluator services.EvaluatorService, log *zap.Logger) *fiber.App {
	log = logger.OrNop(log)
	maxFileSize := cfg.MaxFileSizeBytes()

	app := fiber.New(fiber.Config{
		AppName:               cfg.Server.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          cfg.Model.Timeout + 30*time.Second,
		BodyLimit:             int(2 * maxFileSize),
		ErrorHandler:          errorHandler(maxFileSize, log),
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	origins := strings.Join(cfg.Server.AllowOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: origins != "" && !strings.Contains(origins, "*"),
		ExposeHeaders:    fiber.HeaderXRequestID,
	}))

	uploadHandler := NewUploadHandler(evaluator, maxFileSize, cfg.Upload.AllowedExtensions, log)
	healthHandler := NewHealthHandler(evaluator, cfg.Server.AppName)

	api := app.Group("/api/cv")
	api.Post("/upload", middleware.RateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window), uploadHandler.HandleUpload)
	api.Get("/health", healthHandler.HandleServiceHealth)

	app.Get("/health", healthHandler.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    cfg.Server.AppName + " API",
			"version": config.Version,
			"docs":    "/docs",
			"health":  "/api/cv/health",
		})
	})

	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"endpoints": []string{
				"POST /api/cv/upload (multipart field 'file', PDF only)",
				"GET /api/cv/health",
				"GET /health",
				"GET /metrics",
			},
		})
	})

	return app
}

// errorHandler keeps error bodies in the {success, error} shape. Bodies over
// the server limit get the same answer as an oversized upload.
func errorHandler(maxFileSize int64, log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code == fiber.StatusRequestEntityTooLarge {
				return badRequest(c, tooLargeMessage(maxFileSize))
			}
			return c.Status(fe.Code).JSON(models.ErrorResponse{Success: false, Error: fe.Message})
		}

		log.Error("unhandled request error",
			zap.String(logger.FieldRequestID, middleware.GetRequestID(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Success: false,
			Error:   services.GenericFailureMessage,
		})
	}
}
