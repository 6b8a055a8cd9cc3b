package httpapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-insights/internal/geocode"
	"github.com/i474232898/weather-insights/internal/insights"
	"github.com/i474232898/weather-insights/internal/observability"
	"github.com/i474232898/weather-insights/internal/weather"
)

const serviceName = "weather-insights"

// Options configures the Fiber app.
type Options struct {
	Resolver geocode.Resolver
	Logger   *slog.Logger
	// AccessLog enables fiber's request logger middleware.
	AccessLog bool
}

// NewApp builds the Fiber app with middleware, the health and metrics
// endpoints and the feature routes.
func NewApp(svc *insights.Service, opts Options) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = observability.DiscardLogger()
	}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler(opts.Logger),
	})

	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	RegisterRoutes(app, svc, opts.Resolver)
	return app
}

// errorHandler maps errors to status codes: invalid input is 400, an
// upstream data failure is 502 and anything else is 500. The body is always
// {"error": message}.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := fiber.StatusInternalServerError, "internal server error"

		var fe *fiber.Error
		var ue *weather.UpstreamError
		switch {
		case errors.As(err, &fe):
			code, msg = fe.Code, fe.Message
		case errors.Is(err, insights.ErrInvalidInput):
			code, msg = fiber.StatusBadRequest, err.Error()
		case errors.As(err, &ue):
			code, msg = fiber.StatusBadGateway, "weather data unavailable: "+ue.Op
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", "path", c.Path(), "status", code, "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
