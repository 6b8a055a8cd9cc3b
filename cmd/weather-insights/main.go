package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/i474232898/weather-insights/internal/api/http"
	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/config"
	"github.com/i474232898/weather-insights/internal/geocode"
	"github.com/i474232898/weather-insights/internal/insights"
	"github.com/i474232898/weather-insights/internal/notify"
	"github.com/i474232898/weather-insights/internal/observability"
	"github.com/i474232898/weather-insights/internal/scheduler"
	"github.com/i474232898/weather-insights/internal/store"
	"github.com/i474232898/weather-insights/internal/weather"
	"github.com/i474232898/weather-insights/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obsStore, closeStore, err := newStore(ctx, cfg, clock)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	if cfg.OpenMeteoEnabled {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient))
	}
	for i, p := range provs {
		provs[i] = providers.WithRateLimit(p, cfg.ProviderRPS, cfg.ProviderBurst)
	}
	if len(provs) == 0 {
		logger.Warn("no weather provider configured; serving synthetic data")
		provs = append(provs, providers.NewSyntheticProvider(clock))
	}

	weatherSvc := weather.NewService(obsStore, provs, weather.ServiceOptions{
		Timeout: cfg.FetchTimeout,
		Clock:   clock,
		Logger:  logger,
		Metrics: metrics,
	})
	insightsSvc := insights.NewService(weatherSvc, weatherSvc, insights.Config{
		Timezone: cfg.Timezone,
		Clock:    clock,
		Entropy:  common.NewEntropy(cfg.EntropySeed),
		Logger:   logger,
		Metrics:  metrics,
	})

	var resolver geocode.Resolver = geocode.NewStaticResolver()
	if cfg.GeocoderAPIKey != "" {
		resolver = geocode.Chain{geocode.NewGoogleResolver(cfg.GeocoderAPIKey), resolver}
	}
	resolver = geocode.NewCached(resolver, 256)

	locations := append([]weather.Location(nil), cfg.Locations...)
	for _, ref := range cfg.TrackedCities {
		loc, err := resolver.Resolve(ctx, ref.City, ref.Country)
		if err != nil {
			logger.Warn("skipping tracked city", "city", ref.City, "country", ref.Country, "error", err)
			continue
		}
		locations = append(locations, loc)
	}

	var publisher notify.Publisher = notify.NewLogPublisher(logger)
	if len(cfg.KafkaBrokers) > 0 {
		publisher = notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic, logger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("closing notification publisher", "error", err)
		}
	}()

	sched := scheduler.New(locations, weatherSvc, insightsSvc, publisher, scheduler.Options{
		Interval: cfg.FetchInterval,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := httpapi.NewApp(insightsSvc, httpapi.Options{
		Resolver:  resolver,
		Logger:    logger,
		AccessLog: true,
	})

	go func() {
		logger.Info("http server listening", "port", cfg.Port, "providers", len(provs), "locations", len(locations))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}

// newStore opens the configured observation store and returns its closer.
func newStore(ctx context.Context, cfg *config.AppConfig, clock clockwork.Clock) (weather.Store, func(), error) {
	if cfg.StoreBackend != config.StoreRedis {
		return store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge, clock), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return store.NewRedisStore(rdb, cfg.StoreMaxHistory, cfg.StoreMaxAge, clock), func() { _ = rdb.Close() }, nil
}
