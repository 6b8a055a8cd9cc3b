package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-insights/internal/weather"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// CityRef is a tracked location named by city, resolved through the geocoder
// at startup.
type CityRef struct {
	City    string
	Country string
}

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	OpenMeteoEnabled  bool
	GeocoderAPIKey    string

	HTTPTimeout   time.Duration // per outbound provider request
	FetchTimeout  time.Duration // per provider fan-out
	ProviderRPS   float64
	ProviderBurst int

	// FetchInterval controls how often we fetch data for each location.
	FetchInterval time.Duration

	// Locations to track.
	Locations     []weather.Location
	TrackedCities []CityRef

	StoreBackend    string
	StoreMaxHistory int           // max number of observations per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of observations (0 = unlimited)
	RedisAddr       string

	KafkaBrokers            []string
	KafkaNotificationsTopic string

	Timezone    *time.Location
	EntropySeed int64

	LogLevel  string
	LogFormat string

	Port            string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return fromEnv()
}

func fromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		OpenWeatherAPIKey:       os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:           os.Getenv("WEATHERAPI_API_KEY"),
		GeocoderAPIKey:          os.Getenv("GEOCODER_API_KEY"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		KafkaNotificationsTopic: getenvDefault("KAFKA_NOTIFICATIONS_TOPIC", "weather-notifications"),
		LogLevel:                getenvDefault("LOG_LEVEL", "info"),
		LogFormat:               getenvDefault("LOG_FORMAT", "json"),
		Port:                    getenvDefault("PORT", "8080"),
		StoreMaxHistory:         getenvInt("STORE_MAX_HISTORY", 2976), // 31 days at 15-minute intervals
		ProviderBurst:           getenvInt("PROVIDER_BURST", 10),
	}

	var err error
	if cfg.OpenMeteoEnabled, err = getenvBool("OPENMETEO_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "744h"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(getenvDefault("PROVIDER_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("invalid PROVIDER_RPS: %q", os.Getenv("PROVIDER_RPS"))
	}
	cfg.ProviderRPS = rps

	seed, err := strconv.ParseInt(getenvDefault("ENTROPY_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ENTROPY_SEED: %w", err)
	}
	cfg.EntropySeed = seed

	tz, err := time.LoadLocation(getenvDefault("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Timezone = tz

	cfg.StoreBackend = strings.ToLower(getenvDefault("STORE_BACKEND", StoreMemory))
	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when STORE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q", cfg.StoreBackend)
	}

	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"), ",")

	if cfg.Locations, err = parseLocations(os.Getenv("WEATHER_LOCATIONS")); err != nil {
		return nil, err
	}
	if cfg.TrackedCities, err = loadTrackedCities(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseLocations reads "name:lat:lon;name:lat:lon".
func parseLocations(s string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, item := range splitList(s, ";") {
		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid WEATHER_LOCATIONS entry %q: want name:lat:lon", item)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("invalid latitude in WEATHER_LOCATIONS entry %q", item)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("invalid longitude in WEATHER_LOCATIONS entry %q", item)
		}
		locs = append(locs, weather.Location{Name: strings.TrimSpace(parts[0]), Lat: lat, Lon: lon})
	}
	return locs, nil
}

func loadTrackedCities() ([]CityRef, error) {
	cities := splitList(os.Getenv("WEATHER_LOCATION_CITY"), ",")
	countries := splitList(os.Getenv("WEATHER_LOCATION_COUNTRY"), ",")
	if len(countries) > 0 && len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}
	var refs []CityRef
	for i, city := range cities {
		ref := CityRef{City: city}
		if len(countries) > 0 {
			ref.Country = countries[i]
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
