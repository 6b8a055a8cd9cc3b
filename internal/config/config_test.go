package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-insights/internal/weather"
)

var allKeys = []string{
	"OPENWEATHER_API_KEY", "WEATHERAPI_API_KEY", "OPENMETEO_ENABLED", "GEOCODER_API_KEY",
	"HTTP_TIMEOUT", "FETCH_TIMEOUT", "PROVIDER_RPS", "PROVIDER_BURST", "FETCH_INTERVAL",
	"WEATHER_LOCATIONS", "WEATHER_LOCATION_CITY", "WEATHER_LOCATION_COUNTRY",
	"STORE_BACKEND", "STORE_MAX_HISTORY", "STORE_MAX_AGE", "REDIS_ADDR",
	"KAFKA_BROKERS", "KAFKA_NOTIFICATIONS_TOPIC", "TIMEZONE", "ENTROPY_SEED",
	"LOG_LEVEL", "LOG_FORMAT", "PORT", "SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.OpenMeteoEnabled)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5.0, cfg.ProviderRPS)
	assert.Equal(t, 10, cfg.ProviderBurst)
	assert.Equal(t, 15*time.Minute, cfg.FetchInterval)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, 2976, cfg.StoreMaxHistory)
	assert.Equal(t, 31*24*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, "weather-notifications", cfg.KafkaNotificationsTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Zero(t, cfg.EntropySeed)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.Locations)
	assert.Empty(t, cfg.TrackedCities)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENMETEO_ENABLED", "false")
	t.Setenv("PROVIDER_RPS", "2.5")
	t.Setenv("FETCH_INTERVAL", "5m")
	t.Setenv("WEATHER_LOCATIONS", "London:51.5074:-0.1278; Tokyo:35.6762:139.6503")
	t.Setenv("WEATHER_LOCATION_CITY", "Paris,Sydney")
	t.Setenv("WEATHER_LOCATION_COUNTRY", "FR,AU")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("TIMEZONE", "Europe/London")
	t.Setenv("ENTROPY_SEED", "42")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.OpenMeteoEnabled)
	assert.Equal(t, 2.5, cfg.ProviderRPS)
	assert.Equal(t, 5*time.Minute, cfg.FetchInterval)
	assert.Equal(t, []weather.Location{
		{Name: "London", Lat: 51.5074, Lon: -0.1278},
		{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503},
	}, cfg.Locations)
	assert.Equal(t, []CityRef{{City: "Paris", Country: "FR"}, {City: "Sydney", Country: "AU"}}, cfg.TrackedCities)
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "Europe/London", cfg.Timezone.String())
	assert.Equal(t, int64(42), cfg.EntropySeed)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad interval":        {"FETCH_INTERVAL", "soon"},
		"bad bool":            {"OPENMETEO_ENABLED", "maybe"},
		"bad rps":             {"PROVIDER_RPS", "-1"},
		"bad seed":            {"ENTROPY_SEED", "x"},
		"bad timezone":        {"TIMEZONE", "Mars/Olympus"},
		"bad backend":         {"STORE_BACKEND", "postgres"},
		"redis without addr":  {"STORE_BACKEND", "redis"},
		"malformed location":  {"WEATHER_LOCATIONS", "London:51.5"},
		"latitude range":      {"WEATHER_LOCATIONS", "X:91:0"},
		"city/country counts": {"WEATHER_LOCATION_COUNTRY", "FR,DE"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("WEATHER_LOCATION_CITY", "Paris")
			t.Setenv(kv[0], kv[1])
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}
