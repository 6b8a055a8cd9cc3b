package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-insights/internal/weather"
)

// RateLimitedProvider wraps a weather.Provider with a token bucket.
type RateLimitedProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
}

// RateLimitedForecastProvider additionally forwards forecast requests through
// the same limiter.
type RateLimitedForecastProvider struct {
	RateLimitedProvider
	forecast weather.ForecastProvider
}

// WithRateLimit wraps p so that it issues at most rps requests per second with
// the given burst. Forecast capability is preserved. A non-positive rps
// returns p unchanged.
func WithRateLimit(p weather.Provider, rps float64, burst int) weather.Provider {
	if rps <= 0 {
		return p
	}
	if burst < 1 {
		burst = 1
	}
	base := RateLimitedProvider{
		provider: p,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
	if fp, ok := p.(weather.ForecastProvider); ok {
		return &RateLimitedForecastProvider{RateLimitedProvider: base, forecast: fp}
	}
	return &base
}

// Name returns the wrapped provider's name so metrics and logs stay keyed by provider.
func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return weather.Reading{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.Fetch(ctx, loc)
}

func (r *RateLimitedForecastProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Reading, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.forecast.FetchForecast(ctx, loc)
}
