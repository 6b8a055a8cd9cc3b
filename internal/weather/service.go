package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-insights/internal/observability"
)

// ServiceOptions configures a Service. Zero values pick sensible defaults.
type ServiceOptions struct {
	// Timeout bounds each fan-out to the providers.
	Timeout time.Duration
	Clock   clockwork.Clock
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Service fans out to the configured providers, merges their answers and
// records observations in the store. It satisfies Source and HistorySource.
type Service struct {
	store     Store
	providers []Provider
	timeout   time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a new Service. store may be nil, in which case nothing
// is recorded and History returns ErrNotFound.
func NewService(store Store, providers []Provider, opts ServiceOptions) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = observability.DiscardLogger()
	}
	return &Service{
		store:     store,
		providers: providers,
		timeout:   opts.Timeout,
		clock:     opts.Clock,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

type noRecordKey struct{}

// WithoutRecording returns a context under which FetchCurrent does not store
// the observation it returns.
func WithoutRecording(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRecordKey{}, true)
}

// Recording reports whether FetchCurrent stores observations fetched with ctx.
func Recording(ctx context.Context) bool {
	skip, _ := ctx.Value(noRecordKey{}).(bool)
	return !skip
}

// FetchCurrent fetches current conditions from all providers concurrently and
// aggregates the successful readings. Partial success is kept; if every
// provider fails the result is an *UpstreamError wrapping ErrNoData.
func (s *Service) FetchCurrent(ctx context.Context, loc Location) (Observation, error) {
	if len(s.providers) == 0 {
		return Observation{}, &UpstreamError{Op: "fetch current", Err: ErrNoProviders}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings = make([]*Reading, len(s.providers))
		errs     []error
	)

	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()

			start := s.clock.Now()
			r, err := p.Fetch(ctx, loc)
			s.metrics.ObserveProviderFetch(p.Name(), err, s.clock.Since(start))
			if err != nil {
				s.logger.Warn("provider fetch failed",
					"provider", p.Name(), "location", loc.Key(), "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
				mu.Unlock()
				return
			}
			readings[i] = &r
		}(i, p)
	}
	wg.Wait()

	// Keep provider order so the majority tie-break is stable.
	ok := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if r != nil {
			ok = append(ok, *r)
		}
	}
	if len(ok) == 0 {
		return Observation{}, &UpstreamError{Op: "fetch current", Err: errors.Join(append([]error{ErrNoData}, errs...)...)}
	}

	obs := AggregateReadings(ok).Observation()
	if obs.Time.IsZero() {
		obs.Time = s.clock.Now().UTC()
	}
	if obs.Place == "" {
		obs.Place = loc.Name
	}

	if s.store != nil && Recording(ctx) {
		if err := s.store.SaveObservation(ctx, loc, obs); err != nil {
			s.logger.Warn("saving observation failed", "location", loc.Key(), "error", err)
		}
	}
	return obs, nil
}

// FetchForecast returns the forecast series of the first forecast-capable
// provider (in configuration order) that answers successfully.
func (s *Service) FetchForecast(ctx context.Context, loc Location) ([]ForecastSample, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var errs []error
	for _, p := range s.providers {
		fp, ok := p.(ForecastProvider)
		if !ok {
			continue
		}

		start := s.clock.Now()
		readings, err := fp.FetchForecast(ctx, loc)
		s.metrics.ObserveProviderFetch(p.Name(), err, s.clock.Since(start))
		if err == nil && len(readings) == 0 {
			err = ErrNoData
		}
		if err != nil {
			s.logger.Warn("provider forecast failed",
				"provider", p.Name(), "location", loc.Key(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		samples := make([]ForecastSample, 0, len(readings))
		for _, r := range readings {
			samples = append(samples, r.Sample())
		}
		return samples, nil
	}

	if len(errs) == 0 {
		return nil, &UpstreamError{Op: "fetch forecast", Err: ErrNoProviders}
	}
	return nil, &UpstreamError{Op: "fetch forecast", Err: errors.Join(append([]error{ErrNoData}, errs...)...)}
}

// History returns stored observations for loc between from and to (inclusive).
func (s *Service) History(ctx context.Context, loc Location, from, to time.Time) ([]Observation, error) {
	if s.store == nil {
		return nil, ErrNotFound
	}
	return s.store.GetRange(ctx, loc, from, to)
}

// Latest returns the most recent stored observation for loc.
func (s *Service) Latest(ctx context.Context, loc Location) (Observation, error) {
	if s.store == nil {
		return Observation{}, ErrNotFound
	}
	return s.store.GetLatest(ctx, loc)
}
