// Package scheduler periodically samples current weather for tracked
// locations, which feeds the observation history, and publishes the smart
// notifications generated for them.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-insights/internal/advisor"
	"github.com/i474232898/weather-insights/internal/notify"
	"github.com/i474232898/weather-insights/internal/observability"
	"github.com/i474232898/weather-insights/internal/weather"
)

// Sampler fetches current conditions. weather.Service records every
// successful fetch in its store.
type Sampler interface {
	FetchCurrent(ctx context.Context, loc weather.Location) (weather.Observation, error)
}

// Notifier generates notifications for a location.
type Notifier interface {
	Notifications(ctx context.Context, loc weather.Location) ([]advisor.Notification, error)
}

// Options configures a Scheduler.
type Options struct {
	Interval time.Duration
	// JobTimeout bounds the work done for one location per run.
	JobTimeout time.Duration
	Logger     *slog.Logger
	Metrics    *observability.Metrics
}

// Scheduler periodically fetches weather data for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sampler   Sampler
	notifier  Notifier
	publisher notify.Publisher
	locations []weather.Location
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a new Scheduler. notifier and publisher may be nil, in which
// case runs only sample current conditions.
func New(locations []weather.Location, sampler Sampler, notifier Notifier, publisher notify.Publisher, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Minute
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = observability.DiscardLogger()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sampler:   sampler,
		notifier:  notifier,
		publisher: publisher,
		locations: locations,
		interval:  opts.Interval,
		timeout:   opts.JobTimeout,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	s.metrics.SetTrackedLocations(len(s.locations))
	if len(s.locations) == 0 {
		s.logger.Info("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce samples every tracked location concurrently and publishes its
// notifications. Failures are logged per location.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.logger.Info("scheduler: running weather fetch job", "locations", len(s.locations))

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc weather.Location) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			s.runLocation(ctx, loc)
		}(loc)
	}
	wg.Wait()
	s.logger.Info("scheduler: completed weather fetch job")
}

func (s *Scheduler) runLocation(ctx context.Context, loc weather.Location) {
	if _, err := s.sampler.FetchCurrent(ctx, loc); err != nil {
		s.logger.Warn("scheduler: fetch failed", "location", loc.Key(), "error", err)
		return
	}
	if s.notifier == nil || s.publisher == nil {
		return
	}

	notes, err := s.notifier.Notifications(ctx, loc)
	if err != nil {
		s.logger.Warn("scheduler: notifications failed", "location", loc.Key(), "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, loc, notes); err != nil {
		s.logger.Warn("scheduler: publish failed", "location", loc.Key(), "error", err)
		return
	}
	s.metrics.AddNotificationsPublished(len(notes))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
