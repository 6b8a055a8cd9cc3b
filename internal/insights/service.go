// Package insights holds the feature orchestrators. Each one fetches from the
// weather source, runs the index calculators, the forecast aggregator and the
// advisors in a fixed order, and assembles a JSON-ready report.
package insights

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-insights/internal/advisor"
	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/indices"
	"github.com/i474232898/weather-insights/internal/observability"
	"github.com/i474232898/weather-insights/internal/weather"
)

// Feature names used in logs and metrics.
const (
	FeatureHyperLocal    = "hyper_local"
	FeatureHealth        = "health"
	FeatureClothing      = "clothing"
	FeatureHistorical    = "historical_trends"
	FeatureCommute       = "commute"
	FeatureGardening     = "gardening"
	FeatureTripPlanner   = "trip_planner"
	FeatureNotifications = "notifications"
)

// Config carries the orchestrators' collaborators. Zero values pick defaults.
type Config struct {
	// Timezone decides calendar dates, "today" and the season. Defaults to UTC.
	Timezone *time.Location
	Clock    clockwork.Clock
	Entropy  common.Entropy
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// Service implements the feature orchestrators.
type Service struct {
	source  weather.Source
	history weather.HistorySource
	tz      *time.Location
	clock   clockwork.Clock
	entropy common.Entropy
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a Service. history may be nil, in which case historical
// averages are always estimated.
func NewService(source weather.Source, history weather.HistorySource, cfg Config) *Service {
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Entropy == nil {
		cfg.Entropy = common.NewEntropy(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.DiscardLogger()
	}
	return &Service{
		source:  source,
		history: history,
		tz:      cfg.Timezone,
		clock:   cfg.Clock,
		entropy: cfg.Entropy,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

func (s *Service) now() time.Time {
	return s.clock.Now().In(s.tz)
}

// done records the outcome of one orchestrator call and passes err through.
func (s *Service) done(feature string, loc weather.Location, err error) error {
	var ue *weather.UpstreamError
	switch {
	case err == nil:
		s.metrics.ObserveFeature(feature, "success")
	case errors.Is(err, ErrInvalidInput):
		s.metrics.ObserveFeature(feature, "invalid_input")
		s.logger.Debug("invalid request", "feature", feature, "error", err)
	case errors.As(err, &ue):
		s.metrics.ObserveFeature(feature, "upstream_error")
		s.metrics.ObserveUpstreamError(ue.Op)
		s.logger.Error("weather data unavailable",
			"feature", feature, "lat", loc.Lat, "lon", loc.Lon, "error", err)
	default:
		s.metrics.ObserveFeature(feature, "error")
		s.logger.Error("feature failed",
			"feature", feature, "lat", loc.Lat, "lon", loc.Lon, "error", err)
	}
	return err
}

func (s *Service) current(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	obs, err := s.source.FetchCurrent(ctx, loc)
	if err != nil {
		return weather.Observation{}, upstream("fetch current", err)
	}
	return obs, nil
}

func (s *Service) days(ctx context.Context, loc weather.Location) ([]weather.DaySummary, error) {
	samples, err := s.source.FetchForecast(ctx, loc)
	if err != nil {
		return nil, upstream("fetch forecast", err)
	}
	return weather.AggregateDays(samples, s.tz), nil
}

// currentAndDays fetches the current observation then the forecast.
func (s *Service) currentAndDays(ctx context.Context, loc weather.Location) (weather.Observation, []weather.DaySummary, error) {
	obs, err := s.current(ctx, loc)
	if err != nil {
		return weather.Observation{}, nil, err
	}
	days, err := s.days(ctx, loc)
	if err != nil {
		return weather.Observation{}, nil, err
	}
	return obs, days, nil
}

// HyperLocal returns current conditions with health indices, the daily
// forecast and neighbourhood-level adjustments.
func (s *Service) HyperLocal(ctx context.Context, loc weather.Location) (_ *HyperLocalReport, err error) {
	defer func() { err = s.done(FeatureHyperLocal, loc, err) }()

	if err := validateCoordinates("", loc); err != nil {
		return nil, err
	}
	obs, days, err := s.currentAndDays(ctx, loc)
	if err != nil {
		return nil, err
	}

	idx := indices.Compute(obs)
	return &HyperLocalReport{
		Current:             obs,
		UVIndex:             idx.UVIndex,
		AirQuality:          idx.AirQuality,
		PollenLevel:         idx.PollenLevel,
		PrecipitationChance: idx.PrecipitationChance,
		Forecast:            days,
		MicroClimate:        advisor.AdjustMicroClimate(s.entropy, obs),
		UpdatedAt:           s.now(),
	}, nil
}

// Health returns health alerts and recommendations for the current weather,
// plus a simulated five day outlook.
func (s *Service) Health(ctx context.Context, req HealthRequest) (_ *HealthReport, err error) {
	defer func() { err = s.done(FeatureHealth, req.Location, err) }()

	if err := validateCoordinates("", req.Location); err != nil {
		return nil, err
	}
	obs, err := s.current(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	idx := indices.Compute(obs)
	alerts := advisor.HealthAlerts(advisor.HealthInput{
		Temp:       obs.Temp,
		Humidity:   obs.Humidity,
		Indices:    idx,
		AgeGroup:   req.AgeGroup,
		Conditions: req.Conditions,
	})
	now := s.now()
	outlook := advisor.HealthOutlook(s.entropy, obs, req.Location.Lat, now)

	return &HealthReport{
		CurrentWeather: HealthWeather{
			Temp:        obs.Temp,
			Humidity:    obs.Humidity,
			Pressure:    obs.Pressure,
			WindSpeed:   obs.WindSpeed,
			Weather:     obs.Condition,
			Description: obs.Description,
		},
		HealthIndices: HealthIndices{
			UVIndex:     idx.UVIndex,
			AirQuality:  idx.AirQuality,
			PollenLevel: idx.PollenLevel,
		},
		Alerts:          alerts,
		Recommendations: advisor.HealthRecommendations(alerts, req.AgeGroup, req.Conditions),
		DailyOutlook:    outlook,
		OutlookAlerts:   advisor.OutlookAlerts(obs, idx.UVIndex, outlook, req.AgeGroup, req.Conditions),
		UpdatedAt:       now,
	}, nil
}

// Clothing recommends an outfit and accessories for the current weather.
func (s *Service) Clothing(ctx context.Context, req ClothingRequest) (_ *ClothingReport, err error) {
	defer func() { err = s.done(FeatureClothing, req.Location, err) }()

	if err := validateCoordinates("", req.Location); err != nil {
		return nil, err
	}
	obs, err := s.current(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	pop := indices.PrecipitationChance(obs)
	return &ClothingReport{
		CurrentWeather: ClothingWeather{
			Temp:                obs.Temp,
			FeelsLike:           obs.FeelsLike,
			Humidity:            obs.Humidity,
			WindSpeed:           obs.WindSpeed,
			Weather:             obs.Condition,
			Description:         obs.Description,
			PrecipitationChance: pop,
		},
		Clothing: advisor.Clothing(advisor.ClothingInput{
			Temp:                obs.Temp,
			FeelsLike:           obs.FeelsLike,
			Humidity:            obs.Humidity,
			WindSpeed:           obs.WindSpeed,
			Condition:           obs.Condition,
			PrecipitationChance: pop,
			Gender:              req.Gender,
			Activity:            req.Activity,
		}),
		Accessories: advisor.Accessories(advisor.AccessoryInput{
			Temp:                obs.Temp,
			Condition:           obs.Condition,
			PrecipitationChance: pop,
			UVIndex:             indices.UVIndex(obs),
			Activity:            req.Activity,
		}),
		UpdatedAt: s.now(),
	}, nil
}

// HistoricalTrends compares the current temperature with past periods. Stored
// observations are used for the recent windows when a history source is
// configured; everything else is estimated.
func (s *Service) HistoricalTrends(ctx context.Context, loc weather.Location) (_ *HistoricalReport, err error) {
	defer func() { err = s.done(FeatureHistorical, loc, err) }()

	if err := validateCoordinates("", loc); err != nil {
		return nil, err
	}

	// History is read before the current fetch, which records the reading
	// it returns.
	now := s.now()
	var past []weather.Observation
	if s.history != nil {
		past, err = s.history.History(ctx, loc, now.AddDate(0, -1, 0), now)
		switch {
		case err == nil:
		case errors.Is(err, weather.ErrNotFound):
			past = nil
		default:
			s.logger.Warn("reading history failed", "lat", loc.Lat, "lon", loc.Lon, "error", err)
			past = nil
		}
	}

	obs, err := s.current(ctx, loc)
	if err != nil {
		return nil, err
	}
	avg := advisor.ApplyHistory(advisor.EstimateAverages(s.entropy, obs.Temp), now, past)

	return &HistoricalReport{
		CurrentTemperature: obs.Temp,
		HistoricalAverages: avg,
		Trends:             advisor.ComputeTrends(obs.Temp, avg, now.Month()),
		UpdatedAt:          now,
	}, nil
}

// Commute rates the weather impact on a trip between two points and returns
// the weather along a simplified route.
func (s *Service) Commute(ctx context.Context, req CommuteRequest) (_ *CommuteReport, err error) {
	defer func() { err = s.done(FeatureCommute, req.Start, err) }()

	if err := validateCoordinates("start_", req.Start); err != nil {
		return nil, err
	}
	if err := validateCoordinates("end_", req.End); err != nil {
		return nil, err
	}
	departure := s.now()
	if req.DepartureTime != "" {
		if departure, err = parseDeparture(req.DepartureTime, s.tz); err != nil {
			return nil, err
		}
	}

	start, err := s.current(ctx, req.Start)
	if err != nil {
		return nil, err
	}
	end, err := s.current(ctx, req.End)
	if err != nil {
		return nil, err
	}
	// Route points other than the endpoints are one-off locations and are
	// not recorded.
	routeCtx := weather.WithoutRecording(ctx)
	mid, err := s.current(routeCtx, weather.Location{
		Lat: (req.Start.Lat + req.End.Lat) / 2,
		Lon: (req.Start.Lon + req.End.Lon) / 2,
	})
	if err != nil {
		return nil, err
	}

	points := advisor.RoutePoints(s.entropy, req.Start.Lat, req.Start.Lon, req.End.Lat, req.End.Lon)
	route := make([]RouteForecast, 0, len(points))
	for i, p := range points {
		var o weather.Observation
		switch i {
		case 0:
			o = start
		case len(points) - 1:
			o = end
		default:
			if o, err = s.current(routeCtx, weather.Location{Lat: p.Lat, Lon: p.Lon}); err != nil {
				return nil, err
			}
		}
		route = append(route, RouteForecast{
			Location: p,
			Weather: RouteWeather{
				Temp:        o.Temp,
				Condition:   o.Condition,
				Description: o.Description,
				Icon:        o.Icon,
			},
		})
	}

	return &CommuteReport{
		DepartureTime: departure.Format(time.RFC3339),
		StartPoint:    endpoint(req.Start, start),
		EndPoint:      endpoint(req.End, end),
		RouteForecast: route,
		Impact:        advisor.AssessCommute(s.entropy, start, mid, end),
		UpdatedAt:     s.now(),
	}, nil
}

func endpoint(loc weather.Location, o weather.Observation) CommuteEndpoint {
	return CommuteEndpoint{
		Lat: loc.Lat,
		Lon: loc.Lon,
		Weather: PointSummary{
			Temp:        o.Temp,
			Condition:   o.Condition,
			Description: o.Description,
		},
	}
}

// Gardening returns watering, planting, harvesting, pest and task advice.
func (s *Service) Gardening(ctx context.Context, loc weather.Location) (_ *GardeningReport, err error) {
	defer func() { err = s.done(FeatureGardening, loc, err) }()

	if err := validateCoordinates("", loc); err != nil {
		return nil, err
	}
	obs, days, err := s.currentAndDays(ctx, loc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &GardeningReport{
		CurrentWeather: GardenWeather{
			Temp:        obs.Temp,
			Humidity:    obs.Humidity,
			WindSpeed:   obs.WindSpeed,
			Weather:     obs.Condition,
			Description: obs.Description,
		},
		WateringSchedule: advisor.ScheduleWatering(obs, days, now.Format(time.DateOnly)),
		OptimalDays: OptimalDays{
			Planting:   advisor.PlantingDays(days),
			Harvesting: advisor.HarvestingDays(days),
		},
		PestWarnings: advisor.PestWarnings(obs),
		GardenTasks:  advisor.GardenTasks(obs, days, now.Month()),
		UpdatedAt:    now,
	}, nil
}

// TripPlan builds packing, activity and risk advice for the forecast days
// between the trip dates, both inclusive.
func (s *Service) TripPlan(ctx context.Context, req TripRequest) (_ *TripReport, err error) {
	defer func() { err = s.done(FeatureTripPlanner, req.Location, err) }()

	if err := validateCoordinates("", req.Location); err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", req.StartDate, s.tz)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate, s.tz)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &InputError{Field: "end_date", Reason: "must not be before start_date"}
	}

	obs, days, err := s.currentAndDays(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	first, last := start.Format(time.DateOnly), end.Format(time.DateOnly)
	trip := make([]weather.DaySummary, 0, len(days))
	for _, d := range days {
		if d.Date >= first && d.Date <= last {
			trip = append(trip, d)
		}
	}

	place := obs.Place
	if place == "" {
		place = "Unknown Location"
	}
	return &TripReport{
		Location:     place,
		TripDates:    TripDates{Start: first, End: last},
		Forecast:     trip,
		PackingList:  advisor.Packing(trip),
		Activities:   advisor.Activities(trip),
		WeatherRisks: advisor.WeatherRisks(trip),
		UpdatedAt:    s.now(),
	}, nil
}

// Notifications returns the smart notifications for the forecast at loc,
// each with a fresh ID and the creation time.
func (s *Service) Notifications(ctx context.Context, loc weather.Location) (_ []advisor.Notification, err error) {
	defer func() { err = s.done(FeatureNotifications, loc, err) }()

	if err := validateCoordinates("", loc); err != nil {
		return nil, err
	}
	days, err := s.days(ctx, loc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := advisor.Notifications(days)
	for i := range out {
		out[i].ID = uuid.NewString()
		out[i].CreatedAt = now
	}
	return out, nil
}
