package weather

import (
	"context"
	"math"
	"strings"
	"time"
)

// Defaults substituted when a provider omits a field.
const (
	DefaultTemperature = 20.0
	DefaultHumidity    = 50.0
	DefaultPressure    = 1013.0
	DefaultWindSpeed   = 5.0
	DefaultVisibility  = 10000.0
)

// Reading is a single provider's answer before normalization. Nil pointers
// mark values the provider did not report.
type Reading struct {
	ProviderName string
	Timestamp    time.Time
	Place        string

	Temperature *float64
	FeelsLike   *float64
	Humidity    *float64
	Pressure    *float64
	WindSpeed   *float64 // m/s
	WindDeg     *int
	Clouds      *float64
	Visibility  *float64
	Pop         *float64 // 0..1

	ConditionID *int
	Condition   Condition
	Description string
	Icon        string
}

// Float returns a pointer to v, for filling Reading fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for filling Reading fields.
func Int(v int) *int { return &v }

// conditionCode resolves the reading's condition code, preferring the numeric
// code, then the condition name.
func (r Reading) conditionCode() int {
	if r.ConditionID != nil {
		return *r.ConditionID
	}
	if r.Condition != "" {
		return CodeForCondition(r.Condition)
	}
	return CodeClear
}

// condition resolves the reading's condition name.
func (r Reading) condition() Condition {
	if r.Condition != "" {
		return r.Condition
	}
	return ConditionForCode(r.conditionCode())
}

// Observation converts the reading into an Observation, applying the
// documented defaults for every missing field. This is the only place
// defaults are applied.
func (r Reading) Observation() Observation {
	temp := valueOr(r.Temperature, DefaultTemperature)
	code := r.conditionCode()
	cond := r.condition()

	desc := r.Description
	if desc == "" {
		desc = cond.Lower()
	}
	icon := r.Icon
	if icon == "" {
		icon = IconForCode(code)
	}
	windDeg := 0
	if r.WindDeg != nil {
		windDeg = *r.WindDeg
	}

	return Observation{
		Time:        r.Timestamp,
		Place:       r.Place,
		Temp:        temp,
		FeelsLike:   valueOr(r.FeelsLike, temp),
		Humidity:    clamp(valueOr(r.Humidity, DefaultHumidity), 0, 100),
		Pressure:    valueOr(r.Pressure, DefaultPressure),
		WindSpeed:   math.Max(0, valueOr(r.WindSpeed, DefaultWindSpeed)),
		WindDeg:     windDeg,
		Clouds:      clamp(valueOr(r.Clouds, 0), 0, 100),
		Visibility:  valueOr(r.Visibility, DefaultVisibility),
		ConditionID: code,
		Condition:   cond,
		Description: strings.TrimSpace(desc),
		Icon:        icon,
	}
}

// Sample converts the reading into a ForecastSample.
func (r Reading) Sample() ForecastSample {
	return ForecastSample{
		Observation: r.Observation(),
		Pop:         clamp(valueOr(r.Pop, 0), 0, 1),
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return def
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Provider abstracts an upstream weather API (OpenWeatherMap, WeatherAPI, Open-Meteo, ...).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Reading, error)
}

// ForecastProvider is implemented by providers that also serve a
// multi-day forecast as a flat series of readings.
type ForecastProvider interface {
	Provider
	FetchForecast(ctx context.Context, loc Location) ([]Reading, error)
}

// Source is the data capability consumed by the feature orchestrators.
type Source interface {
	FetchCurrent(ctx context.Context, loc Location) (Observation, error)
	FetchForecast(ctx context.Context, loc Location) ([]ForecastSample, error)
}

// HistorySource is implemented by sources that retain past observations.
type HistorySource interface {
	History(ctx context.Context, loc Location, from, to time.Time) ([]Observation, error)
}

// Store is the contract the in-memory store (and the Redis store) must satisfy.
type Store interface {
	SaveObservation(ctx context.Context, loc Location, obs Observation) error
	GetLatest(ctx context.Context, loc Location) (Observation, error)
	GetRange(ctx context.Context, loc Location, from, to time.Time) ([]Observation, error)
}
