package providers

import (
	"context"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-insights/internal/weather"
)

// SyntheticProvider serves fixed sample data. It is used when no real
// provider is configured so every feature keeps working offline.
type SyntheticProvider struct {
	name  string
	clock clockwork.Clock
	days  int
}

func NewSyntheticProvider(clock clockwork.Clock) *SyntheticProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SyntheticProvider{name: "synthetic", clock: clock, days: 5}
}

func (p *SyntheticProvider) Name() string {
	return p.name
}

// syntheticPlace names a coordinate after the nearest sample city.
func syntheticPlace(loc weather.Location) string {
	if loc.Name != "" {
		return loc.Name
	}
	switch {
	case loc.Lat > 40 && loc.Lon < -70:
		return "New York"
	case loc.Lat > 35 && loc.Lat < 36 && loc.Lon > 139 && loc.Lon < 140:
		return "Tokyo"
	default:
		return "London"
	}
}

func (p *SyntheticProvider) Fetch(_ context.Context, loc weather.Location) (weather.Reading, error) {
	return weather.Reading{
		ProviderName: p.name,
		Timestamp:    p.clock.Now().UTC().Truncate(time.Second),
		Place:        syntheticPlace(loc),
		Temperature:  weather.Float(22),
		FeelsLike:    weather.Float(23),
		Pressure:     weather.Float(1015),
		Humidity:     weather.Float(65),
		Visibility:   weather.Float(10000),
		WindSpeed:    weather.Float(4.5),
		WindDeg:      weather.Int(270),
		Clouds:       weather.Float(40),
		ConditionID:  weather.Int(801),
		Condition:    weather.ConditionClouds,
		Description:  "few clouds",
		Icon:         "02d",
	}, nil
}

type syntheticPattern struct {
	id          int
	description string
	icon        string
	clouds      float64
}

var syntheticPatterns = []syntheticPattern{
	{800, "clear sky", "01d", 0},
	{801, "few clouds", "02d", 20},
	{802, "scattered clouds", "03d", 40},
	{500, "light rain", "10d", 75},
	{501, "moderate rain", "10d", 90},
}

// FetchForecast returns 3-hourly samples for the next days starting at the
// current day. Temperatures follow a daily curve between the day's min and max.
func (p *SyntheticProvider) FetchForecast(_ context.Context, loc weather.Location) ([]weather.Reading, error) {
	const baseTemp, baseHumidity, baseWind = 22.0, 65.0, 4.5

	now := p.clock.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	place := syntheticPlace(loc)

	out := make([]weather.Reading, 0, p.days*8)
	for day := 0; day < p.days; day++ {
		variation := float64(day%5 - 2)
		pattern := syntheticPatterns[day%len(syntheticPatterns)]
		pop := 0.1
		if weather.GroupOf(pattern.id) == weather.GroupRain {
			pop = 0.7
		}
		minT := baseTemp - 2 + variation
		maxT := baseTemp + 5 + variation

		for slot := 0; slot < 8; slot++ {
			ts := start.AddDate(0, 0, day).Add(time.Duration(slot*3) * time.Hour)
			// Coldest at 03:00, warmest at 15:00.
			curve := (1 - math.Cos(float64(slot*3-3)/24*2*math.Pi)) / 2
			temp := math.Round((minT+(maxT-minT)*curve)*10) / 10

			out = append(out, weather.Reading{
				ProviderName: p.name,
				Timestamp:    ts,
				Place:        place,
				Temperature:  weather.Float(temp),
				FeelsLike:    weather.Float(temp + 1),
				Pressure:     weather.Float(1015),
				Humidity:     weather.Float(baseHumidity + float64(day%10)),
				WindSpeed:    weather.Float(baseWind + float64(day%3)),
				WindDeg:      weather.Int(270),
				Clouds:       weather.Float(pattern.clouds),
				Visibility:   weather.Float(10000),
				Pop:          weather.Float(pop),
				ConditionID:  weather.Int(pattern.id),
				Description:  pattern.description,
				Icon:         pattern.icon,
			})
		}
	}
	return out, nil
}
