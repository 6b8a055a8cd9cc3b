package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/weather"
)

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com (current
// conditions only).
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client
}

func NewWeatherAPIProvider(hc *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		client:  newClient("weatherapi", hc),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("weatherapi: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; it accepts "lat,lon".
	values.Set("q", fmt.Sprintf("%f,%f", loc.Lat, loc.Lon))

	var payload struct {
		Location struct {
			Name           string `json:"name"`
			LocaltimeEpoch int64  `json:"localtime_epoch"`
		} `json:"location"`
		Current struct {
			LastUpdatedEpoch int64    `json:"last_updated_epoch"`
			TempC            *float64 `json:"temp_c"`
			FeelsLikeC       *float64 `json:"feelslike_c"`
			Humidity         *float64 `json:"humidity"`
			WindKph          *float64 `json:"wind_kph"`
			WindDegree       *int     `json:"wind_degree"`
			PressureMb       *float64 `json:"pressure_mb"`
			Cloud            *float64 `json:"cloud"`
			VisKm            *float64 `json:"vis_km"`
			Condition        struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := p.getJSON(ctx, p.baseURL, values, &payload); err != nil {
		return weather.Reading{}, err
	}

	c := payload.Current
	r := weather.Reading{
		ProviderName: p.name,
		Place:        payload.Location.Name,
		Temperature:  c.TempC,
		FeelsLike:    c.FeelsLikeC,
		Humidity:     c.Humidity,
		WindDeg:      c.WindDegree,
		Pressure:     c.PressureMb,
		Clouds:       c.Cloud,
	}

	epoch := c.LastUpdatedEpoch
	if epoch == 0 {
		epoch = payload.Location.LocaltimeEpoch
	}
	if epoch > 0 {
		r.Timestamp = time.Unix(epoch, 0).UTC()
	}

	// Convert wind from kph to m/s and visibility from km to metres.
	if c.WindKph != nil {
		r.WindSpeed = weather.Float(*c.WindKph / 3.6)
	}
	if c.VisKm != nil {
		r.Visibility = weather.Float(*c.VisKm * 1000)
	}

	if text := strings.TrimSpace(c.Condition.Text); text != "" {
		r.Condition = mapWeatherAPICondition(text)
		r.Description = strings.ToLower(text)
	}
	return r, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	t := strings.ToLower(text)
	switch {
	case common.HasAny(t, "thunder", "storm"):
		return weather.ConditionThunderstorm
	case common.HasAny(t, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.HasAny(t, "drizzle"):
		return weather.ConditionDrizzle
	case common.HasAny(t, "rain", "shower"):
		return weather.ConditionRain
	case common.HasAny(t, "fog"):
		return weather.ConditionFog
	case common.HasAny(t, "mist"):
		return weather.ConditionMist
	case common.HasAny(t, "cloud", "overcast"):
		return weather.ConditionClouds
	default:
		return weather.ConditionClear
	}
}
