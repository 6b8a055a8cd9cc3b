package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// OpenWeatherProvider implements weather.ForecastProvider for OpenWeatherMap
// (current conditions plus the 5 day / 3 hour forecast).
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client
}

func NewOpenWeatherProvider(hc *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		client:  newClient("openweather", hc),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Humidity  *float64 `json:"humidity"`
	Pressure  *float64 `json:"pressure"`
}

type owmWind struct {
	Speed *float64 `json:"speed"`
	Deg   *int     `json:"deg"`
}

type owmClouds struct {
	All *float64 `json:"all"`
}

type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmEntry struct {
	Dt         int64          `json:"dt"`
	Main       owmMain        `json:"main"`
	Wind       owmWind        `json:"wind"`
	Clouds     owmClouds      `json:"clouds"`
	Visibility *float64       `json:"visibility"`
	Weather    []owmCondition `json:"weather"`
	Pop        *float64       `json:"pop"`
}

func (p *OpenWeatherProvider) query(loc weather.Location) url.Values {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lat", coord(loc.Lat))
	values.Set("lon", coord(loc.Lon))
	return values
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	var payload struct {
		owmEntry
		Name string `json:"name"`
	}
	if err := p.getJSON(ctx, p.baseURL+"/weather", p.query(loc), &payload); err != nil {
		return weather.Reading{}, err
	}

	r := p.toReading(payload.owmEntry)
	r.Place = payload.Name
	return r, nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Reading, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	var payload struct {
		List []owmEntry `json:"list"`
		City struct {
			Name string `json:"name"`
		} `json:"city"`
	}
	if err := p.getJSON(ctx, p.baseURL+"/forecast", p.query(loc), &payload); err != nil {
		return nil, err
	}

	out := make([]weather.Reading, 0, len(payload.List))
	for _, e := range payload.List {
		r := p.toReading(e)
		r.Place = payload.City.Name
		out = append(out, r)
	}
	return out, nil
}

func (p *OpenWeatherProvider) toReading(e owmEntry) weather.Reading {
	r := weather.Reading{
		ProviderName: p.name,
		Temperature:  e.Main.Temp,
		FeelsLike:    e.Main.FeelsLike,
		Humidity:     e.Main.Humidity,
		Pressure:     e.Main.Pressure,
		WindSpeed:    e.Wind.Speed,
		WindDeg:      e.Wind.Deg,
		Clouds:       e.Clouds.All,
		Visibility:   e.Visibility,
		Pop:          e.Pop,
	}
	if e.Dt > 0 {
		r.Timestamp = time.Unix(e.Dt, 0).UTC()
	}
	if len(e.Weather) > 0 {
		w := e.Weather[0]
		if w.ID > 0 {
			r.ConditionID = weather.Int(w.ID)
		}
		if w.Main != "" {
			r.Condition = weather.Condition(strings.TrimSpace(w.Main))
		}
		r.Description = w.Description
		r.Icon = w.Icon
	}
	return r
}
