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

const (
	openMeteoTimeLayout = "2006-01-02T15:04"
	openMeteoVariables  = "temperature_2m,apparent_temperature,relative_humidity_2m,pressure_msl,wind_speed_10m,wind_direction_10m,cloud_cover,weather_code"
)

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo. It
// needs no API key.
type OpenMeteoProvider struct {
	name         string
	baseURL      string
	forecastDays int
	client
}

func NewOpenMeteoProvider(hc *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:         "openmeteo",
		baseURL:      "https://api.open-meteo.com/v1/forecast",
		forecastDays: 5,
		client:       newClient("openmeteo", hc),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) query(loc weather.Location) url.Values {
	values := url.Values{}
	values.Set("latitude", coord(loc.Lat))
	values.Set("longitude", coord(loc.Lon))
	values.Set("wind_speed_unit", "ms")
	values.Set("timezone", "UTC")
	return values
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	values := p.query(loc)
	values.Set("current", openMeteoVariables)

	var payload struct {
		Current struct {
			Time          string   `json:"time"`
			Temperature   *float64 `json:"temperature_2m"`
			Apparent      *float64 `json:"apparent_temperature"`
			Humidity      *float64 `json:"relative_humidity_2m"`
			Pressure      *float64 `json:"pressure_msl"`
			WindSpeed     *float64 `json:"wind_speed_10m"`
			WindDirection *float64 `json:"wind_direction_10m"`
			CloudCover    *float64 `json:"cloud_cover"`
			WeatherCode   *int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := p.getJSON(ctx, p.baseURL, values, &payload); err != nil {
		return weather.Reading{}, err
	}

	c := payload.Current
	r := weather.Reading{
		ProviderName: p.name,
		Timestamp:    parseOpenMeteoTime(c.Time),
		Temperature:  c.Temperature,
		FeelsLike:    c.Apparent,
		Humidity:     c.Humidity,
		Pressure:     c.Pressure,
		WindSpeed:    c.WindSpeed,
		WindDeg:      degrees(c.WindDirection),
		Clouds:       c.CloudCover,
	}
	applyWMO(&r, c.WeatherCode)
	return r, nil
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Reading, error) {
	values := p.query(loc)
	values.Set("hourly", openMeteoVariables+",precipitation_probability,visibility")
	values.Set("forecast_days", fmt.Sprint(p.forecastDays))

	var payload struct {
		Hourly struct {
			Time          []string   `json:"time"`
			Temperature   []*float64 `json:"temperature_2m"`
			Apparent      []*float64 `json:"apparent_temperature"`
			Humidity      []*float64 `json:"relative_humidity_2m"`
			Pressure      []*float64 `json:"pressure_msl"`
			WindSpeed     []*float64 `json:"wind_speed_10m"`
			WindDirection []*float64 `json:"wind_direction_10m"`
			CloudCover    []*float64 `json:"cloud_cover"`
			WeatherCode   []*int     `json:"weather_code"`
			PrecipProb    []*float64 `json:"precipitation_probability"`
			Visibility    []*float64 `json:"visibility"`
		} `json:"hourly"`
	}
	if err := p.getJSON(ctx, p.baseURL, values, &payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	out := make([]weather.Reading, 0, len(h.Time))
	for i, ts := range h.Time {
		r := weather.Reading{
			ProviderName: p.name,
			Timestamp:    parseOpenMeteoTime(ts),
			Temperature:  at(h.Temperature, i),
			FeelsLike:    at(h.Apparent, i),
			Humidity:     at(h.Humidity, i),
			Pressure:     at(h.Pressure, i),
			WindSpeed:    at(h.WindSpeed, i),
			WindDeg:      degrees(at(h.WindDirection, i)),
			Clouds:       at(h.CloudCover, i),
			Visibility:   at(h.Visibility, i),
		}
		// Open-Meteo reports probability as a percentage.
		if pp := at(h.PrecipProb, i); pp != nil {
			r.Pop = weather.Float(*pp / 100)
		}
		applyWMO(&r, at(h.WeatherCode, i))
		out = append(out, r)
	}
	return out, nil
}

func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func degrees(v *float64) *int {
	if v == nil {
		return nil
	}
	return weather.Int(int(*v))
}

func parseOpenMeteoTime(s string) time.Time {
	if ts, err := time.ParseInLocation(openMeteoTimeLayout, s, time.UTC); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC()
	}
	return time.Time{}
}

type wmoCondition struct {
	id          int
	description string
}

// wmoConditions translates WMO weather interpretation codes into the
// OpenWeatherMap condition numbering used throughout the service.
var wmoConditions = map[int]wmoCondition{
	0:  {800, "clear sky"},
	1:  {801, "mainly clear"},
	2:  {802, "partly cloudy"},
	3:  {804, "overcast"},
	45: {741, "fog"},
	48: {741, "depositing rime fog"},
	51: {300, "light drizzle"},
	53: {301, "drizzle"},
	55: {302, "dense drizzle"},
	56: {311, "freezing drizzle"},
	57: {311, "dense freezing drizzle"},
	61: {500, "light rain"},
	63: {501, "moderate rain"},
	65: {502, "heavy rain"},
	66: {511, "freezing rain"},
	67: {511, "heavy freezing rain"},
	71: {600, "light snow"},
	73: {601, "snow"},
	75: {602, "heavy snow"},
	77: {600, "snow grains"},
	80: {520, "light rain showers"},
	81: {521, "rain showers"},
	82: {522, "violent rain showers"},
	85: {620, "light snow showers"},
	86: {621, "heavy snow showers"},
	95: {211, "thunderstorm"},
	96: {202, "thunderstorm with slight hail"},
	99: {202, "thunderstorm with heavy hail"},
}

func applyWMO(r *weather.Reading, code *int) {
	if code == nil {
		return
	}
	c, ok := wmoConditions[*code]
	if !ok {
		return
	}
	r.ConditionID = weather.Int(c.id)
	r.Condition = weather.ConditionForCode(c.id)
	r.Description = strings.ToLower(c.description)
}
