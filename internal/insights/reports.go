package insights

import (
	"time"

	"github.com/i474232898/weather-insights/internal/advisor"
	"github.com/i474232898/weather-insights/internal/weather"
)

// HyperLocalReport is the enriched forecast for one location.
type HyperLocalReport struct {
	Current             weather.Observation  `json:"current"`
	UVIndex             int                  `json:"uv_index"`
	AirQuality          int                  `json:"air_quality"`
	PollenLevel         int                  `json:"pollen_level"`
	PrecipitationChance float64              `json:"precipitation_chance"`
	Forecast            []weather.DaySummary `json:"forecast"`
	MicroClimate        advisor.MicroClimate `json:"micro_climate"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type HealthRequest struct {
	Location   weather.Location
	AgeGroup   advisor.AgeGroup
	Conditions []string
}

type HealthWeather struct {
	Temp        float64           `json:"temp"`
	Humidity    float64           `json:"humidity"`
	Pressure    float64           `json:"pressure"`
	WindSpeed   float64           `json:"wind_speed"`
	Weather     weather.Condition `json:"weather"`
	Description string            `json:"description"`
}

type HealthIndices struct {
	UVIndex     int `json:"uv_index"`
	AirQuality  int `json:"air_quality"`
	PollenLevel int `json:"pollen_level"`
}

// HealthReport carries health alerts for the current weather plus a
// simulated outlook.
type HealthReport struct {
	CurrentWeather  HealthWeather        `json:"current_weather"`
	HealthIndices   HealthIndices        `json:"health_indices"`
	Alerts          []advisor.Alert      `json:"alerts"`
	Recommendations []string             `json:"recommendations"`
	DailyOutlook    []advisor.OutlookDay `json:"daily_outlook"`
	OutlookAlerts   []string             `json:"outlook_alerts"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type ClothingRequest struct {
	Location weather.Location
	Gender   advisor.Gender
	Activity advisor.Activity
}

type ClothingWeather struct {
	Temp                float64           `json:"temp"`
	FeelsLike           float64           `json:"feels_like"`
	Humidity            float64           `json:"humidity"`
	WindSpeed           float64           `json:"wind_speed"`
	Weather             weather.Condition `json:"weather"`
	Description         string            `json:"description"`
	PrecipitationChance float64           `json:"precipitation_chance"`
}

type ClothingReport struct {
	CurrentWeather ClothingWeather         `json:"current_weather"`
	Clothing       []advisor.ClothingItem  `json:"clothing"`
	Accessories    []advisor.AccessoryItem `json:"accessories"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type HistoricalReport struct {
	CurrentTemperature float64                    `json:"current_temperature"`
	HistoricalAverages advisor.HistoricalAverages `json:"historical_averages"`
	Trends             advisor.Trends             `json:"trends"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

type CommuteRequest struct {
	Start weather.Location
	End   weather.Location
	// DepartureTime is RFC 3339 (or without offset, in the service timezone).
	// Empty means now.
	DepartureTime string
}

type PointSummary struct {
	Temp        float64           `json:"temp"`
	Condition   weather.Condition `json:"condition"`
	Description string            `json:"description"`
}

type CommuteEndpoint struct {
	Lat     float64      `json:"lat"`
	Lon     float64      `json:"lon"`
	Weather PointSummary `json:"weather"`
}

type RouteWeather struct {
	Temp        float64           `json:"temp"`
	Condition   weather.Condition `json:"condition"`
	Description string            `json:"description"`
	Icon        string            `json:"icon"`
}

type RouteForecast struct {
	Location advisor.RoutePoint `json:"location"`
	Weather  RouteWeather       `json:"weather"`
}

type CommuteReport struct {
	DepartureTime string                `json:"departure_time"`
	StartPoint    CommuteEndpoint       `json:"start_point"`
	EndPoint      CommuteEndpoint       `json:"end_point"`
	RouteForecast []RouteForecast       `json:"route_forecast"`
	Impact        advisor.CommuteImpact `json:"impact"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type GardenWeather struct {
	Temp        float64           `json:"temp"`
	Humidity    float64           `json:"humidity"`
	WindSpeed   float64           `json:"wind_speed"`
	Weather     weather.Condition `json:"weather"`
	Description string            `json:"description"`
}

type OptimalDays struct {
	Planting   []advisor.DayQuality `json:"planting"`
	Harvesting []advisor.DayQuality `json:"harvesting"`
}

type GardeningReport struct {
	CurrentWeather   GardenWeather            `json:"current_weather"`
	WateringSchedule advisor.WateringSchedule `json:"watering_schedule"`
	OptimalDays      OptimalDays              `json:"optimal_days"`
	PestWarnings     []advisor.PestWarning    `json:"pest_warnings"`
	GardenTasks      []string                 `json:"garden_tasks"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

type TripRequest struct {
	Location  weather.Location
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

type TripDates struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type TripReport struct {
	Location     string                  `json:"location"`
	TripDates    TripDates               `json:"trip_dates"`
	Forecast     []weather.DaySummary    `json:"forecast"`
	PackingList  advisor.PackingList     `json:"packing_list"`
	Activities   []advisor.DayActivities `json:"activities"`
	WeatherRisks []advisor.DayRisks      `json:"weather_risks"`
	UpdatedAt    time.Time               `json:"updated_at"`
}
