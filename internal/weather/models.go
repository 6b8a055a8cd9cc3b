package weather

import (
	"fmt"
	"strings"
	"time"
)

// Condition is the top-level weather condition name reported by a source
// ("Clear", "Clouds", "Rain", ...). Atmosphere-family conditions keep their
// specific name ("Mist", "Fog", "Haze", ...).
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionSnow         Condition = "Snow"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionMist         Condition = "Mist"
	ConditionSmoke        Condition = "Smoke"
	ConditionHaze         Condition = "Haze"
	ConditionDust         Condition = "Dust"
	ConditionFog          Condition = "Fog"
	ConditionSand         Condition = "Sand"
)

// Lower returns the lowercase condition name used by the recommendation rules.
func (c Condition) Lower() string {
	return strings.ToLower(string(c))
}

// Is reports whether the condition matches any of the given names, ignoring case.
func (c Condition) Is(names ...string) bool {
	for _, n := range names {
		if strings.EqualFold(string(c), n) {
			return true
		}
	}
	return false
}

// Location is a point for which weather is requested.
type Location struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f:%.4f", l.Lat, l.Lon)
}

// Observation is a normalized snapshot of weather at one place and time.
// Values are always populated; absent upstream fields were replaced by
// defaults when the Reading was converted.
type Observation struct {
	Time        time.Time `json:"time"`
	Place       string    `json:"name,omitempty"`
	Temp        float64   `json:"temp"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"` // m/s
	WindDeg     int       `json:"wind_deg"`
	Clouds      float64   `json:"clouds"` // percent
	Visibility  float64   `json:"visibility"`
	ConditionID int       `json:"condition_id"`
	Condition   Condition `json:"weather"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// Group returns the condition family for the observation's condition code.
func (o Observation) Group() Group {
	return GroupOf(o.ConditionID)
}

// ForecastSample is one time-stamped observation from a forecast series.
type ForecastSample struct {
	Observation
	Pop float64 `json:"pop"` // probability of precipitation, 0..1
}

// HourlyEntry is the per-sample detail kept inside a DaySummary.
type HourlyEntry struct {
	Dt          int64     `json:"dt"`
	Time        string    `json:"time"`
	Temp        float64   `json:"temp"`
	FeelsLike   float64   `json:"feels_like"`
	Pressure    float64   `json:"pressure"`
	Humidity    float64   `json:"humidity"`
	Weather     Condition `json:"weather"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Clouds      float64   `json:"clouds"`
	WindSpeed   float64   `json:"wind_speed"`
	WindDeg     int       `json:"wind_deg"`
	Pop         float64   `json:"pop"`
}

// DaySummary aggregates all forecast samples that fall on one calendar date.
type DaySummary struct {
	Dt          int64         `json:"dt"`
	Date        string        `json:"date"`
	DayName     string        `json:"day_name"`
	MinTemp     float64       `json:"min_temp"`
	MaxTemp     float64       `json:"max_temp"`
	AvgTemp     float64       `json:"avg_temp"`
	Humidity    float64       `json:"humidity"`
	Pressure    float64       `json:"pressure"`
	Weather     Condition     `json:"weather"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	WindSpeed   float64       `json:"wind_speed"`
	Pop         float64       `json:"pop"`
	Hourly      []HourlyEntry `json:"hourly"`
}
