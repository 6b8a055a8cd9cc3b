// Package indices estimates health-related indices from a single weather
// observation. Every function is total and deterministic; results are
// clamped to their documented ranges.
package indices

import (
	"math"

	"github.com/i474232898/weather-insights/internal/weather"
)

// HealthIndexSet is the set of indices derived from one observation.
type HealthIndexSet struct {
	UVIndex             int     `json:"uv_index"`             // 1..11
	AirQuality          int     `json:"air_quality"`          // 1 good .. 5 very poor
	PollenLevel         int     `json:"pollen_level"`         // 1..5
	PrecipitationChance float64 `json:"precipitation_chance"` // 0..1
}

// Compute derives every index for obs.
func Compute(obs weather.Observation) HealthIndexSet {
	return HealthIndexSet{
		UVIndex:             UVIndex(obs),
		AirQuality:          AirQuality(obs),
		PollenLevel:         PollenLevel(obs),
		PrecipitationChance: PrecipitationChance(obs),
	}
}

// UVIndex estimates the UV index: 8 under a clear sky, 6 otherwise, reduced
// by up to 70% with cloud cover.
func UVIndex(obs weather.Observation) int {
	base := 6.0
	if obs.ConditionID == weather.CodeClear {
		base = 8
	}
	factor := 1 - (obs.Clouds/100)*0.7
	return clampInt(round(base*factor), 1, 11)
}

// AirQuality estimates the air quality index. Precipitation washes the air,
// atmosphere conditions (fog, dust, haze) worsen it, and calm wind raises it
// by up to 50%.
func AirQuality(obs weather.Observation) int {
	base := 3.0
	switch obs.Group() {
	case weather.GroupThunderstorm, weather.GroupDrizzle, weather.GroupRain, weather.GroupSnow:
		base = 2
	case weather.GroupAtmosphere:
		base = 4
	}
	windFactor := math.Max(0, 1-obs.WindSpeed/10)
	return clampInt(round(base*(1+windFactor*0.5)), 1, 5)
}

// PollenLevel estimates pollen: low during precipitation, high in clear or
// cloudy weather, reduced by 30% at very low or very high humidity.
func PollenLevel(obs weather.Observation) int {
	base := 4.0
	switch obs.Group() {
	case weather.GroupThunderstorm, weather.GroupDrizzle, weather.GroupRain, weather.GroupSnow:
		base = 1
	case weather.GroupAtmosphere:
		base = 3
	}
	if obs.Humidity < 30 || obs.Humidity > 80 {
		base *= 0.7
	}
	return clampInt(round(base), 1, 5)
}

// PrecipitationChance estimates the probability of precipitation in [0, 1].
func PrecipitationChance(obs weather.Observation) float64 {
	var base float64
	switch obs.Group() {
	case weather.GroupThunderstorm:
		base = 0.9
	case weather.GroupDrizzle:
		base = 0.7
	case weather.GroupRain, weather.GroupSnow:
		base = 0.8
	case weather.GroupAtmosphere:
		base = 0.3
	case weather.GroupClear:
		base = 0.1
	case weather.GroupClouds:
		base = 0.2 + (obs.Clouds/100)*0.4
	default:
		base = 0.2
	}
	chance := base * (1 + (obs.Humidity/100)*0.5)
	return math.Max(0, math.Min(1, chance))
}

// round rounds half to even.
func round(v float64) int {
	return int(math.RoundToEven(v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
