package advisor

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/weather"
)

const outlookDays = 5

// OutlookWeather is the condition of one outlook day.
type OutlookWeather struct {
	Main weather.Condition `json:"main"`
	Icon string            `json:"icon"`
}

// OutlookDay is one day of the simulated health outlook.
type OutlookDay struct {
	Day             string         `json:"day"`
	Date            string         `json:"date"`
	Weather         OutlookWeather `json:"weather"`
	Temp            float64        `json:"temp"`
	AirQualityIndex int            `json:"air_quality_index"`
	PollenLevel     int            `json:"pollen_level"`
	UVIndex         int            `json:"uv_index"`
	HealthRisk      int            `json:"health_risk"`
}

var outlookConditions = []OutlookWeather{
	{weather.ConditionClear, "01d"},
	{weather.ConditionClouds, "03d"},
	{weather.ConditionRain, "10d"},
	{weather.ConditionSnow, "13d"},
	{weather.ConditionThunderstorm, "11d"},
	{weather.ConditionMist, "50d"},
}

// Condition weights for outlookConditions, by temperature.
var (
	freezingWeights = []float64{0.05, 0.2, 0.1, 0.5, 0.05, 0.1}
	coolWeights     = []float64{0.2, 0.3, 0.2, 0.1, 0.1, 0.1}
	warmWeights     = []float64{0.3, 0.3, 0.2, 0, 0.1, 0.1}
)

// HealthOutlook simulates a five day health outlook starting at start from
// the current observation at latitude lat. Temperatures drift day to day and
// conditions tend to persist.
func HealthOutlook(e common.Entropy, current weather.Observation, lat float64, start time.Time) []OutlookDay {
	out := make([]OutlookDay, 0, outlookDays)
	temp := current.Temp
	cond := OutlookWeather{Main: current.Condition, Icon: current.Icon}
	if cond.Icon == "" {
		cond.Icon = weather.IconForCode(current.ConditionID)
	}

	for i := 0; i < outlookDays; i++ {
		temp += common.Uniform(e, -3, 3)
		switch {
		case temp > 35:
			temp = 35 - common.Uniform(e, 0, 5)
		case temp < -15:
			temp = -15 + common.Uniform(e, 0, 5)
		}

		if i > 0 && e.Float64() >= 0.7 {
			cond = outlookConditions[weightedPick(e, outlookWeights(temp))]
		}

		aqi := outlookAirQuality(e, cond.Main)
		pollen := outlookPollen(e, cond.Main, current.WindSpeed)
		uv := outlookUV(e, cond.Main, lat)

		factors := 0
		if temp > 30 || temp < 0 {
			factors += 2
		}
		if uv > 7 {
			factors += 2
		}
		if aqi > 50 {
			factors += 2
		}
		if pollen > 5 {
			factors += 2
		}

		day := start.AddDate(0, 0, i)
		out = append(out, OutlookDay{
			Day:             day.Weekday().String(),
			Date:            day.Format("01/02"),
			Weather:         cond,
			Temp:            common.Round(temp, 1),
			AirQualityIndex: aqi,
			PollenLevel:     pollen,
			UVIndex:         uv,
			HealthRisk:      min(10, factors+common.IntBetween(e, 1, 3)),
		})
	}
	return out
}

func outlookWeights(temp float64) []float64 {
	switch {
	case temp < 0:
		return freezingWeights
	case temp < 10:
		return coolWeights
	default:
		return warmWeights
	}
}

// weightedPick returns an index into weights chosen proportionally.
func weightedPick(e common.Entropy, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := e.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

func outlookAirQuality(e common.Entropy, c weather.Condition) int {
	switch c {
	case weather.ConditionClear:
		return common.IntBetween(e, 30, 50)
	case weather.ConditionRain:
		return common.IntBetween(e, 20, 40)
	case weather.ConditionThunderstorm:
		return common.IntBetween(e, 30, 60)
	case weather.ConditionSnow:
		return common.IntBetween(e, 40, 60)
	default:
		return common.IntBetween(e, 40, 70)
	}
}

func outlookPollen(e common.Entropy, c weather.Condition, wind float64) int {
	switch {
	case c.Is("rain", "snow", "thunderstorm"):
		return common.IntBetween(e, 1, 3)
	case c == weather.ConditionClear && wind > 5:
		return common.IntBetween(e, 4, 7)
	default:
		return common.IntBetween(e, 2, 5)
	}
}

func outlookUV(e common.Entropy, c weather.Condition, lat float64) int {
	base := 3.0
	switch c {
	case weather.ConditionClear:
		base = 7
	case weather.ConditionClouds:
		base = 5
	}
	switch {
	case math.Abs(lat) < 20:
		base += 2
	case math.Abs(lat) > 50:
		base -= 2
	}
	return max(1, min(11, int(base+common.Uniform(e, -1, 1))))
}

// OutlookAlerts renders alert messages for the current conditions, each
// outlook day, the requested condition tags and the age group.
func OutlookAlerts(current weather.Observation, uv int, days []OutlookDay, age AgeGroup, conditions []string) []string {
	alerts := []string{}

	switch {
	case current.Temp > 35:
		alerts = append(alerts, "Heat alert: Drink plenty of fluids and avoid strenuous activity.")
	case current.Temp < 0:
		alerts = append(alerts, "Cold alert: Dress warmly in layers and protect exposed skin.")
	}
	if uv > 7 {
		alerts = append(alerts, "High UV alert: Use sunscreen and protective clothing.")
	}
	if current.Condition == weather.ConditionRain {
		alerts = append(alerts, "Rain alert: Be cautious when driving and watch out for flooding.")
	}
	if current.Condition == weather.ConditionThunderstorm {
		alerts = append(alerts, "Thunderstorm alert: Seek shelter during storms and avoid contact with water.")
	}

	for _, d := range days {
		switch {
		case d.Temp > 35:
			alerts = append(alerts, fmt.Sprintf("Heat alert for %s: Drink plenty of fluids and avoid strenuous activity.", d.Day))
		case d.Temp < 0:
			alerts = append(alerts, fmt.Sprintf("Cold alert for %s: Dress warmly in layers and protect exposed skin.", d.Day))
		}
		if d.UVIndex > 7 {
			alerts = append(alerts, fmt.Sprintf("High UV alert for %s: Use sunscreen and protective clothing.", d.Day))
		}
		if d.Weather.Main == weather.ConditionRain {
			alerts = append(alerts, fmt.Sprintf("Rain alert for %s: Be cautious when driving and watch out for flooding.", d.Day))
		}
		if d.Weather.Main == weather.ConditionThunderstorm {
			alerts = append(alerts, fmt.Sprintf("Thunderstorm alert for %s: Seek shelter during storms and avoid contact with water.", d.Day))
		}
		if d.AirQualityIndex > 50 {
			alerts = append(alerts, fmt.Sprintf("Air quality alert for %s: Check air quality levels and avoid strenuous activity if you are sensitive.", d.Day))
		}
		if d.PollenLevel > 5 {
			alerts = append(alerts, fmt.Sprintf("Pollen alert for %s: Check pollen levels and take precautions if you have allergies.", d.Day))
		}
		if d.HealthRisk > 7 {
			alerts = append(alerts, fmt.Sprintf("High health risk for %s: Take extra care and consider avoiding outdoor activities.", d.Day))
		}
	}

	for _, c := range normalizeTags(conditions) {
		if msg, ok := generalAlerts[c]; ok {
			alerts = append(alerts, msg)
		}
	}

	switch age {
	case AgeChild:
		alerts = append(alerts,
			"Keep children hydrated and indoors during extreme weather conditions.",
			"Monitor children for signs of heat stroke or hypothermia.")
	case AgeSenior:
		alerts = append(alerts,
			"Encourage elderly people to stay hydrated and seek medical attention if experiencing heat stroke or hypothermia.",
			"Check on elderly neighbors during extreme weather.")
	}
	return alerts
}

var generalAlerts = map[string]string{
	"heat":         "General heat alert: Drink plenty of fluids and take it easy in the heat.",
	"cold":         "General cold alert: Dress warmly and protect yourself from the cold.",
	"rain":         "General rain alert: Watch out for flooding and be cautious when driving.",
	"thunderstorm": "General thunderstorm alert: Stay indoors during storms.",
	"air_quality":  "General air quality alert: Check air quality and take precautions if sensitive.",
	"pollen":       "General pollen alert: Check pollen levels and take precautions if you have allergies.",
}
