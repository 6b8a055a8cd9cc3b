package advisor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// Notification types.
const (
	NotifyTemperatureChange = "temperature_change"
	NotifyPrecipitation     = "precipitation"
	NotifyExtremeHeat       = "extreme_heat"
	NotifyExtremeCold       = "extreme_cold"
	NotifyThunderstorm      = "thunderstorm"
	NotifyIdealWeather      = "ideal_weather"
	NotifyDrySpell          = "dry_spell"
)

// Notification priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Notification is a smart alert about the upcoming days. ID and CreatedAt
// are stamped by the caller.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifications scans the forecast days and returns at most one notification
// per category, in category order: temperature change, precipitation, severe
// weather, ideal weather, dry spell. The result is never nil.
func Notifications(days []weather.DaySummary) []Notification {
	out := []Notification{}
	if n, ok := temperatureChange(days); ok {
		out = append(out, n)
	}
	if n, ok := precipitation(days); ok {
		out = append(out, n)
	}
	if n, ok := severeWeather(days); ok {
		out = append(out, n)
	}
	if n, ok := idealWeather(days); ok {
		out = append(out, n)
	}
	if n, ok := drySpell(days); ok {
		out = append(out, n)
	}
	return out
}

func temperatureChange(days []weather.DaySummary) (Notification, bool) {
	for i := 0; i+1 < len(days); i++ {
		cur, next := days[i].MaxTemp, days[i+1].MaxTemp
		diff := next - cur
		if math.Abs(diff) < 5 {
			continue
		}
		dir := "rise"
		if diff < 0 {
			dir = "drop"
		}
		return Notification{
			Type:     NotifyTemperatureChange,
			Priority: PriorityMedium,
			Title:    fmt.Sprintf("Temperature %s on %s", dir, days[i+1].DayName),
			Message: fmt.Sprintf("Prepare for a %dC temperature %s from %dC to %dC.",
				absInt(roundInt(diff)), dir, roundInt(cur), roundInt(next)),
			Icon: "temperature-change",
		}, true
	}
	return Notification{}, false
}

func precipitationKind(c weather.Condition) string {
	switch {
	case c.Is("thunderstorm"):
		return "thunderstorms"
	case c.Is("snow"):
		return "snow"
	default:
		return "rain"
	}
}

func precipitation(days []weather.DaySummary) (Notification, bool) {
	for i, d := range days {
		pct := int(d.Pop * 100)
		switch {
		case d.Pop >= 0.7:
			kind := precipitationKind(d.Weather)
			return Notification{
				Type:     NotifyPrecipitation,
				Priority: PriorityHigh,
				Title:    fmt.Sprintf("%s expected on %s", capitalize(kind), d.DayName),
				Message: fmt.Sprintf("High chance (%d%%) of %s on %s. Plan indoor activities or bring appropriate gear.",
					pct, kind, d.DayName),
				Icon: kind,
			}, true
		case d.Pop >= 0.4 && i <= 2:
			return Notification{
				Type:     NotifyPrecipitation,
				Priority: PriorityMedium,
				Title:    fmt.Sprintf("Possible rain on %s", d.DayName),
				Message: fmt.Sprintf("Moderate chance (%d%%) of precipitation on %s. Consider bringing rain gear.",
					pct, d.DayName),
				Icon: "cloudy-rain",
			}, true
		}
	}
	return Notification{}, false
}

// severeWeather reports the first extreme heat, extreme cold or thunderstorm
// day, checked in that order within each day.
func severeWeather(days []weather.DaySummary) (Notification, bool) {
	for _, d := range days {
		switch {
		case d.MaxTemp > 35:
			return Notification{
				Type:     NotifyExtremeHeat,
				Priority: PriorityHigh,
				Title:    "Extreme heat on " + d.DayName,
				Message: fmt.Sprintf("Temperatures expected to reach %dC on %s. Stay hydrated and avoid extended sun exposure.",
					roundInt(d.MaxTemp), d.DayName),
				Icon: "extreme-heat",
			}, true
		case d.MinTemp < -10:
			return Notification{
				Type:     NotifyExtremeCold,
				Priority: PriorityHigh,
				Title:    "Extreme cold on " + d.DayName,
				Message: fmt.Sprintf("Temperatures expected to drop to %dC on %s. Limit time outdoors and dress in layers.",
					roundInt(d.MinTemp), d.DayName),
				Icon: "extreme-cold",
			}, true
		case d.Weather.Is("thunderstorm"):
			return Notification{
				Type:     NotifyThunderstorm,
				Priority: PriorityHigh,
				Title:    "Thunderstorms on " + d.DayName,
				Message: fmt.Sprintf("Thunderstorms expected on %s. Stay indoors during storms and be prepared for possible power outages.",
					d.DayName),
				Icon: "thunderstorm",
			}, true
		}
	}
	return Notification{}, false
}

func ideal(d weather.DaySummary) bool {
	return d.Weather.Is("clear", "clouds") && d.Pop < 0.2 &&
		d.MaxTemp >= 18 && d.MaxTemp <= 28 && d.MinTemp >= 10
}

func idealWeather(days []weather.DaySummary) (Notification, bool) {
	var names []string
	for _, d := range days {
		if ideal(d) {
			names = append(names, d.DayName)
		}
	}
	switch len(names) {
	case 0:
		return Notification{}, false
	case 1:
		return Notification{
			Type:     NotifyIdealWeather,
			Priority: PriorityLow,
			Title:    "Perfect weather on " + names[0],
			Message: fmt.Sprintf("Ideal conditions for outdoor activities on %s. Great day for hiking, picnics, or any outdoor plans.",
				names[0]),
			Icon: "sunny",
		}, true
	default:
		return Notification{
			Type:     NotifyIdealWeather,
			Priority: PriorityLow,
			Title:    "Perfect weather ahead",
			Message: fmt.Sprintf("Ideal conditions for outdoor activities on %s. Great days for hiking, picnics, or any outdoor plans.",
				joinAnd(names)),
			Icon: "sunny",
		}, true
	}
}

func drySpell(days []weather.DaySummary) (Notification, bool) {
	if len(days) < 3 {
		return Notification{}, false
	}
	for _, d := range days {
		if d.Pop > 0.3 {
			return Notification{}, false
		}
	}
	n := len(days)
	return Notification{
		Type:     NotifyDrySpell,
		Priority: PriorityMedium,
		Title:    fmt.Sprintf("Dry spell for next %d days", n),
		Message: fmt.Sprintf("No significant rain expected for the next %d days. Good opportunity for outdoor projects that require dry weather.",
			n),
		Icon: "drought",
	}, true
}

// joinAnd renders "A", "A and B" or "A, B and C".
func joinAnd(items []string) string {
	if len(items) <= 1 {
		return strings.Join(items, "")
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
