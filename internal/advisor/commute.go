package advisor

import (
	"fmt"
	"slices"

	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/weather"
)

// RoutePoint is a sampled position along a commute. Position runs from 0 at
// the start to 1 at the end.
type RoutePoint struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Position float64 `json:"position"`
}

const (
	routePoints = 5
	routeJitter = 0.005
)

// RoutePoints interpolates a straight route between the two ends. Interior
// points are nudged by a small random offset so they do not all fall on one
// line.
func RoutePoints(e common.Entropy, startLat, startLon, endLat, endLon float64) []RoutePoint {
	out := make([]RoutePoint, 0, routePoints)
	out = append(out, RoutePoint{Lat: startLat, Lon: startLon, Position: 0})
	for i := 1; i < routePoints-1; i++ {
		p := float64(i) / float64(routePoints-1)
		out = append(out, RoutePoint{
			Lat:      startLat + (endLat-startLat)*p + common.Uniform(e, -routeJitter, routeJitter),
			Lon:      startLon + (endLon-startLon)*p + common.Uniform(e, -routeJitter, routeJitter),
			Position: p,
		})
	}
	return append(out, RoutePoint{Lat: endLat, Lon: endLon, Position: 1})
}

// CommuteImpact summarises how the weather affects a commute.
type CommuteImpact struct {
	Severity     int      `json:"severity"`
	DelayMinutes int      `json:"delay_minutes"`
	Message      string   `json:"message"`
	Tips         []string `json:"tips"`
}

// Commute severities.
const (
	SeverityMinimal = iota
	SeverityMinor
	SeverityModerate
	SeveritySignificant
)

var delayRanges = map[int][2]int{
	SeverityMinor:       {3, 7},
	SeverityModerate:    {8, 15},
	SeveritySignificant: {15, 30},
}

var lowVisibility = []string{"fog", "mist", "haze", "smoke", "dust", "sand"}

// AssessCommute rates the commute from the weather at its start, middle and
// end. Severity is the highest of the precipitation, visibility and wind
// contributions; the delay is drawn from the severity's range.
func AssessCommute(e common.Entropy, start, mid, end weather.Observation) CommuteImpact {
	conds := []string{start.Condition.Lower(), mid.Condition.Lower(), end.Condition.Lower()}
	present := func(names ...string) bool {
		for _, n := range names {
			if slices.Contains(conds, n) {
				return true
			}
		}
		return false
	}

	precip := present("rain", "drizzle", "snow", "thunderstorm")
	storm := present("thunderstorm")
	lowVis := present(lowVisibility...)
	maxWind := max(start.WindSpeed, mid.WindSpeed, end.WindSpeed)

	severity := SeverityMinimal
	switch {
	case storm:
		severity = SeveritySignificant
	case present("snow"):
		severity = SeverityModerate
	case precip:
		severity = SeverityMinor
	}
	if lowVis {
		severity = max(severity, SeverityModerate)
	}
	switch {
	case maxWind > 10:
		severity = max(severity, SeverityModerate)
	case maxWind > 5:
		severity = max(severity, SeverityMinor)
	}

	delay := 0
	if r, ok := delayRanges[severity]; ok {
		delay = common.IntBetween(e, r[0], r[1])
	}

	var msg string
	switch severity {
	case SeverityMinimal:
		msg = "Good weather conditions. No significant impact on commute."
	case SeverityMinor:
		msg = fmt.Sprintf("Minor weather-related slowdowns possible. Allow %d extra minutes.", delay)
	case SeverityModerate:
		msg = fmt.Sprintf("Moderate weather impacts expected. Allow %d extra minutes and use caution.", delay)
	default:
		msg = fmt.Sprintf("Significant weather impacts expected. Allow %d+ extra minutes. Consider alternate routes.", delay)
	}

	tips := []string{}
	if precip {
		tips = append(tips, "Reduced visibility and slippery conditions possible")
		if storm {
			tips = append(tips, "Be alert for flooded areas and potential road closures")
		}
	}
	if lowVis {
		tips = append(tips, "Use headlights and maintain extra distance between vehicles")
	}
	if maxWind > 5 {
		tips = append(tips, "Be cautious of strong crosswinds, especially on bridges")
	}

	return CommuteImpact{Severity: severity, DelayMinutes: delay, Message: msg, Tips: tips}
}
