package advisor

import (
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// Quality grades used by the planting and harvesting classifiers.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityPoor      = "poor"
)

// Evapotranspiration risk levels.
const (
	RiskHigh     = "high"
	RiskModerate = "moderate"
	RiskLow      = "low"
)

// WateringTime is one suggested watering slot.
type WateringTime struct {
	Day     string `json:"day"`
	Time    string `json:"time"`
	Quality string `json:"quality"`
	Reason  string `json:"reason"`
}

// WateringSchedule is the result of ScheduleWatering.
type WateringSchedule struct {
	WateringTimes          []WateringTime `json:"watering_times"`
	EvapotranspirationRisk string         `json:"evapotranspiration_risk"`
	Advice                 []string       `json:"advice"`
}

// ScheduleWatering proposes watering slots for the dry days of the forecast.
// The day whose date equals today (YYYY-MM-DD) also gets an evening slot.
func ScheduleWatering(current weather.Observation, days []weather.DaySummary, today string) WateringSchedule {
	risk := RiskLow
	switch {
	case current.Temp > 25 && current.Humidity < 50:
		risk = RiskHigh
	case current.Temp > 20:
		risk = RiskModerate
	}

	s := WateringSchedule{
		WateringTimes:          []WateringTime{},
		EvapotranspirationRisk: risk,
		Advice:                 []string{},
	}

	rainy := 0
	for _, d := range days {
		if d.Pop > 0.4 {
			rainy++
			continue
		}
		s.WateringTimes = append(s.WateringTimes, WateringTime{
			Day: d.Date, Time: "06:00-08:00", Quality: QualityExcellent,
			Reason: "Low evaporation and good absorption",
		})
		if d.Date == today {
			s.WateringTimes = append(s.WateringTimes, WateringTime{
				Day: d.Date, Time: "19:00-21:00", Quality: QualityGood,
				Reason: "Lower evaporation but increased disease risk",
			})
		}
	}

	if risk == RiskHigh {
		s.Advice = append(s.Advice,
			"Water deeply and less frequently to encourage deep root growth",
			"Consider using mulch to reduce soil moisture evaporation")
	}
	if rainy >= 2 {
		s.Advice = append(s.Advice, "Natural rainfall may reduce watering needs on some days")
	}
	if current.Humidity < 40 {
		s.Advice = append(s.Advice, "Consider using a soaker hose or drip irrigation to reduce water waste")
	}
	return s
}

// DayQuality grades one forecast day for a garden activity.
type DayQuality struct {
	Date    string   `json:"date"`
	DayName string   `json:"day_name"`
	Quality string   `json:"quality"`
	Reasons []string `json:"reasons"`
}

// PlantingDays grades each day for transplanting: temperature between 10 and
// 25 at night, light wind and a low chance of rain.
func PlantingDays(days []weather.DaySummary) []DayQuality {
	out := make([]DayQuality, 0, len(days))
	for _, d := range days {
		tempOK := d.MinTemp >= 10 && d.MinTemp <= 25
		windOK := d.WindSpeed < 5
		rainOK := d.Pop < 0.5

		q := QualityPoor
		switch {
		case tempOK && windOK && rainOK:
			q = QualityExcellent
		case tempOK && (windOK || rainOK):
			q = QualityGood
		}

		var reasons []string
		if !tempOK {
			if d.MinTemp < 10 {
				reasons = append(reasons, "Soil too cold")
			} else {
				reasons = append(reasons, "Too hot for transplanting")
			}
		}
		if !windOK {
			reasons = append(reasons, "Wind may stress new plants")
		}
		if !rainOK {
			reasons = append(reasons, "Heavy rain may damage seedlings")
		}
		if len(reasons) == 0 {
			reasons = []string{"Favorable conditions for planting"}
		}
		out = append(out, DayQuality{Date: d.Date, DayName: d.DayName, Quality: q, Reasons: reasons})
	}
	return out
}

// HarvestingDays grades each day for harvesting: not too hot and dry.
func HarvestingDays(days []weather.DaySummary) []DayQuality {
	out := make([]DayQuality, 0, len(days))
	for _, d := range days {
		cool := d.MaxTemp < 30
		dry := d.Pop < 0.3

		q := QualityPoor
		switch {
		case cool && dry:
			q = QualityExcellent
		case cool || dry:
			q = QualityGood
		}

		var reasons []string
		if !cool {
			reasons = append(reasons, "High temperatures may reduce quality")
		}
		if !dry {
			reasons = append(reasons, "Rain may make harvesting difficult")
		}
		if len(reasons) == 0 {
			reasons = []string{"Favorable conditions for harvesting"}
		}
		out = append(out, DayQuality{Date: d.Date, DayName: d.DayName, Quality: q, Reasons: reasons})
	}
	return out
}

// PestWarning flags conditions that favour a family of garden pests.
type PestWarning struct {
	Type   string   `json:"type"`
	Risk   string   `json:"risk"`
	Pests  []string `json:"pests"`
	Advice string   `json:"advice"`
}

func pest(when func(weather.Observation) bool, w PestWarning) Rule[weather.Observation, []PestWarning] {
	return Rule[weather.Observation, []PestWarning]{
		When:  func(o weather.Observation, _ *[]PestWarning) bool { return when(o) },
		Apply: func(_ weather.Observation, acc *[]PestWarning) { *acc = append(*acc, w) },
	}
}

var (
	fungalRules = Ladder[weather.Observation, []PestWarning]{
		pest(func(o weather.Observation) bool { return o.Humidity > 70 && o.Temp >= 15 && o.Temp <= 25 },
			PestWarning{"fungal", RiskHigh, []string{"Powdery mildew", "Leaf spot", "Blight"},
				"Increase spacing between plants for better airflow. Avoid overhead watering."}),
		pest(func(o weather.Observation) bool { return o.Humidity > 60 && o.Temp >= 10 && o.Temp <= 28 },
			PestWarning{"fungal", RiskModerate, []string{"Powdery mildew", "Root rot"},
				"Monitor plants closely. Water at the base rather than leaves."}),
	}

	insectRules = Ladder[weather.Observation, []PestWarning]{
		pest(func(o weather.Observation) bool { return o.Temp > 25 },
			PestWarning{"insect", RiskHigh, []string{"Aphids", "Spider mites", "Whiteflies"},
				"Check undersides of leaves regularly. Consider neem oil or insecticidal soap."}),
		pest(func(o weather.Observation) bool { return o.Temp > 20 },
			PestWarning{"insect", RiskModerate, []string{"Aphids", "Beetles"},
				"Monitor plants for signs of insect damage."}),
	}

	molluscRule = pest(func(o weather.Observation) bool { return o.Condition.Is("rain", "drizzle") && o.Humidity > 70 },
		PestWarning{"mollusc", RiskHigh, []string{"Slugs", "Snails"},
			"Apply slug deterrents. Check plants in the evening with a flashlight."})
)

// PestWarnings lists pest risks for the current conditions. The result is
// never nil.
func PestWarnings(current weather.Observation) []PestWarning {
	out := []PestWarning{}
	fungalRules.First(current, &out)
	insectRules.First(current, &out)
	Ladder[weather.Observation, []PestWarning]{molluscRule}.Run(current, &out)
	return out
}

// GardenTasks suggests tasks from the current conditions, a three day
// look-ahead and the season of month.
func GardenTasks(current weather.Observation, days []weather.DaySummary, month time.Month) []string {
	var rainSoon, frostSoon, heatSoon bool
	for i, d := range days {
		if i >= 3 {
			break
		}
		rainSoon = rainSoon || d.Pop > 0.5
		frostSoon = frostSoon || d.MinTemp < 2
		heatSoon = heatSoon || d.MaxTemp > 30
	}

	tasks := []string{}
	if current.Condition.Is("clear", "clouds") && !rainSoon {
		tasks = append(tasks, "Good time to apply fertilizer")
	}
	if rainSoon {
		tasks = append(tasks, "Cover sensitive plants before rain arrives", "Ensure proper drainage to prevent waterlogging")
	}
	if frostSoon {
		tasks = append(tasks, "Protect tender plants from upcoming frost", "Harvest frost-sensitive vegetables")
	}
	if heatSoon {
		tasks = append(tasks, "Apply mulch to retain soil moisture", "Set up shade cloth for sensitive plants")
	}
	if current.Temp > 25 {
		tasks = append(tasks, "Check irrigation systems and increase watering if needed")
	}
	if current.Condition.Is("rain", "drizzle") {
		tasks = append(tasks, "Good time for transplanting", "Hold off on pruning until dry weather returns")
	}

	switch {
	case month >= time.March && month <= time.May:
		tasks = append(tasks, "Start sowing warm-season crops", "Begin regular pest monitoring")
	case month >= time.June && month <= time.August:
		tasks = append(tasks, "Monitor for signs of drought stress", "Harvest mature vegetables promptly")
	case month >= time.September && month <= time.November:
		tasks = append(tasks, "Begin preparing garden for cooler weather", "Consider planting cover crops")
	default:
		tasks = append(tasks, "Plan next season's garden layout", "Maintain composting during winter months")
	}
	return tasks
}
