package advisor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/i474232898/weather-insights/internal/indices"
)

// Alert types.
const (
	AlertUV             = "uv"
	AlertAirQuality     = "air_quality"
	AlertPollen         = "pollen"
	AlertHeat           = "heat"
	AlertCold           = "cold"
	AlertRespiratory    = "respiratory"
	AlertCardiovascular = "cardiovascular"
	AlertMigraine       = "migraine"
	AlertJointPain      = "joint_pain"
	AlertAgeRelated     = "age_related"
)

// Alert is a health warning derived from the weather.
type Alert struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// HealthInput is what the health alert generator looks at.
type HealthInput struct {
	Temp       float64
	Humidity   float64
	Indices    indices.HealthIndexSet
	AgeGroup   AgeGroup
	Conditions []string // condition tags, e.g. "asthma", "joint pain"
}

// Condition tag families.
var (
	respiratoryTags    = []string{"asthma", "copd", "respiratory"}
	cardiovascularTags = []string{"heart", "cardiovascular"}
	migraineTags       = []string{"migraine", "headache"}
	jointTags          = []string{"arthritis", "joint pain"}
)

// normalizeTags lowercases and trims condition tags, dropping empty ones.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type alertList []Alert

func (l *alertList) add(typ, level, msg string) {
	*l = append(*l, Alert{Type: typ, Level: level, Message: msg})
}

func alert(when func(HealthInput) bool, typ, level, msg string) Rule[HealthInput, alertList] {
	return Rule[HealthInput, alertList]{
		When:  func(in HealthInput, _ *alertList) bool { return when(in) },
		Apply: func(_ HealthInput, l *alertList) { l.add(typ, level, msg) },
	}
}

var (
	uvAlerts = Ladder[HealthInput, alertList]{
		alert(func(in HealthInput) bool { return in.Indices.UVIndex >= 8 },
			AlertUV, "high", "Very high UV levels. Limit sun exposure between 10am-4pm."),
		alert(func(in HealthInput) bool { return in.Indices.UVIndex >= 6 },
			AlertUV, "moderate", "Moderate UV levels. Use sunscreen when outdoors."),
	}

	temperatureAlerts = Ladder[HealthInput, alertList]{
		alert(func(in HealthInput) bool { return in.Temp >= 32 },
			AlertHeat, "extreme", "Extreme heat. Stay hydrated and avoid extended outdoor activity."),
		alert(func(in HealthInput) bool { return in.Temp >= 27 },
			AlertHeat, "high", "High temperatures. Take breaks and stay hydrated during outdoor activities."),
		alert(func(in HealthInput) bool { return in.Temp <= 0 },
			AlertCold, "freezing", "Freezing temperatures. Bundle up and limit time outdoors."),
		alert(func(in HealthInput) bool { return in.Temp <= 5 },
			AlertCold, "cold", "Cold temperatures. Dress warmly when outdoors."),
	}

	ageAlerts = Ladder[HealthInput, alertList]{
		alert(func(in HealthInput) bool { return in.AgeGroup == AgeSenior && (in.Temp >= 28 || in.Temp <= 5) },
			AlertAgeRelated, "caution", "Temperature extremes particularly affect seniors. Take extra precautions."),
		alert(func(in HealthInput) bool { return in.AgeGroup == AgeChild && in.Indices.UVIndex >= 6 },
			AlertAgeRelated, "caution", "Children's skin is sensitive to UV. Use extra protection."),
	}
)

// conditionAlert produces the alert for one condition tag, if any.
func conditionAlert(in HealthInput, tag string) (Alert, bool) {
	switch {
	case slices.Contains(respiratoryTags, tag):
		if in.Indices.AirQuality >= 3 || in.Indices.PollenLevel >= 3 {
			return Alert{AlertRespiratory, "caution",
				fmt.Sprintf("Current conditions may aggravate %s. Keep medication accessible.", tag)}, true
		}
	case slices.Contains(cardiovascularTags, tag):
		if in.Temp >= 30 || in.Temp <= 0 {
			return Alert{AlertCardiovascular, "caution",
				"Extreme temperatures may stress the cardiovascular system. Avoid strenuous activity."}, true
		}
	case slices.Contains(migraineTags, tag):
		return Alert{AlertMigraine, "informational",
			"Weather changes may trigger migraines. Consider preventive measures."}, true
	case slices.Contains(jointTags, tag):
		if in.Humidity >= 70 || in.Temp <= 10 {
			return Alert{AlertJointPain, "informational",
				"Current conditions may aggravate joint pain. Consider indoor activities."}, true
		}
	}
	return Alert{}, false
}

// HealthAlerts evaluates index, temperature, condition and age rules in that
// order. The result is never nil.
func HealthAlerts(in HealthInput) []Alert {
	in.Conditions = normalizeTags(in.Conditions)
	l := alertList{}

	uvAlerts.First(in, &l)
	if in.Indices.AirQuality >= 4 {
		l.add(AlertAirQuality, "poor", "Poor air quality. Limit outdoor activity if you experience symptoms.")
	}
	if in.Indices.PollenLevel >= 4 {
		l.add(AlertPollen, "high", "High pollen levels. Take preventive medication if allergic.")
	}
	temperatureAlerts.First(in, &l)

	for _, tag := range in.Conditions {
		if a, ok := conditionAlert(in, tag); ok {
			l = append(l, a)
		}
	}

	ageAlerts.First(in, &l)
	return l
}

type recommendationInput struct {
	types      map[string]bool
	age        AgeGroup
	conditions []string
}

func (r recommendationInput) hasAny(types ...string) bool {
	for _, t := range types {
		if r.types[t] {
			return true
		}
	}
	return false
}

func (r recommendationInput) hasCondition(tags []string) bool {
	for _, c := range r.conditions {
		if slices.Contains(tags, c) {
			return true
		}
	}
	return false
}

type advice []string

func recommend(when func(recommendationInput) bool, lines ...string) Rule[recommendationInput, advice] {
	return Rule[recommendationInput, advice]{
		When:  func(in recommendationInput, _ *advice) bool { return when(in) },
		Apply: func(_ recommendationInput, a *advice) { *a = append(*a, lines...) },
	}
}

var healthRecommendations = Ladder[recommendationInput, advice]{
	recommend(func(r recommendationInput) bool { return r.hasAny(AlertUV) },
		"Use SPF 30+ sunscreen and reapply every 2 hours when outdoors",
		"Wear a wide-brimmed hat and UV-blocking sunglasses"),
	recommend(func(r recommendationInput) bool { return r.hasAny(AlertAirQuality) },
		"Keep windows closed during peak pollution hours",
		"Use air purifiers indoors if available"),
	recommend(func(r recommendationInput) bool { return r.hasAny(AlertPollen) },
		"Take antihistamines before symptoms start if you have allergies",
		"Shower after being outdoors to remove pollen from skin and hair"),
	recommend(func(r recommendationInput) bool { return r.hasAny(AlertHeat) },
		"Drink water regularly, even if not thirsty",
		"Wear lightweight, light-colored, loose-fitting clothing"),
	recommend(func(r recommendationInput) bool { return r.hasAny(AlertHeat) && r.age == AgeSenior },
		"Check on elderly friends and relatives during heat waves"),
	recommend(func(r recommendationInput) bool { return r.hasAny(AlertCold) },
		"Dress in layers with waterproof outer layer if precipitation expected",
		"Keep extremities covered with gloves, warm socks, and a hat"),

	recommend(func(r recommendationInput) bool {
		return r.hasCondition(respiratoryTags) && r.hasAny(AlertAirQuality, AlertPollen)
	},
		"Carry rescue medication at all times",
		"Consider wearing a mask outdoors on high pollution days"),
	recommend(func(r recommendationInput) bool {
		return r.hasCondition(cardiovascularTags) && r.hasAny(AlertHeat, AlertCold)
	},
		"Avoid sudden exertion in extreme temperatures",
		"Schedule outdoor activities during moderate temperature periods"),
	recommend(func(r recommendationInput) bool { return r.hasCondition(migraineTags) },
		"Track weather changes and take preventive medication if needed",
		"Stay hydrated to help prevent weather-related headaches"),
	recommend(func(r recommendationInput) bool { return r.hasCondition(jointTags) },
		"Apply heat therapy on cold days to relieve joint stiffness",
		"Consider indoor exercises during extreme weather"),

	recommend(func(r recommendationInput) bool { return r.age == AgeSenior },
		"Stay hydrated as older adults have a decreased ability to sense thirst"),
	recommend(func(r recommendationInput) bool { return r.age == AgeSenior && r.hasAny(AlertCold) },
		"Use extra layers as seniors are more sensitive to cold"),
	recommend(func(r recommendationInput) bool { return r.age == AgeChild && r.hasAny(AlertUV) },
		"Children need extra UV protection - use child-safe sunscreen"),
	recommend(func(r recommendationInput) bool { return r.age == AgeChild && r.hasAny(AlertHeat) },
		"Children dehydrate more quickly - encourage regular water breaks"),
}

// HealthRecommendations derives advice from the set of alert types present,
// the condition tags and the age group. The result is deduplicated and sorted.
func HealthRecommendations(alerts []Alert, age AgeGroup, conditions []string) []string {
	in := recommendationInput{types: make(map[string]bool, len(alerts)), age: age, conditions: normalizeTags(conditions)}
	for _, a := range alerts {
		in.types[a.Type] = true
	}

	var out advice
	healthRecommendations.Run(in, &out)
	return sortedUnique(out)
}
