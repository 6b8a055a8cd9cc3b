package advisor

import (
	"fmt"

	"github.com/i474232898/weather-insights/internal/weather"
)

// PackingList groups items to bring on a trip.
type PackingList struct {
	Clothing    []string `json:"clothing"`
	Accessories []string `json:"accessories"`
	Essentials  []string `json:"essentials"`
}

func (p *PackingList) add(clothing, accessories, essentials []string) {
	p.Clothing = append(p.Clothing, clothing...)
	p.Accessories = append(p.Accessories, accessories...)
	p.Essentials = append(p.Essentials, essentials...)
}

type tripWeather struct {
	min, max   float64
	rain, snow bool
	windy      bool
	clear      bool
}

func summarizeTrip(days []weather.DaySummary) tripWeather {
	t := tripWeather{min: days[0].MinTemp, max: days[0].MaxTemp}
	for _, d := range days {
		t.min = min(t.min, d.MinTemp)
		t.max = max(t.max, d.MaxTemp)
		t.rain = t.rain || wet(d.Weather)
		t.snow = t.snow || d.Weather.Is("snow")
		t.windy = t.windy || d.WindSpeed > 5
		t.clear = t.clear || d.Weather.Is("clear")
	}
	return t
}

func packing(when func(tripWeather) bool, clothing, accessories, essentials []string) Rule[tripWeather, PackingList] {
	return Rule[tripWeather, PackingList]{
		When:  func(t tripWeather, _ *PackingList) bool { return when == nil || when(t) },
		Apply: func(_ tripWeather, p *PackingList) { p.add(clothing, accessories, essentials) },
	}
}

var (
	temperaturePacking = Ladder[tripWeather, PackingList]{
		packing(func(t tripWeather) bool { return t.min < 5 },
			[]string{"Heavy coat or parka", "Thermal underlayers", "Sweaters/fleeces", "Warm pants", "Thick socks"},
			[]string{"Winter hat", "Gloves/mittens", "Scarf"}, nil),
		packing(func(t tripWeather) bool { return t.min < 15 },
			[]string{"Light jacket or coat", "Long-sleeved shirts", "Sweater or hoodie", "Pants/jeans"},
			[]string{"Light gloves if evenings are cool"}, nil),
	}

	conditionPacking = Ladder[tripWeather, PackingList]{
		packing(func(t tripWeather) bool { return t.max > 25 },
			[]string{"T-shirts", "Shorts", "Light pants", "Light dresses/skirts"},
			[]string{"Sunglasses", "Sun hat"}, []string{"Sunscreen"}),
		packing(func(t tripWeather) bool { return t.rain },
			[]string{"Waterproof jacket/rain coat"}, []string{"Umbrella", "Waterproof shoes/boots"}, nil),
		packing(func(t tripWeather) bool { return t.snow },
			[]string{"Snow boots"}, []string{"Waterproof gloves"}, []string{"Lip balm for dry conditions"}),
		packing(func(t tripWeather) bool { return t.windy },
			[]string{"Windbreaker"}, []string{"Secure hat that won't blow away"}, nil),
		packing(func(t tripWeather) bool { return t.clear },
			nil, []string{"Sunglasses"}, []string{"Sunscreen", "After-sun lotion"}),
		packing(nil, nil, nil,
			[]string{"Travel-sized toiletries", "Any necessary medications", "Phone charger", "Travel documents"}),
	}
)

// Packing builds a packing list for the trip days. Each list is deduplicated
// and sorted.
func Packing(days []weather.DaySummary) PackingList {
	if len(days) == 0 {
		return PackingList{
			Clothing:    []string{"Unable to generate recommendations"},
			Accessories: []string{},
			Essentials:  []string{"Check local weather before packing"},
		}
	}

	t := summarizeTrip(days)
	var p PackingList
	temperaturePacking.First(t, &p)
	conditionPacking.Run(t, &p)

	return PackingList{
		Clothing:    sortedUnique(p.Clothing),
		Accessories: sortedUnique(p.Accessories),
		Essentials:  sortedUnique(p.Essentials),
	}
}

// DayActivities suggests what to do, and what to avoid, on one day.
type DayActivities struct {
	Date           string            `json:"date"`
	DayName        string            `json:"day_name"`
	Weather        weather.Condition `json:"weather"`
	Temperature    string            `json:"temperature"`
	Recommended    []string          `json:"recommended"`
	NotRecommended []string          `json:"not_recommended"`
}

type activityPlan struct {
	yes, no []string
}

func activity(when func(weather.DaySummary) bool, yes, no []string) Rule[weather.DaySummary, activityPlan] {
	return Rule[weather.DaySummary, activityPlan]{
		When: func(d weather.DaySummary, _ *activityPlan) bool { return when(d) },
		Apply: func(_ weather.DaySummary, p *activityPlan) {
			p.yes = append(p.yes, yes...)
			p.no = append(p.no, no...)
		},
	}
}

func fair(d weather.DaySummary) bool {
	return d.Weather.Is("clear", "clouds") && d.Pop < 0.3
}

var activityRules = Ladder[weather.DaySummary, activityPlan]{
	activity(func(d weather.DaySummary) bool { return fair(d) && d.MaxTemp > 25 },
		[]string{"Beach visits", "Swimming", "Water parks"}, nil),
	activity(func(d weather.DaySummary) bool { return fair(d) && d.MaxTemp >= 15 && d.MaxTemp <= 28 },
		[]string{"Hiking", "Outdoor dining", "Sightseeing", "Park visits"}, nil),
	activity(func(d weather.DaySummary) bool { return fair(d) && d.MaxTemp < 28 && d.WindSpeed < 5 },
		[]string{"Cycling"}, nil),
	activity(func(d weather.DaySummary) bool { return wet(d.Weather) || d.Pop > 0.5 },
		[]string{"Museum visits", "Indoor shopping", "Local cuisine at restaurants", "Spa treatments"},
		[]string{"Beach activities", "Hiking", "Outdoor sports"}),
	activity(func(d weather.DaySummary) bool { return d.MaxTemp > 30 },
		[]string{"Indoor activities with air conditioning", "Water activities", "Early morning or evening outings"},
		[]string{"Extensive walking tours", "Midday outdoor activities"}),
	activity(func(d weather.DaySummary) bool { return d.MaxTemp < 5 },
		[]string{"Indoor cultural activities", "Coffee shops and cafes", "Shopping districts"}, nil),
	activity(func(d weather.DaySummary) bool { return d.MaxTemp < 5 && d.MinTemp < 0 },
		nil, []string{"Extended outdoor activities without proper gear", "Water sports"}),
	activity(func(d weather.DaySummary) bool { return d.WindSpeed > 8 },
		nil, []string{"Boating", "Paragliding", "Beach umbrellas may be difficult"}),
}

// Activities suggests activities per day.
func Activities(days []weather.DaySummary) []DayActivities {
	out := make([]DayActivities, 0, len(days))
	for _, d := range days {
		var p activityPlan
		activityRules.Run(d, &p)
		out = append(out, DayActivities{
			Date:           d.Date,
			DayName:        d.DayName,
			Weather:        d.Weather,
			Temperature:    fmt.Sprintf("%.1fC to %.1fC", d.MinTemp, d.MaxTemp),
			Recommended:    sortedUnique(p.yes),
			NotRecommended: sortedUnique(p.no),
		})
	}
	return out
}

// Risk is one weather hazard on a trip day.
type Risk struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Advice   string `json:"advice"`
}

// DayRisks lists the hazards of one day.
type DayRisks struct {
	Date    string `json:"date"`
	DayName string `json:"day_name"`
	Risks   []Risk `json:"risks"`
}

func risk(when func(weather.DaySummary) bool, r Risk) Rule[weather.DaySummary, []Risk] {
	return Rule[weather.DaySummary, []Risk]{
		When:  func(d weather.DaySummary, _ *[]Risk) bool { return when(d) },
		Apply: func(_ weather.DaySummary, acc *[]Risk) { *acc = append(*acc, r) },
	}
}

// Each ladder contributes at most one risk.
var riskLadders = []Ladder[weather.DaySummary, []Risk]{
	{risk(func(d weather.DaySummary) bool { return d.Weather.Is("thunderstorm") },
		Risk{"thunderstorm", "high", "Seek indoor shelter. Avoid open areas and water activities."})},
	{
		risk(func(d weather.DaySummary) bool { return d.Pop > 0.7 },
			Risk{"heavy_rain", "moderate", "Bring waterproof gear and shoes. Check for flood warnings."}),
		risk(func(d weather.DaySummary) bool { return d.Pop > 0.4 },
			Risk{"rain", "low", "Pack umbrella or light rain jacket."}),
	},
	{
		risk(func(d weather.DaySummary) bool { return d.MaxTemp > 32 },
			Risk{"extreme_heat", "high", "Stay hydrated. Avoid midday sun. Seek air-conditioned spaces."}),
		risk(func(d weather.DaySummary) bool { return d.MaxTemp > 28 },
			Risk{"heat", "moderate", "Use sunscreen. Drink plenty of water. Take shade breaks."}),
	},
	{
		risk(func(d weather.DaySummary) bool { return d.MinTemp < 0 },
			Risk{"freezing", "moderate", "Pack warm layers. Watch for icy surfaces."}),
		risk(func(d weather.DaySummary) bool { return d.MinTemp < 5 },
			Risk{"cold", "low", "Bring a jacket for morning and evening."}),
	},
	{risk(func(d weather.DaySummary) bool { return d.WindSpeed > 10 },
		Risk{"strong_wind", "moderate", "Secure loose items. Be cautious in exposed areas."})},
	{risk(func(d weather.DaySummary) bool { return d.Weather.Is("snow") },
		Risk{"snow", "moderate", "Check road conditions. Pack warm, waterproof clothing."})},
}

// WeatherRisks lists hazards per day. Days without any hazard are omitted.
func WeatherRisks(days []weather.DaySummary) []DayRisks {
	out := []DayRisks{}
	for _, d := range days {
		var risks []Risk
		for _, l := range riskLadders {
			l.First(d, &risks)
		}
		if len(risks) > 0 {
			out = append(out, DayRisks{Date: d.Date, DayName: d.DayName, Risks: risks})
		}
	}
	return out
}
