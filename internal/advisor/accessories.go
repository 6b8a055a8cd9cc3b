package advisor

import "github.com/i474232898/weather-insights/internal/weather"

// AccessoryItem is a recommended accessory and why.
type AccessoryItem struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// AccessoryInput is what the accessory generator looks at.
type AccessoryInput struct {
	Temp                float64
	Condition           weather.Condition
	PrecipitationChance float64
	UVIndex             int
	Activity            Activity
}

type accessoryList []AccessoryItem

func accessory(when func(AccessoryInput) bool, items ...AccessoryItem) Rule[AccessoryInput, accessoryList] {
	return Rule[AccessoryInput, accessoryList]{
		When: func(in AccessoryInput, _ *accessoryList) bool { return when(in) },
		Apply: func(_ AccessoryInput, l *accessoryList) {
			*l = append(*l, items...)
		},
	}
}

// Triggers are independent; every matching rule adds its items.
var accessoryRules = Ladder[AccessoryInput, accessoryList]{
	accessory(func(in AccessoryInput) bool { return needsRainGear(in.Condition, in.PrecipitationChance) },
		AccessoryItem{"Umbrella", "Rain protection"},
		AccessoryItem{"Waterproof footwear", "Keep feet dry"}),
	accessory(func(in AccessoryInput) bool { return in.Temp <= 10 },
		AccessoryItem{"Scarf", "Neck warmth"}),
	accessory(func(in AccessoryInput) bool { return in.Temp <= 5 },
		AccessoryItem{"Gloves", "Hand warmth"},
		AccessoryItem{"Hat or beanie", "Head warmth"}),
	accessory(func(in AccessoryInput) bool { return in.Temp <= 0 },
		AccessoryItem{"Thermal socks", "Foot warmth"}),
	accessory(func(in AccessoryInput) bool { return in.Temp >= 25 },
		AccessoryItem{"Water bottle", "Stay hydrated"}),
	accessory(func(in AccessoryInput) bool { return in.UVIndex >= 3 },
		AccessoryItem{"Sunglasses", "UV eye protection"},
		AccessoryItem{"Sunscreen", "Skin protection"}),
	accessory(func(in AccessoryInput) bool { return in.UVIndex >= 6 },
		AccessoryItem{"Hat with brim", "Shade for face and neck"}),
	accessory(func(in AccessoryInput) bool { return in.Activity == ActivitySport },
		AccessoryItem{"Athletic socks", "Comfort during activity"}),
	accessory(func(in AccessoryInput) bool { return in.Activity == ActivitySport && in.Temp >= 20 },
		AccessoryItem{"Sport water bottle", "Hydration during activity"}),
	accessory(func(in AccessoryInput) bool {
		return in.Activity == ActivityFormal && in.Condition.Is("rain", "drizzle")
	}, AccessoryItem{"Formal umbrella", "Rain protection"}),
}

// Accessories lists accessories for the conditions. The result is never nil.
func Accessories(in AccessoryInput) []AccessoryItem {
	l := accessoryList{}
	accessoryRules.Run(in, &l)
	return l
}
