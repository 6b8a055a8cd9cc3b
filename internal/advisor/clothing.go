package advisor

import (
	"strings"

	"github.com/i474232898/weather-insights/internal/weather"
)

// Clothing slots.
const (
	SlotTop   = "top"
	SlotBot   = "bottom"
	SlotBase  = "base_layer"
	SlotMid   = "mid_layer"
	SlotOuter = "outer_layer"
)

// ClothingItem is one garment in an outfit.
type ClothingItem struct {
	Item string `json:"item"`
	Type string `json:"type"`
}

// ClothingInput is what the clothing generator looks at.
type ClothingInput struct {
	Temp                float64
	FeelsLike           float64
	Humidity            float64
	WindSpeed           float64
	Condition           weather.Condition
	PrecipitationChance float64
	Gender              Gender
	Activity            Activity
}

type outfit struct {
	items []ClothingItem
}

func (o *outfit) add(item, slot string) {
	o.items = append(o.items, ClothingItem{Item: item, Type: slot})
}

func (o *outfit) has(slot string) bool {
	for _, it := range o.items {
		if it.Type == slot {
			return true
		}
	}
	return false
}

// rewrite replaces the item text of every garment in slot. It returns false
// if the slot is empty.
func (o *outfit) rewrite(slot string, fn func(item string) string) bool {
	found := false
	for i := range o.items {
		if o.items[i].Type == slot {
			o.items[i].Item = fn(o.items[i].Item)
			found = true
		}
	}
	return found
}

type garment struct {
	slot string
	item map[Gender]string // GenderNeutral is the fallback
}

func g(slot, neutral string, byGender ...string) garment {
	m := map[Gender]string{GenderNeutral: neutral}
	if len(byGender) > 0 && byGender[0] != "" {
		m[GenderMale] = byGender[0]
	}
	if len(byGender) > 1 && byGender[1] != "" {
		m[GenderFemale] = byGender[1]
	}
	return garment{slot: slot, item: m}
}

func (gm garment) forGender(gd Gender) string {
	if s, ok := gm.item[gd]; ok {
		return s
	}
	return gm.item[GenderNeutral]
}

// clothingBands maps effective temperature (feels-like) to a base outfit,
// hottest band first. g(slot, neutral, male, female).
var clothingBands = []struct {
	min      float64
	garments []garment
}{
	{30, []garment{
		g(SlotTop, "Light top", "T-shirt", "Light top"),
		g(SlotBot, "Shorts", "Shorts", "Shorts or skirt"),
	}},
	{25, []garment{
		g(SlotTop, "T-shirt", "T-shirt", "Light top or t-shirt"),
		g(SlotBot, "Shorts or light pants", "Shorts or light pants", "Shorts, skirt, or light pants"),
	}},
	{20, []garment{
		g(SlotTop, "Light shirt", "Light shirt", "Light blouse or t-shirt"),
		g(SlotBot, "Light pants", "Light pants", "Light pants or casual skirt"),
	}},
	{15, []garment{
		g(SlotTop, "Long-sleeved shirt", "Long-sleeved shirt", "Long-sleeved top"),
		g(SlotBot, "Pants", "Pants", "Pants or long skirt"),
	}},
	{10, []garment{
		g(SlotTop, "Long-sleeved shirt", "Long-sleeved shirt", "Long-sleeved top"),
		g(SlotMid, "Light sweater", "Light sweater", "Light sweater or cardigan"),
		g(SlotBot, "Pants", "Pants", "Pants or long skirt"),
	}},
	{5, []garment{
		g(SlotTop, "Long-sleeved shirt", "Long-sleeved shirt", "Long-sleeved top"),
		g(SlotMid, "Sweater", "Sweater", "Sweater or cardigan"),
		g(SlotOuter, "Light jacket"),
		g(SlotBot, "Pants", "Pants", "Pants or jeans"),
	}},
	{0, []garment{
		g(SlotBase, "Thermal top", "Thermal undershirt", "Thermal top"),
		g(SlotTop, "Long-sleeved shirt", "Long-sleeved shirt", "Long-sleeved top"),
		g(SlotMid, "Sweater"),
		g(SlotOuter, "Jacket"),
		g(SlotBot, "Pants", "Pants", "Pants or jeans"),
	}},
}

var coldestBand = []garment{
	g(SlotBase, "Thermal underwear"),
	g(SlotTop, "Long-sleeved shirt", "Long-sleeved shirt", "Long-sleeved top"),
	g(SlotMid, "Heavy sweater"),
	g(SlotOuter, "Winter coat"),
	g(SlotBot, "Insulated pants"),
}

func wear(garments []garment) func(in ClothingInput, o *outfit) {
	return func(in ClothingInput, o *outfit) {
		for _, gm := range garments {
			o.add(gm.forGender(in.Gender), gm.slot)
		}
	}
}

// baseOutfit selects exactly one band.
var baseOutfit = func() Ladder[ClothingInput, outfit] {
	l := make(Ladder[ClothingInput, outfit], 0, len(clothingBands)+1)
	for _, b := range clothingBands {
		lo := b.min
		l = append(l, Rule[ClothingInput, outfit]{
			When:  func(in ClothingInput, _ *outfit) bool { return in.FeelsLike >= lo },
			Apply: wear(b.garments),
		})
	}
	return append(l, Rule[ClothingInput, outfit]{Apply: wear(coldestBand)})
}()

func needsRainGear(c weather.Condition, pop float64) bool {
	return wet(c) || pop > 0.4
}

// outfitOverlays run in order after the base outfit: rain, wind, activity.
var outfitOverlays = Ladder[ClothingInput, outfit]{
	{
		When: func(in ClothingInput, _ *outfit) bool {
			return needsRainGear(in.Condition, in.PrecipitationChance)
		},
		Apply: func(_ ClothingInput, o *outfit) {
			for i := range o.items {
				if o.items[i].Type == SlotOuter {
					o.items[i].Item = "Waterproof " + strings.ToLower(o.items[i].Item)
					return
				}
			}
			o.add("Waterproof jacket", SlotOuter)
		},
	},
	{
		When: func(in ClothingInput, o *outfit) bool {
			return in.WindSpeed > 5 && in.FeelsLike < 15 && !o.has(SlotOuter)
		},
		Apply: func(_ ClothingInput, o *outfit) { o.add("Windbreaker", SlotOuter) },
	},
	{
		When: func(in ClothingInput, _ *outfit) bool { return in.Activity == ActivitySport },
		Apply: func(in ClothingInput, o *outfit) {
			o.rewrite(SlotTop, func(item string) string { return "Moisture-wicking " + strings.ToLower(item) })
			o.rewrite(SlotBot, func(string) string {
				if in.FeelsLike > 20 {
					return "Athletic shorts"
				}
				return "Athletic pants"
			})
		},
	},
	{
		When: func(in ClothingInput, _ *outfit) bool { return in.Activity == ActivityFormal },
		Apply: func(in ClothingInput, o *outfit) {
			female := in.Gender == GenderFemale
			o.rewrite(SlotTop, func(string) string {
				if female {
					return "Blouse"
				}
				return "Dress shirt"
			})
			o.rewrite(SlotBot, func(string) string {
				if female {
					return "Dress pants or skirt"
				}
				return "Dress pants"
			})
			if in.FeelsLike < 15 && !o.has(SlotOuter) {
				o.add("Blazer", SlotOuter)
			}
		},
	},
	{
		When: func(in ClothingInput, _ *outfit) bool { return in.Activity == ActivityWork },
		Apply: func(in ClothingInput, o *outfit) {
			o.rewrite(SlotTop, func(string) string {
				if in.Gender == GenderFemale {
					return "Blouse or collared shirt"
				}
				return "Collared shirt"
			})
		},
	},
}

// Clothing builds an outfit for the conditions. The base outfit comes from
// the feels-like temperature band; rain, wind and activity adjustments are
// then applied in that order.
func Clothing(in ClothingInput) []ClothingItem {
	var o outfit
	baseOutfit.First(in, &o)
	outfitOverlays.Run(in, &o)
	return o.items
}
