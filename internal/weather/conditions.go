package weather

// Group is a family of condition codes. Codes follow the OpenWeatherMap
// numbering (2xx thunderstorm ... 800 clear, 80x clouds); other providers
// translate into it.
type Group int

const (
	GroupUnknown Group = iota
	GroupThunderstorm
	GroupDrizzle
	GroupRain
	GroupSnow
	GroupAtmosphere
	GroupClear
	GroupClouds
)

// CodeClear is the condition code for a clear sky.
const CodeClear = 800

// GroupOf classifies a condition code.
func GroupOf(code int) Group {
	switch {
	case code >= 200 && code < 300:
		return GroupThunderstorm
	case code >= 300 && code < 400:
		return GroupDrizzle
	case code >= 500 && code < 600:
		return GroupRain
	case code >= 600 && code < 700:
		return GroupSnow
	case code >= 700 && code < 800:
		return GroupAtmosphere
	case code == CodeClear:
		return GroupClear
	case code > 800 && code < 900:
		return GroupClouds
	default:
		return GroupUnknown
	}
}

// Precipitating reports whether the group is thunderstorm, drizzle, rain or snow.
func (g Group) Precipitating() bool {
	switch g {
	case GroupThunderstorm, GroupDrizzle, GroupRain, GroupSnow:
		return true
	}
	return false
}

var atmosphereNames = map[int]Condition{
	701: ConditionMist,
	711: ConditionSmoke,
	721: ConditionHaze,
	731: ConditionDust,
	741: ConditionFog,
	751: ConditionSand,
	761: ConditionDust,
}

// ConditionForCode returns the condition name for a code.
func ConditionForCode(code int) Condition {
	switch GroupOf(code) {
	case GroupThunderstorm:
		return ConditionThunderstorm
	case GroupDrizzle:
		return ConditionDrizzle
	case GroupRain:
		return ConditionRain
	case GroupSnow:
		return ConditionSnow
	case GroupAtmosphere:
		if c, ok := atmosphereNames[code]; ok {
			return c
		}
		return ConditionMist
	case GroupClouds:
		return ConditionClouds
	default:
		return ConditionClear
	}
}

// CodeForCondition returns a representative code for a condition name, used
// when a source reports a name but no numeric code.
func CodeForCondition(c Condition) int {
	switch {
	case c.Is("thunderstorm"):
		return 211
	case c.Is("drizzle"):
		return 300
	case c.Is("rain"):
		return 500
	case c.Is("snow"):
		return 600
	case c.Is("mist"):
		return 701
	case c.Is("smoke"):
		return 711
	case c.Is("haze"):
		return 721
	case c.Is("dust"):
		return 731
	case c.Is("fog"):
		return 741
	case c.Is("sand"):
		return 751
	case c.Is("clouds"):
		return 802
	default:
		return CodeClear
	}
}

// IconForCode returns the daytime icon id for a condition code.
func IconForCode(code int) string {
	switch GroupOf(code) {
	case GroupThunderstorm:
		return "11d"
	case GroupDrizzle:
		return "09d"
	case GroupRain:
		return "10d"
	case GroupSnow:
		return "13d"
	case GroupAtmosphere:
		return "50d"
	case GroupClouds:
		switch code {
		case 801:
			return "02d"
		case 802:
			return "03d"
		default:
			return "04d"
		}
	default:
		return "01d"
	}
}
