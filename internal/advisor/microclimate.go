package advisor

import (
	"math"

	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/weather"
)

const minimalVariation = "Minimal local variation"

// Adjustment is one locally perturbed value.
type Adjustment struct {
	Value      float64 `json:"value"`
	Difference float64 `json:"difference"`
	Reason     string  `json:"reason"`
}

// MicroClimate holds the neighbourhood-level adjustments for an observation.
type MicroClimate struct {
	Temperature Adjustment `json:"temperature"`
	Humidity    Adjustment `json:"humidity"`
	WindSpeed   Adjustment `json:"wind_speed"`
}

// band picks a reason by the sign and size of a delta.
type band struct {
	threshold    float64
	above, below string
}

func (b band) reason(delta float64) string {
	switch {
	case delta > b.threshold:
		return b.above
	case delta < -b.threshold:
		return b.below
	default:
		return minimalVariation
	}
}

var (
	temperatureBand = band{0.5, "Urban heat island effect", "Proximity to water bodies or green spaces"}
	humidityBand    = band{3, "Proximity to water bodies", "Urban density with less vegetation"}
	windBand        = band{0.5, "Wind tunnel effect between buildings", "Wind sheltered by terrain or structures"}
)

// AdjustMicroClimate perturbs temperature (±1.0), humidity (±5) and wind
// (±1.0) of obs. Results are random; repeated calls with the same observation
// are not expected to agree.
func AdjustMicroClimate(e common.Entropy, obs weather.Observation) MicroClimate {
	dt := common.Round(common.Uniform(e, -1, 1), 1)
	dh := math.RoundToEven(common.Uniform(e, -5, 5))
	dw := common.Round(common.Uniform(e, -1, 1), 1)

	return MicroClimate{
		Temperature: Adjustment{Value: common.Round(obs.Temp+dt, 1), Difference: dt, Reason: temperatureBand.reason(dt)},
		Humidity:    Adjustment{Value: math.RoundToEven(obs.Humidity + dh), Difference: dh, Reason: humidityBand.reason(dh)},
		WindSpeed:   Adjustment{Value: common.Round(obs.WindSpeed+dw, 1), Difference: dw, Reason: windBand.reason(dw)},
	}
}
