package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/weather"
)

func TestAdjustMicroClimate_Reasons(t *testing.T) {
	base := obs(20, 60, 4, weather.ConditionClear)

	up := AdjustMicroClimate(fixedEntropy{f: 0.9}, base)
	assert.InDelta(t, 0.8, up.Temperature.Difference, 1e-9)
	assert.InDelta(t, 20.8, up.Temperature.Value, 1e-9)
	assert.Equal(t, "Urban heat island effect", up.Temperature.Reason)
	assert.Equal(t, 4.0, up.Humidity.Difference)
	assert.Equal(t, 64.0, up.Humidity.Value)
	assert.Equal(t, "Proximity to water bodies", up.Humidity.Reason)
	assert.Equal(t, "Wind tunnel effect between buildings", up.WindSpeed.Reason)

	down := AdjustMicroClimate(fixedEntropy{f: 0.1}, base)
	assert.Equal(t, "Proximity to water bodies or green spaces", down.Temperature.Reason)
	assert.Equal(t, "Urban density with less vegetation", down.Humidity.Reason)
	assert.Equal(t, "Wind sheltered by terrain or structures", down.WindSpeed.Reason)

	flat := AdjustMicroClimate(fixedEntropy{f: 0.5}, base)
	assert.Equal(t, minimalVariation, flat.Temperature.Reason)
	assert.Equal(t, minimalVariation, flat.Humidity.Reason)
	assert.Equal(t, minimalVariation, flat.WindSpeed.Reason)
}

func TestAdjustMicroClimate_Bounded(t *testing.T) {
	e := common.NewEntropy(42)
	base := obs(15, 50, 3, weather.ConditionClouds)
	for i := 0; i < 200; i++ {
		m := AdjustMicroClimate(e, base)
		assert.LessOrEqual(t, m.Temperature.Difference, 1.0)
		assert.GreaterOrEqual(t, m.Temperature.Difference, -1.0)
		assert.LessOrEqual(t, m.Humidity.Difference, 5.0)
		assert.GreaterOrEqual(t, m.Humidity.Difference, -5.0)
		assert.LessOrEqual(t, m.WindSpeed.Difference, 1.0)
		assert.GreaterOrEqual(t, m.WindSpeed.Difference, -1.0)
	}
}
