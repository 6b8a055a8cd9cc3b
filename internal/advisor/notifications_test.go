package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-insights/internal/weather"
)

func ofType(ns []Notification, typ string) []Notification {
	var out []Notification
	for _, n := range ns {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func TestNotifications_DrySpell(t *testing.T) {
	var days []weather.DaySummary
	for i := 0; i < 5; i++ {
		days = append(days, day(i, weather.ConditionClouds, 8, 16, 0.1))
	}

	got := ofType(Notifications(days), NotifyDrySpell)
	require.Len(t, got, 1)
	assert.Equal(t, "Dry spell for next 5 days", got[0].Title)
	assert.Contains(t, got[0].Message, "next 5 days")
	assert.Equal(t, PriorityMedium, got[0].Priority)
	assert.Equal(t, "drought", got[0].Icon)
}

func TestNotifications_PrecipitationFirstMatchWins(t *testing.T) {
	days := []weather.DaySummary{
		day(0, weather.ConditionClouds, 10, 18, 0.1),
		day(1, weather.ConditionClouds, 10, 18, 0.2),
		day(2, weather.ConditionSnow, -2, 1, 0.75),
		day(3, weather.ConditionRain, 5, 9, 0.9),
	}

	got := ofType(Notifications(days), NotifyPrecipitation)
	require.Len(t, got, 1)
	assert.Equal(t, PriorityHigh, got[0].Priority)
	assert.Equal(t, "Snow expected on Wednesday", got[0].Title)
	assert.Equal(t, "High chance (75%) of snow on Wednesday. Plan indoor activities or bring appropriate gear.", got[0].Message)
	assert.NotContains(t, got[0].Message, "Thursday")
}

func TestNotifications_ModeratePrecipitationOnlyWithinThreeDays(t *testing.T) {
	days := []weather.DaySummary{
		day(0, weather.ConditionClouds, 10, 18, 0.1),
		day(1, weather.ConditionClouds, 10, 18, 0.1),
		day(2, weather.ConditionClouds, 10, 18, 0.1),
		day(3, weather.ConditionRain, 10, 18, 0.5),
	}
	assert.Empty(t, ofType(Notifications(days), NotifyPrecipitation))

	days[1].Pop = 0.45
	got := ofType(Notifications(days), NotifyPrecipitation)
	require.Len(t, got, 1)
	assert.Equal(t, PriorityMedium, got[0].Priority)
	assert.Equal(t, "Possible rain on Tuesday", got[0].Title)
	assert.Equal(t, "cloudy-rain", got[0].Icon)
}

func TestNotifications_TemperatureChange(t *testing.T) {
	got := Notifications([]weather.DaySummary{
		day(0, weather.ConditionClear, 10, 20, 0.0),
		day(1, weather.ConditionClear, 4, 13, 0.0),
	})

	require.NotEmpty(t, got)
	assert.Equal(t, NotifyTemperatureChange, got[0].Type)
	assert.Equal(t, "Temperature drop on Tuesday", got[0].Title)
	assert.Equal(t, "Prepare for a 7C temperature drop from 20C to 13C.", got[0].Message)
}

func TestNotifications_SevereAndIdeal(t *testing.T) {
	got := Notifications([]weather.DaySummary{
		day(0, weather.ConditionClear, 12, 24, 0.1),
		day(1, weather.ConditionThunderstorm, 26, 37, 0.6),
		day(2, weather.ConditionClouds, 14, 26, 0.0),
	})

	severe := ofType(got, NotifyExtremeHeat)
	require.Len(t, severe, 1)
	assert.Equal(t, "Temperatures expected to reach 37C on Tuesday. Stay hydrated and avoid extended sun exposure.", severe[0].Message)
	assert.Empty(t, ofType(got, NotifyThunderstorm))

	ideal := ofType(got, NotifyIdealWeather)
	require.Len(t, ideal, 1)
	assert.Equal(t, "Perfect weather ahead", ideal[0].Title)
	assert.Contains(t, ideal[0].Message, "on Monday and Wednesday.")
}

func TestNotifications_Order(t *testing.T) {
	got := Notifications([]weather.DaySummary{
		day(0, weather.ConditionClear, 12, 20, 0.0),
		day(1, weather.ConditionClear, 12, 26, 0.1),
		day(2, weather.ConditionClear, 12, 27, 0.1),
	})

	var types []string
	for _, n := range got {
		types = append(types, n.Type)
	}
	assert.Equal(t, []string{NotifyTemperatureChange, NotifyIdealWeather, NotifyDrySpell}, types)
}

func TestJoinAnd(t *testing.T) {
	assert.Equal(t, "", joinAnd(nil))
	assert.Equal(t, "A", joinAnd([]string{"A"}))
	assert.Equal(t, "A and B", joinAnd([]string{"A", "B"}))
	assert.Equal(t, "A, B and C", joinAnd([]string{"A", "B", "C"}))
}
