package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(ts time.Time, temp float64, code int, pop float64) ForecastSample {
	r := Reading{
		Timestamp:   ts,
		Temperature: Float(temp),
		Humidity:    Float(60),
		WindSpeed:   Float(3),
		ConditionID: Int(code),
		Description: ConditionForCode(code).Lower() + " desc",
		Pop:         Float(pop),
	}
	return r.Sample()
}

func TestAggregateDays_GroupsByDateSorted(t *testing.T) {
	d1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	// Unordered input spanning three dates.
	samples := []ForecastSample{
		sample(d3, 18, 800, 0.1),
		sample(d1, 20, 500, 0.8),
		sample(d2.Add(3*time.Hour), 25, 801, 0.2),
		sample(d1.Add(3*time.Hour), 24, 500, 0.6),
		sample(d2, 15, 801, 0.0),
	}

	days := AggregateDays(samples, time.UTC)
	require.Len(t, days, 3)

	assert.Equal(t, "2024-06-01", days[0].Date)
	assert.Equal(t, "2024-06-02", days[1].Date)
	assert.Equal(t, "2024-06-03", days[2].Date)
	assert.Equal(t, "Saturday", days[0].DayName)

	assert.Equal(t, 20.0, days[0].MinTemp)
	assert.Equal(t, 24.0, days[0].MaxTemp)
	assert.InDelta(t, 22.0, days[0].AvgTemp, 1e-9)
	assert.InDelta(t, 0.7, days[0].Pop, 1e-9)
	assert.Equal(t, ConditionRain, days[0].Weather)
	assert.Equal(t, d1.Unix(), days[0].Dt)

	// Hourly entries sorted by time regardless of input order.
	require.Len(t, days[1].Hourly, 2)
	assert.Equal(t, "09:00", days[1].Hourly[0].Time)
	assert.Equal(t, "12:00", days[1].Hourly[1].Time)
}

func TestAggregateDays_TieBreakFirstOccurrence(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := []ForecastSample{
		sample(base.Add(9*time.Hour), 20, 500, 0.5),  // Rain first in input
		sample(base.Add(3*time.Hour), 20, 800, 0.1),  // Clear earlier in time
		sample(base.Add(12*time.Hour), 20, 800, 0.1), // Clear
		sample(base.Add(15*time.Hour), 20, 501, 0.5), // Rain
	}

	for i := 0; i < 20; i++ {
		days := AggregateDays(samples, time.UTC)
		require.Len(t, days, 1)
		assert.Equal(t, ConditionRain, days[0].Weather)
		assert.Equal(t, "rain desc", days[0].Description)
		assert.Equal(t, "10d", days[0].Icon)
	}
}

func TestAggregateDays_Timezone(t *testing.T) {
	tz := time.FixedZone("UTC+10", 10*3600)
	// 20:00 UTC on June 1 is June 2 in UTC+10.
	s := sample(time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC), 10, 800, 0)

	days := AggregateDays([]ForecastSample{s}, tz)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-06-02", days[0].Date)
	assert.Equal(t, "06:00", days[0].Hourly[0].Time)
}

func TestAggregateDays_Empty(t *testing.T) {
	days := AggregateDays(nil, nil)
	assert.NotNil(t, days)
	assert.Empty(t, days)
}

func TestAggregateDays_Idempotent(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := []ForecastSample{
		sample(base, 10, 600, 0.9),
		sample(base.Add(30*time.Hour), 12, 802, 0.3),
	}
	assert.Equal(t, AggregateDays(samples, time.UTC), AggregateDays(samples, time.UTC))
}

func TestAggregateReadings_AveragesAndMajority(t *testing.T) {
	t1 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	readings := []Reading{
		{ProviderName: "a", Timestamp: t1, Temperature: Float(20), Humidity: Float(40), ConditionID: Int(500), Description: "light rain"},
		{ProviderName: "b", Timestamp: t1.Add(time.Minute), Temperature: Float(22), ConditionID: Int(800)},
		{ProviderName: "c", Timestamp: t1, Temperature: Float(24), Humidity: Float(60), ConditionID: Int(501), Description: "moderate rain"},
	}

	got := AggregateReadings(readings)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 22.0, *got.Temperature, 1e-9)
	assert.InDelta(t, 50.0, *got.Humidity, 1e-9)
	assert.Nil(t, got.Pressure)
	assert.Equal(t, ConditionRain, got.Condition)
	assert.Equal(t, 500, *got.ConditionID)
	assert.Equal(t, "light rain", got.Description)
	assert.Equal(t, t1.Add(time.Minute), got.Timestamp)
}

func TestAggregateReadings_TieGoesToFirst(t *testing.T) {
	readings := []Reading{
		{Condition: ConditionClouds},
		{Condition: ConditionClear},
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, ConditionClouds, AggregateReadings(readings).Condition)
	}
}

func TestAggregateReadings_Empty(t *testing.T) {
	assert.Equal(t, Reading{}, AggregateReadings(nil))
}
