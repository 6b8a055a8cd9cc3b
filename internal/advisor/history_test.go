package advisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/i474232898/weather-insights/internal/weather"
)

func TestEstimateAverages(t *testing.T) {
	avg := EstimateAverages(fixedEntropy{f: 0.5}, 20)

	assert.Equal(t, HistoryEstimated, avg.Source)
	assert.InDelta(t, 20.0, avg.LastWeekAvg, 1e-9)
	assert.InDelta(t, 20.0, avg.LastMonthAvg, 1e-9)
	assert.InDelta(t, 20.0, avg.LastYearSameDay, 1e-9)
	assert.InDelta(t, 18.5, avg.ThisMonthAvg, 1e-9)
	assert.InDelta(t, 19.2, avg.YearAvg, 1e-9)
	assert.InDelta(t, 18.0, avg.TenYearAvg, 1e-9)
}

func TestApplyHistory(t *testing.T) {
	now := monday.Add(12 * time.Hour)
	est := EstimateAverages(fixedEntropy{f: 0.5}, 20)

	history := []weather.Observation{
		{Time: now.AddDate(0, 0, -1), Temp: 10},
		{Time: now.AddDate(0, 0, -5), Temp: 20},
		{Time: now.AddDate(0, 0, -20), Temp: 30},
		{Time: now.AddDate(0, -3, 0), Temp: 40},
	}
	got := ApplyHistory(est, now, history)

	assert.Equal(t, HistoryStored, got.Source)
	assert.InDelta(t, 15.0, got.LastWeekAvg, 1e-9)
	assert.InDelta(t, 20.0, got.LastMonthAvg, 1e-9)
	assert.Equal(t, est.ThisMonthAvg, got.ThisMonthAvg)

	assert.Equal(t, est, ApplyHistory(est, now, nil))
}

func TestApplyHistory_SparseWindowsKeepEstimate(t *testing.T) {
	now := monday.Add(12 * time.Hour)
	est := EstimateAverages(fixedEntropy{f: 0.5}, 20)

	// a single reading
	got := ApplyHistory(est, now, []weather.Observation{{Time: now, Temp: 31.7}})
	assert.Equal(t, est, got)

	// several readings from the last hour
	got = ApplyHistory(est, now, []weather.Observation{
		{Time: now.Add(-time.Hour), Temp: 30},
		{Time: now.Add(-30 * time.Minute), Temp: 31},
		{Time: now, Temp: 32},
	})
	assert.Equal(t, est, got)

	// enough for the week but not the month
	got = ApplyHistory(est, now, []weather.Observation{
		{Time: now.AddDate(0, 0, -4), Temp: 10},
		{Time: now, Temp: 12},
	})
	assert.Equal(t, HistoryStored, got.Source)
	assert.InDelta(t, 11.0, got.LastWeekAvg, 1e-9)
	assert.Equal(t, est.LastMonthAvg, got.LastMonthAvg)
}

func TestComputeTrends(t *testing.T) {
	avg := HistoricalAverages{ThisMonthAvg: 18.5, LastYearSameDay: 20, TenYearAvg: 18}
	tr := ComputeTrends(20, avg, time.July)

	assert.InDelta(t, 1.5, tr.ThisMonthVsAverage, 1e-9)
	assert.InDelta(t, 0.0, tr.ThisYearVsLastYear, 1e-9)
	assert.Equal(t, "rising", tr.TempTrendThisMonth)
	assert.NotNil(t, tr.NotableRecords)
	assert.Empty(t, tr.NotableRecords)
}

func TestNotableRecords(t *testing.T) {
	avg := HistoricalAverages{ThisMonthAvg: 24, TenYearAvg: 23, LastYearSameDay: 22}
	assert.Equal(t, []string{
		"Temperature is 7.0C above the monthly average",
		"Currently 8.0C warmer than the 10-year average",
		"This day has been warming over the past decade",
		"Current temperature is in the upper range for this season",
	}, NotableRecords(31, avg, time.July))

	cold := HistoricalAverages{ThisMonthAvg: 4, TenYearAvg: 3, LastYearSameDay: 5}
	assert.Equal(t, []string{
		"Temperature is 7.0C below the monthly average",
		"Current temperature is in the typical winter range",
	}, NotableRecords(-3, cold, time.December))

	assert.Equal(t, []string{"Temperature variations are typical for transitional season"},
		NotableRecords(10, HistoricalAverages{ThisMonthAvg: 10, TenYearAvg: 10, LastYearSameDay: 10}, time.April))
}
