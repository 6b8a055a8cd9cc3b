package advisor

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/weather"
)

// Sources of historical averages.
const (
	HistoryEstimated = "estimated"
	HistoryStored    = "stored"
)

// HistoricalAverages compares the current temperature with past periods.
type HistoricalAverages struct {
	LastWeekAvg     float64 `json:"last_week_avg"`
	LastMonthAvg    float64 `json:"last_month_avg"`
	LastYearSameDay float64 `json:"last_year_same_day"`
	ThisMonthAvg    float64 `json:"this_month_avg"`
	YearAvg         float64 `json:"year_avg"`
	TenYearAvg      float64 `json:"ten_year_avg"`
	Source          string  `json:"data_source"`
}

// EstimateAverages synthesizes plausible historical averages around temp.
func EstimateAverages(e common.Entropy, temp float64) HistoricalAverages {
	thisMonth := common.Round(temp-common.Uniform(e, 0, 3), 1)
	return HistoricalAverages{
		LastWeekAvg:     common.Round(temp+common.Uniform(e, -2, 2), 1),
		LastMonthAvg:    common.Round(temp+common.Uniform(e, -3, 3), 1),
		LastYearSameDay: common.Round(temp+common.Uniform(e, -5, 5), 1),
		ThisMonthAvg:    thisMonth,
		YearAvg:         common.Round((temp+thisMonth)/2, 1),
		TenYearAvg:      common.Round(thisMonth-common.Uniform(e, 0, 1), 1),
		Source:          HistoryEstimated,
	}
}

// A window counts as stored only when it holds at least minStoredSamples
// observations spanning at least minStoredCoverage of its length.
const (
	minStoredSamples  = 2
	minStoredCoverage = 0.5
)

// ApplyHistory replaces the last week and last month averages with the mean
// of stored observations from those windows ending at now. Windows with too
// little stored coverage keep their estimate.
func ApplyHistory(avg HistoricalAverages, now time.Time, history []weather.Observation) HistoricalAverages {
	week, weekOK := meanSince(history, now.AddDate(0, 0, -7), now)
	month, monthOK := meanSince(history, now.AddDate(0, -1, 0), now)
	if weekOK {
		avg.LastWeekAvg = common.Round(week, 1)
	}
	if monthOK {
		avg.LastMonthAvg = common.Round(month, 1)
	}
	if weekOK || monthOK {
		avg.Source = HistoryStored
	}
	return avg
}

func meanSince(history []weather.Observation, from, to time.Time) (float64, bool) {
	var (
		sum           float64
		n             int
		first, latest time.Time
	)
	for _, o := range history {
		if o.Time.Before(from) || o.Time.After(to) {
			continue
		}
		if n == 0 || o.Time.Before(first) {
			first = o.Time
		}
		if n == 0 || o.Time.After(latest) {
			latest = o.Time
		}
		sum += o.Temp
		n++
	}
	if n < minStoredSamples {
		return 0, false
	}
	if latest.Sub(first) < time.Duration(minStoredCoverage*float64(to.Sub(from))) {
		return 0, false
	}
	return sum / float64(n), true
}

// Trends summarises how the current temperature compares with the averages.
type Trends struct {
	ThisMonthVsAverage float64  `json:"this_month_vs_average"`
	ThisYearVsLastYear float64  `json:"this_year_vs_last_year"`
	TempTrendThisMonth string   `json:"temp_trend_this_month"`
	NotableRecords     []string `json:"notable_records"`
}

// ComputeTrends derives trends for temp. month selects the seasonal remark.
func ComputeTrends(temp float64, avg HistoricalAverages, month time.Month) Trends {
	trend := "falling"
	if temp > avg.ThisMonthAvg {
		trend = "rising"
	}
	return Trends{
		ThisMonthVsAverage: common.Round(temp-avg.ThisMonthAvg, 1),
		ThisYearVsLastYear: common.Round(temp-avg.LastYearSameDay, 1),
		TempTrendThisMonth: trend,
		NotableRecords:     NotableRecords(temp, avg, month),
	}
}

// NotableRecords lists remarkable facts about temp. The result is never nil.
func NotableRecords(temp float64, avg HistoricalAverages, month time.Month) []string {
	records := []string{}

	if diff := temp - avg.ThisMonthAvg; math.Abs(diff) > 5 {
		dir := "above"
		if diff < 0 {
			dir = "below"
		}
		records = append(records, fmt.Sprintf("Temperature is %.1fC %s the monthly average",
			math.Abs(common.Round(diff, 1)), dir))
	}
	if diff := temp - avg.TenYearAvg; diff > 3 {
		records = append(records, fmt.Sprintf("Currently %.1fC warmer than the 10-year average", common.Round(diff, 1)))
	}
	if avg.LastYearSameDay < avg.TenYearAvg {
		records = append(records, "This day has been warming over the past decade")
	}

	switch {
	case month >= time.March && month <= time.May, month >= time.September && month <= time.November:
		records = append(records, "Temperature variations are typical for transitional season")
	case month >= time.June && month <= time.August:
		if temp > 30 {
			records = append(records, "Current temperature is in the upper range for this season")
		}
	default:
		if temp < 0 {
			records = append(records, "Current temperature is in the typical winter range")
		}
	}
	return records
}
