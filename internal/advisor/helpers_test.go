package advisor

import (
	"testing"
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// fixedEntropy returns the same draw every time. Intn returns n-1 when the
// configured value would be out of range.
type fixedEntropy struct {
	f float64
	n int
}

func (e fixedEntropy) Float64() float64 { return e.f }

func (e fixedEntropy) Intn(n int) int {
	if e.n >= n {
		return n - 1
	}
	return e.n
}

var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func day(i int, cond weather.Condition, lo, hi, pop float64) weather.DaySummary {
	d := monday.AddDate(0, 0, i)
	return weather.DaySummary{
		Dt:        d.Unix(),
		Date:      d.Format(time.DateOnly),
		DayName:   d.Weekday().String(),
		MinTemp:   lo,
		MaxTemp:   hi,
		AvgTemp:   (lo + hi) / 2,
		Humidity:  55,
		Weather:   cond,
		WindSpeed: 3,
		Pop:       pop,
	}
}

func obs(temp, humidity, wind float64, cond weather.Condition) weather.Observation {
	return weather.Observation{
		Time:        monday,
		Temp:        temp,
		FeelsLike:   temp,
		Humidity:    humidity,
		WindSpeed:   wind,
		Condition:   cond,
		ConditionID: weather.CodeForCondition(cond),
	}
}

func items(t *testing.T, out []ClothingItem, slot string) []string {
	t.Helper()
	var s []string
	for _, it := range out {
		if it.Type == slot {
			s = append(s, it.Item)
		}
	}
	return s
}
