package weather

import (
	"sort"
	"time"
)

// AggregateReadings combines multiple provider readings into a single Reading.
// Reported numeric fields are averaged over the providers that reported them;
// the condition is selected by majority, ties going to the first reading that
// reported it.
func AggregateReadings(readings []Reading) Reading {
	if len(readings) == 0 {
		return Reading{}
	}
	if len(readings) == 1 {
		return readings[0]
	}

	var (
		temp, feels, hum, press avg
		wind, clouds, vis, pop  avg
		windDeg                 []int
		codes                   []int
		names                   []Condition
		newest                  time.Time
		place                   string
	)

	for _, r := range readings {
		temp.add(r.Temperature)
		feels.add(r.FeelsLike)
		hum.add(r.Humidity)
		press.add(r.Pressure)
		wind.add(r.WindSpeed)
		clouds.add(r.Clouds)
		vis.add(r.Visibility)
		pop.add(r.Pop)
		if r.WindDeg != nil {
			windDeg = append(windDeg, *r.WindDeg)
		}
		if r.ConditionID != nil || r.Condition != "" {
			codes = append(codes, r.conditionCode())
			names = append(names, r.condition())
		}
		if r.Timestamp.After(newest) {
			newest = r.Timestamp
		}
		if place == "" {
			place = r.Place
		}
	}

	out := Reading{
		ProviderName: "aggregate",
		Timestamp:    newest,
		Place:        place,
		Temperature:  temp.value(),
		FeelsLike:    feels.value(),
		Humidity:     hum.value(),
		Pressure:     press.value(),
		WindSpeed:    wind.value(),
		Clouds:       clouds.value(),
		Visibility:   vis.value(),
		Pop:          pop.value(),
	}
	if len(windDeg) > 0 {
		out.WindDeg = Int(windDeg[0])
	}

	if len(names) > 0 {
		cond, first := dominant(names)
		out.Condition = cond
		out.ConditionID = Int(codes[first])
		// Description and icon come from the first reading that agrees with the majority.
		for _, r := range readings {
			if (r.ConditionID != nil || r.Condition != "") && r.condition() == cond {
				out.Description = r.Description
				out.Icon = r.Icon
				break
			}
		}
	}

	return out
}

// AggregateDays groups forecast samples by calendar date in tz and summarizes
// each date. The result is sorted ascending by date and holds one entry per
// distinct date present in the input.
func AggregateDays(samples []ForecastSample, tz *time.Location) []DaySummary {
	if tz == nil {
		tz = time.UTC
	}

	type bucket struct {
		date    time.Time
		samples []ForecastSample
	}
	buckets := make(map[string]*bucket)
	keys := make([]string, 0)

	for _, s := range samples {
		local := s.Time.In(tz)
		key := local.Format(time.DateOnly)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)}
			buckets[key] = b
			keys = append(keys, key)
		}
		b.samples = append(b.samples, s)
	}
	sort.Strings(keys)

	days := make([]DaySummary, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		days = append(days, summarizeDay(key, b.date, b.samples, tz))
	}
	return days
}

func summarizeDay(key string, date time.Time, samples []ForecastSample, tz *time.Location) DaySummary {
	n := float64(len(samples))
	minT, maxT := samples[0].Temp, samples[0].Temp
	var sumT, sumHum, sumPress, sumWind, sumPop float64
	earliest := samples[0].Time
	names := make([]Condition, 0, len(samples))

	for _, s := range samples {
		if s.Temp < minT {
			minT = s.Temp
		}
		if s.Temp > maxT {
			maxT = s.Temp
		}
		sumT += s.Temp
		sumHum += s.Humidity
		sumPress += s.Pressure
		sumWind += s.WindSpeed
		sumPop += s.Pop
		if s.Time.Before(earliest) {
			earliest = s.Time
		}
		names = append(names, s.Condition)
	}

	cond, first := dominant(names)
	rep := samples[first]

	hourly := make([]HourlyEntry, 0, len(samples))
	for _, s := range samples {
		hourly = append(hourly, HourlyEntry{
			Dt:          s.Time.Unix(),
			Time:        s.Time.In(tz).Format("15:04"),
			Temp:        s.Temp,
			FeelsLike:   s.FeelsLike,
			Pressure:    s.Pressure,
			Humidity:    s.Humidity,
			Weather:     s.Condition,
			Description: s.Description,
			Icon:        s.Icon,
			Clouds:      s.Clouds,
			WindSpeed:   s.WindSpeed,
			WindDeg:     s.WindDeg,
			Pop:         s.Pop,
		})
	}
	sort.SliceStable(hourly, func(i, j int) bool { return hourly[i].Dt < hourly[j].Dt })

	return DaySummary{
		Dt:          earliest.Unix(),
		Date:        key,
		DayName:     date.Weekday().String(),
		MinTemp:     minT,
		MaxTemp:     maxT,
		AvgTemp:     sumT / n,
		Humidity:    sumHum / n,
		Pressure:    sumPress / n,
		Weather:     cond,
		Description: rep.Description,
		Icon:        rep.Icon,
		WindSpeed:   sumWind / n,
		Pop:         clamp(sumPop/n, 0, 1),
		Hourly:      hourly,
	}
}

// dominant returns the most frequent value and the index of its first
// occurrence. Ties go to the value that occurs first.
func dominant[T comparable](values []T) (T, int) {
	counts := make(map[T]int, len(values))
	firstAt := make(map[T]int, len(values))
	for i, v := range values {
		if _, ok := firstAt[v]; !ok {
			firstAt[v] = i
		}
		counts[v]++
	}

	var best T
	bestCount, bestFirst := 0, len(values)
	for v, c := range counts {
		f := firstAt[v]
		if c > bestCount || (c == bestCount && f < bestFirst) {
			best, bestCount, bestFirst = v, c, f
		}
	}
	return best, bestFirst
}

type avg struct {
	sum float64
	n   int
}

func (a *avg) add(v *float64) {
	if v == nil {
		return
	}
	a.sum += *v
	a.n++
}

func (a avg) value() *float64 {
	if a.n == 0 {
		return nil
	}
	return Float(a.sum / float64(a.n))
}
