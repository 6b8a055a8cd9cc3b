package insights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-insights/internal/advisor"
	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/observability"
	"github.com/i474232898/weather-insights/internal/store"
	"github.com/i474232898/weather-insights/internal/weather"
)

var (
	testNow = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	nyc     = weather.Location{Name: "New York", Lat: 40.71, Lon: -74.0}
)

type fakeSource struct {
	mu         sync.Mutex
	current    weather.Observation
	samples    []weather.ForecastSample
	err        error
	fetched    []weather.Location
	unrecorded []weather.Location
	forecast   int
}

func (f *fakeSource) FetchCurrent(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, loc)
	if !weather.Recording(ctx) {
		f.unrecorded = append(f.unrecorded, loc)
	}
	return f.current, f.err
}

func (f *fakeSource) FetchForecast(_ context.Context, _ weather.Location) ([]weather.ForecastSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecast++
	return f.samples, f.err
}

type fakeHistory struct {
	obs []weather.Observation
	err error
}

func (f fakeHistory) History(_ context.Context, _ weather.Location, _, _ time.Time) ([]weather.Observation, error) {
	return f.obs, f.err
}

type fixedProvider struct {
	reading weather.Reading
}

func (fixedProvider) Name() string { return "fixed" }

func (p fixedProvider) Fetch(context.Context, weather.Location) (weather.Reading, error) {
	return p.reading, nil
}

type midEntropy struct{}

func (midEntropy) Float64() float64 { return 0.5 }
func (midEntropy) Intn(int) int     { return 0 }

func current(temp, humidity, wind float64, code int) weather.Observation {
	return weather.Reading{
		Timestamp:   testNow,
		Place:       "New York",
		Temperature: weather.Float(temp),
		Humidity:    weather.Float(humidity),
		WindSpeed:   weather.Float(wind),
		ConditionID: weather.Int(code),
	}.Observation()
}

// forecast returns three samples a day for n days starting on testNow's date.
func forecast(n int, lo, hi, pop float64, code int) []weather.ForecastSample {
	var out []weather.ForecastSample
	start := testNow.Truncate(24 * time.Hour)
	for d := 0; d < n; d++ {
		for i, temp := range []float64{lo, hi, (lo + hi) / 2} {
			out = append(out, weather.Reading{
				Timestamp:   start.AddDate(0, 0, d).Add(time.Duration(6+i*6) * time.Hour),
				Temperature: weather.Float(temp),
				Humidity:    weather.Float(55),
				WindSpeed:   weather.Float(3),
				ConditionID: weather.Int(code),
				Pop:         weather.Float(pop),
			}.Sample())
		}
	}
	return out
}

func newTestService(src weather.Source, hist weather.HistorySource) *Service {
	return NewService(src, hist, Config{
		Clock:   clockwork.NewFakeClockAt(testNow),
		Entropy: midEntropy{},
		Metrics: observability.NewMetricsForTesting(),
	})
}

func TestHyperLocal(t *testing.T) {
	src := &fakeSource{current: current(22, 60, 3, 800), samples: forecast(5, 15, 25, 0.1, 800)}
	svc := newTestService(src, nil)

	got, err := svc.HyperLocal(context.Background(), nyc)
	require.NoError(t, err)

	assert.Equal(t, 22.0, got.Current.Temp)
	assert.Equal(t, 8, got.UVIndex)
	assert.Len(t, got.Forecast, 5)
	assert.Equal(t, "2024-06-03", got.Forecast[0].Date)
	assert.Equal(t, "Minimal local variation", got.MicroClimate.Temperature.Reason)
	assert.Equal(t, testNow, got.UpdatedAt)
}

func TestInvalidCoordinatesSkipTheSource(t *testing.T) {
	src := &fakeSource{current: current(22, 60, 3, 800)}
	svc := newTestService(src, nil)

	_, err := svc.HyperLocal(context.Background(), weather.Location{Lat: 91, Lon: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "lat", ie.Field)

	_, err = svc.Commute(context.Background(), CommuteRequest{Start: nyc, End: weather.Location{Lat: 0, Lon: 200}})
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "end_lon", ie.Field)

	assert.Empty(t, src.fetched)
}

func TestUpstreamFailureIsTagged(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	svc := newTestService(src, nil)

	_, err := svc.Clothing(context.Background(), ClothingRequest{Location: nyc})
	require.Error(t, err)
	assert.True(t, weather.IsUpstream(err))
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "connection refused")

	tagged := &weather.UpstreamError{Op: "fetch forecast", Err: weather.ErrNoData}
	svc = newTestService(&fakeSource{err: tagged}, nil)
	_, err = svc.Notifications(context.Background(), nyc)
	assert.Same(t, tagged, err)
}

func TestHealth(t *testing.T) {
	src := &fakeSource{current: current(36, 40, 2, 800)}
	svc := newTestService(src, nil)

	got, err := svc.Health(context.Background(), HealthRequest{
		Location: nyc, AgeGroup: advisor.AgeSenior, Conditions: []string{"heart"},
	})
	require.NoError(t, err)

	types := map[string]string{}
	for _, a := range got.Alerts {
		types[a.Type] = a.Level
	}
	assert.Equal(t, "extreme", types[advisor.AlertHeat])
	assert.Equal(t, "caution", types[advisor.AlertAgeRelated])
	assert.Equal(t, "caution", types[advisor.AlertCardiovascular])
	assert.Contains(t, got.Recommendations, "Check on elderly friends and relatives during heat waves")
	assert.Equal(t, 8, got.HealthIndices.UVIndex)
	assert.Len(t, got.DailyOutlook, 5)
	assert.Equal(t, "Monday", got.DailyOutlook[0].Day)
	assert.Contains(t, got.OutlookAlerts, "Heat alert: Drink plenty of fluids and avoid strenuous activity.")
	assert.Zero(t, src.forecast)
}

func TestClothing(t *testing.T) {
	src := &fakeSource{current: current(31, 50, 2, 500)}
	svc := newTestService(src, nil)

	got, err := svc.Clothing(context.Background(), ClothingRequest{
		Location: nyc, Gender: advisor.GenderMale, Activity: advisor.ActivityCasual,
	})
	require.NoError(t, err)

	assert.Equal(t, weather.ConditionRain, got.CurrentWeather.Weather)
	assert.InDelta(t, 1.0, got.CurrentWeather.PrecipitationChance, 1e-9)
	assert.Contains(t, got.Clothing, advisor.ClothingItem{Item: "T-shirt", Type: advisor.SlotTop})
	assert.Contains(t, got.Clothing, advisor.ClothingItem{Item: "Waterproof jacket", Type: advisor.SlotOuter})
	assert.Contains(t, got.Accessories, advisor.AccessoryItem{Item: "Umbrella", Reason: "Rain protection"})
}

func TestHistoricalTrends(t *testing.T) {
	src := &fakeSource{current: current(20, 50, 2, 800)}

	got, err := newTestService(src, nil).HistoricalTrends(context.Background(), nyc)
	require.NoError(t, err)
	assert.Equal(t, advisor.HistoryEstimated, got.HistoricalAverages.Source)
	assert.InDelta(t, 18.5, got.HistoricalAverages.ThisMonthAvg, 1e-9)
	assert.Equal(t, "rising", got.Trends.TempTrendThisMonth)

	got, err = newTestService(src, fakeHistory{err: weather.ErrNotFound}).HistoricalTrends(context.Background(), nyc)
	require.NoError(t, err)
	assert.Equal(t, advisor.HistoryEstimated, got.HistoricalAverages.Source)

	hist := fakeHistory{obs: []weather.Observation{
		{Time: testNow.AddDate(0, 0, -5), Temp: 11},
		{Time: testNow.Add(-2 * time.Hour), Temp: 13},
	}}
	got, err = newTestService(src, hist).HistoricalTrends(context.Background(), nyc)
	require.NoError(t, err)
	assert.Equal(t, advisor.HistoryStored, got.HistoricalAverages.Source)
	assert.InDelta(t, 12.0, got.HistoricalAverages.LastWeekAvg, 1e-9)
	assert.InDelta(t, 20.0, got.HistoricalAverages.LastMonthAvg, 1e-9)
}

func TestHistoricalTrends_RecordingStore(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	newWeather := func(st weather.Store) *weather.Service {
		return weather.NewService(st, []weather.Provider{
			fixedProvider{reading: weather.Reading{Temperature: weather.Float(31.7), ConditionID: weather.Int(800)}},
		}, weather.ServiceOptions{Clock: clock})
	}
	newInsights := func(w *weather.Service) *Service {
		return NewService(w, w, Config{
			Clock:   clock,
			Entropy: midEntropy{},
			Metrics: observability.NewMetricsForTesting(),
		})
	}

	// The reading recorded by this request is not history yet.
	st := store.NewMemoryStore(0, 0, clock)
	w := newWeather(st)
	got, err := newInsights(w).HistoricalTrends(context.Background(), nyc)
	require.NoError(t, err)
	assert.Equal(t, advisor.HistoryEstimated, got.HistoricalAverages.Source)
	assert.InDelta(t, 31.7, got.CurrentTemperature, 1e-9)
	latest, err := st.GetLatest(context.Background(), nyc)
	require.NoError(t, err)
	assert.Equal(t, testNow, latest.Time)

	// A second request right after still has no meaningful span.
	got, err = newInsights(w).HistoricalTrends(context.Background(), nyc)
	require.NoError(t, err)
	assert.Equal(t, advisor.HistoryEstimated, got.HistoricalAverages.Source)

	st = store.NewMemoryStore(0, 0, clock)
	for _, o := range []weather.Observation{
		{Time: testNow.AddDate(0, 0, -6), Temp: 20},
		{Time: testNow.AddDate(0, 0, -1), Temp: 22},
	} {
		require.NoError(t, st.SaveObservation(context.Background(), nyc, o))
	}
	got, err = newInsights(newWeather(st)).HistoricalTrends(context.Background(), nyc)
	require.NoError(t, err)
	assert.Equal(t, advisor.HistoryStored, got.HistoricalAverages.Source)
	assert.InDelta(t, 21.0, got.HistoricalAverages.LastWeekAvg, 1e-9)
	assert.NotEqual(t, 21.0, got.HistoricalAverages.LastMonthAvg)
}

func TestCommute(t *testing.T) {
	src := &fakeSource{current: current(15, 50, 12, 800)}
	svc := newTestService(src, nil)
	end := weather.Location{Lat: 40.80, Lon: -73.90}

	got, err := svc.Commute(context.Background(), CommuteRequest{Start: nyc, End: end, DepartureTime: "2024-06-03T08:30:00Z"})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-03T08:30:00Z", got.DepartureTime)
	assert.GreaterOrEqual(t, got.Impact.Severity, advisor.SeverityModerate)
	assert.GreaterOrEqual(t, got.Impact.DelayMinutes, 8)
	assert.LessOrEqual(t, got.Impact.DelayMinutes, 15)
	require.Len(t, got.RouteForecast, 5)
	assert.Equal(t, nyc.Lat, got.StartPoint.Lat)
	assert.Equal(t, end.Lon, got.EndPoint.Lon)
	assert.Equal(t, weather.ConditionClear, got.RouteForecast[2].Weather.Condition)
	// start, end, midpoint and three interior route points
	assert.Len(t, src.fetched, 6)
	// only the endpoints are recorded
	require.Len(t, src.unrecorded, 4)
	for _, l := range src.unrecorded {
		assert.NotEqual(t, nyc.Key(), l.Key())
		assert.NotEqual(t, end.Key(), l.Key())
	}

	got, err = svc.Commute(context.Background(), CommuteRequest{Start: nyc, End: end})
	require.NoError(t, err)
	assert.Equal(t, testNow.Format(time.RFC3339), got.DepartureTime)

	_, err = svc.Commute(context.Background(), CommuteRequest{Start: nyc, End: end, DepartureTime: "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGardening(t *testing.T) {
	src := &fakeSource{current: current(22, 75, 2, 500), samples: forecast(4, 12, 22, 0.2, 800)}
	svc := newTestService(src, nil)

	got, err := svc.Gardening(context.Background(), nyc)
	require.NoError(t, err)

	assert.Len(t, got.OptimalDays.Planting, 4)
	assert.Len(t, got.OptimalDays.Harvesting, 4)
	assert.Equal(t, advisor.QualityExcellent, got.OptimalDays.Planting[0].Quality)
	require.Len(t, got.WateringSchedule.WateringTimes, 5)
	assert.Equal(t, advisor.WateringTime{
		Day: "2024-06-03", Time: "19:00-21:00", Quality: advisor.QualityGood,
		Reason: "Lower evaporation but increased disease risk",
	}, got.WateringSchedule.WateringTimes[1])
	assert.NotEmpty(t, got.PestWarnings)
	assert.Contains(t, got.GardenTasks, "Monitor for signs of drought stress")
}

func TestTripPlan(t *testing.T) {
	src := &fakeSource{current: current(20, 50, 2, 800), samples: forecast(5, 14, 24, 0.1, 800)}
	svc := newTestService(src, nil)

	got, err := svc.TripPlan(context.Background(), TripRequest{Location: nyc, StartDate: "2024-06-04", EndDate: "2024-06-05"})
	require.NoError(t, err)

	assert.Equal(t, "New York", got.Location)
	assert.Equal(t, TripDates{Start: "2024-06-04", End: "2024-06-05"}, got.TripDates)
	require.Len(t, got.Forecast, 2)
	assert.Equal(t, "2024-06-04", got.Forecast[0].Date)
	assert.Equal(t, "2024-06-05", got.Forecast[1].Date)
	assert.Len(t, got.Activities, 2)
	assert.Contains(t, got.PackingList.Essentials, "Travel documents")

	outside, err := svc.TripPlan(context.Background(), TripRequest{Location: nyc, StartDate: "2025-01-01", EndDate: "2025-01-02"})
	require.NoError(t, err)
	assert.Empty(t, outside.Forecast)
	assert.Equal(t, []string{"Unable to generate recommendations"}, outside.PackingList.Clothing)
}

func TestTripPlanInvalidDates(t *testing.T) {
	svc := newTestService(&fakeSource{}, nil)

	_, err := svc.TripPlan(context.Background(), TripRequest{Location: nyc, StartDate: "06/04/2024", EndDate: "2024-06-05"})
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "start_date", ie.Field)

	_, err = svc.TripPlan(context.Background(), TripRequest{Location: nyc, StartDate: "2024-06-05", EndDate: "2024-06-04"})
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "end_date", ie.Field)
}

func TestNotifications(t *testing.T) {
	src := &fakeSource{samples: forecast(5, 12, 24, 0.1, 800)}
	svc := newTestService(src, nil)

	got, err := svc.Notifications(context.Background(), nyc)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	ids := map[string]bool{}
	for _, n := range got {
		assert.NotEmpty(t, n.ID)
		assert.Equal(t, testNow, n.CreatedAt)
		ids[n.ID] = true
	}
	assert.Len(t, ids, len(got))

	var dry []advisor.Notification
	for _, n := range got {
		if n.Type == advisor.NotifyDrySpell {
			dry = append(dry, n)
		}
	}
	require.Len(t, dry, 1)
	assert.Contains(t, dry[0].Message, "next 5 days")
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(&fakeSource{}, nil, Config{})
	assert.Equal(t, time.UTC, svc.tz)
	assert.NotNil(t, svc.clock)
	assert.NotNil(t, svc.entropy)
	assert.NotNil(t, svc.logger)
	var _ common.Entropy = midEntropy{}
}
