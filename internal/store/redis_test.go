package store

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-insights/internal/weather"
)

// fakeZSets is an in-memory stand-in for the sorted-set commands.
type fakeZSets struct {
	sets    map[string][]redis.Z
	expires map[string]time.Duration
	err     error
}

func newFakeZSets() *fakeZSets {
	return &fakeZSets{sets: map[string][]redis.Z{}, expires: map[string]time.Duration{}}
}

func parseBound(s string) (float64, bool) {
	switch s {
	case "-inf":
		return math.Inf(-1), false
	case "+inf":
		return math.Inf(1), false
	}
	exclusive := strings.HasPrefix(s, "(")
	v, _ := strconv.ParseFloat(strings.TrimPrefix(s, "("), 64)
	return v, exclusive
}

func inRange(score float64, min, max string) bool {
	lo, loEx := parseBound(min)
	hi, hiEx := parseBound(max)
	if score < lo || (loEx && score == lo) {
		return false
	}
	return score < hi || (!hiEx && score == hi)
}

func (f *fakeZSets) ZAdd(_ context.Context, key string, members ...redis.Z) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	set := append(f.sets[key], members...)
	sort.SliceStable(set, func(i, j int) bool { return set[i].Score < set[j].Score })
	f.sets[key] = set
	return redis.NewIntResult(int64(len(members)), nil)
}

func (f *fakeZSets) ZRemRangeByScore(_ context.Context, key, min, max string) *redis.IntCmd {
	var kept []redis.Z
	for _, z := range f.sets[key] {
		if !inRange(z.Score, min, max) {
			kept = append(kept, z)
		}
	}
	removed := len(f.sets[key]) - len(kept)
	f.sets[key] = kept
	return redis.NewIntResult(int64(removed), nil)
}

func (f *fakeZSets) ZRemRangeByRank(_ context.Context, key string, start, stop int64) *redis.IntCmd {
	set := f.sets[key]
	n := int64(len(set))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return redis.NewIntResult(0, nil)
	}
	f.sets[key] = append(append([]redis.Z{}, set[:start]...), set[stop+1:]...)
	return redis.NewIntResult(stop-start+1, nil)
}

func (f *fakeZSets) ZRangeByScore(_ context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd {
	if f.err != nil {
		return redis.NewStringSliceResult(nil, f.err)
	}
	var out []string
	for _, z := range f.sets[key] {
		if inRange(z.Score, opt.Min, opt.Max) {
			out = append(out, z.Member.(string))
		}
	}
	return redis.NewStringSliceResult(out, nil)
}

func (f *fakeZSets) ZRevRange(_ context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	if f.err != nil {
		return redis.NewStringSliceResult(nil, f.err)
	}
	set := f.sets[key]
	var out []string
	for i := len(set) - 1 - int(start); i >= 0 && i >= len(set)-1-int(stop); i-- {
		out = append(out, set[i].Member.(string))
	}
	return redis.NewStringSliceResult(out, nil)
}

func (f *fakeZSets) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func TestRedisStoreLatestAndRange(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeZSets()
	s := NewRedisStore(rdb, 0, 0, nil)

	_, err := s.GetLatest(ctx, loc)
	assert.ErrorIs(t, err, weather.ErrNotFound)

	require.NoError(t, s.SaveObservation(ctx, loc, at(0, 10)))
	require.NoError(t, s.SaveObservation(ctx, loc, at(20, 12)))
	require.NoError(t, s.SaveObservation(ctx, loc, at(10, 11)))

	assert.Len(t, rdb.sets["weather:history:"+loc.Key()], 3)

	latest, err := s.GetLatest(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, 12.0, latest.Temp)
	assert.True(t, latest.Time.Equal(base.Add(20*time.Minute)))

	got, err := s.GetRange(ctx, loc, base, base.Add(10*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 10.0, got[0].Temp)
	assert.Equal(t, 11.0, got[1].Temp)

	_, err = s.GetRange(ctx, loc, base.Add(time.Hour), base.Add(2*time.Hour))
	assert.ErrorIs(t, err, weather.ErrNotFound)
}

func TestRedisStoreRetention(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeZSets()
	s := NewRedisStore(rdb, 2, 30*time.Minute, clockwork.NewFakeClockAt(base.Add(time.Hour)))

	for i, m := range []int{0, 35, 40, 50} {
		require.NoError(t, s.SaveObservation(ctx, loc, at(m, float64(i))))
	}

	key := "weather:history:" + loc.Key()
	assert.Equal(t, 30*time.Minute, rdb.expires[key])

	got, err := s.GetRange(ctx, loc, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Temp)
	assert.Equal(t, 3.0, got[1].Temp)
}

func TestRedisStoreWrapsErrors(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeZSets()
	rdb.err = errors.New("connection refused")
	s := NewRedisStore(rdb, 0, 0, nil)

	err := s.SaveObservation(ctx, loc, at(0, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	_, err = s.GetLatest(ctx, loc)
	require.Error(t, err)
	assert.NotErrorIs(t, err, weather.ErrNotFound)

	_, err = s.GetRange(ctx, loc, base, base)
	require.Error(t, err)
	assert.NotErrorIs(t, err, weather.ErrNotFound)
}
