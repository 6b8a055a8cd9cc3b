package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/i474232898/weather-insights/internal/weather"
)

// sortedSets is the subset of the Redis API the store uses. *redis.Client
// satisfies it.
type sortedSets interface {
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRemRangeByScore(ctx context.Context, key, min, max string) *redis.IntCmd
	ZRemRangeByRank(ctx context.Context, key string, start, stop int64) *redis.IntCmd
	ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd
	ZRevRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisStore keeps observation history in one sorted set per location,
// scored by observation time in milliseconds. It implements weather.Store.
type RedisStore struct {
	rdb        sortedSets
	prefix     string
	maxHistory int
	maxAge     time.Duration
	clock      clockwork.Clock
}

// NewRedisStore creates a RedisStore. Limits behave as for NewMemoryStore.
func NewRedisStore(rdb sortedSets, maxHistory int, maxAge time.Duration, clock clockwork.Clock) *RedisStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RedisStore{
		rdb:        rdb,
		prefix:     "weather:history:",
		maxHistory: maxHistory,
		maxAge:     maxAge,
		clock:      clock,
	}
}

func (s *RedisStore) key(loc weather.Location) string {
	return s.prefix + loc.Key()
}

func score(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// SaveObservation adds obs to the location's set and trims it.
func (s *RedisStore) SaveObservation(ctx context.Context, loc weather.Location, obs weather.Observation) error {
	data, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("failed to marshal observation: %w", err)
	}

	key := s.key(loc)
	if err := s.rdb.ZAdd(ctx, key, redis.Z{Score: float64(obs.Time.UnixMilli()), Member: string(data)}).Err(); err != nil {
		return fmt.Errorf("failed to add observation to Redis: %w", err)
	}

	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge)
		if err := s.rdb.ZRemRangeByScore(ctx, key, "-inf", "("+score(cutoff)).Err(); err != nil {
			return fmt.Errorf("failed to trim history by age: %w", err)
		}
		if err := s.rdb.Expire(ctx, key, s.maxAge).Err(); err != nil {
			return fmt.Errorf("failed to set history expiry: %w", err)
		}
	}
	if s.maxHistory > 0 {
		if err := s.rdb.ZRemRangeByRank(ctx, key, 0, -int64(s.maxHistory)-1).Err(); err != nil {
			return fmt.Errorf("failed to trim history by count: %w", err)
		}
	}
	return nil
}

// GetLatest returns the most recent observation for a location.
func (s *RedisStore) GetLatest(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	members, err := s.rdb.ZRevRange(ctx, s.key(loc), 0, 0).Result()
	if err != nil {
		return weather.Observation{}, fmt.Errorf("failed to read history from Redis: %w", err)
	}
	if len(members) == 0 {
		return weather.Observation{}, weather.ErrNotFound
	}
	obs, err := decode(members)
	if err != nil {
		return weather.Observation{}, err
	}
	return obs[0], nil
}

// GetRange returns all observations for a location between from and to (inclusive).
func (s *RedisStore) GetRange(ctx context.Context, loc weather.Location, from, to time.Time) ([]weather.Observation, error) {
	members, err := s.rdb.ZRangeByScore(ctx, s.key(loc), &redis.ZRangeBy{Min: score(from), Max: score(to)}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history from Redis: %w", err)
	}
	if len(members) == 0 {
		return nil, weather.ErrNotFound
	}
	return decode(members)
}

func decode(members []string) ([]weather.Observation, error) {
	out := make([]weather.Observation, 0, len(members))
	for _, m := range members {
		var o weather.Observation
		if err := json.Unmarshal([]byte(m), &o); err != nil {
			return nil, fmt.Errorf("failed to unmarshal observation: %w", err)
		}
		out = append(out, o)
	}
	return out, nil
}
