package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-insights/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory observation history. It
// implements weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: observations ordered by time
	data map[string][]weather.Observation

	// retention configuration
	maxHistory int           // max number of observations per location
	maxAge     time.Duration // optional max age for observations
	clock      clockwork.Clock
	lastSweep  time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited; a maxAge <= 0 keeps
// observations regardless of age.
func NewMemoryStore(maxHistory int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		data:       make(map[string][]weather.Observation),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		clock:      clock,
	}
}

// SaveObservation records obs for loc and enforces retention.
func (s *MemoryStore) SaveObservation(_ context.Context, loc weather.Location, obs weather.Observation) error {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.data[key]
	// Keep time order even if observations arrive late.
	i := sort.Search(len(history), func(i int) bool { return history[i].Time.After(obs.Time) })
	history = append(history, weather.Observation{})
	copy(history[i+1:], history[i:])
	history[i] = obs

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge)
		i := sort.Search(len(history), func(i int) bool { return !history[i].Time.Before(cutoff) })
		history = history[i:]
	}

	if len(history) == 0 {
		delete(s.data, key)
	} else {
		s.data[key] = history
	}
	s.sweep()
	return nil
}

// sweep drops locations whose newest observation has aged out. It runs at
// most twice per maxAge so one-off locations do not pile up.
func (s *MemoryStore) sweep() {
	if s.maxAge <= 0 {
		return
	}
	now := s.clock.Now()
	if now.Sub(s.lastSweep) < s.maxAge/2 {
		return
	}
	s.lastSweep = now

	cutoff := now.Add(-s.maxAge)
	for key, history := range s.data {
		if history[len(history)-1].Time.Before(cutoff) {
			delete(s.data, key)
		}
	}
}

// GetLatest returns the most recent observation for a location.
func (s *MemoryStore) GetLatest(_ context.Context, loc weather.Location) (weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data[loc.Key()]
	if len(history) == 0 {
		return weather.Observation{}, weather.ErrNotFound
	}
	return history[len(history)-1], nil
}

// GetRange returns all observations for a location between from and to (inclusive).
func (s *MemoryStore) GetRange(_ context.Context, loc weather.Location, from, to time.Time) ([]weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Observation
	for _, o := range s.data[loc.Key()] {
		if !o.Time.Before(from) && !o.Time.After(to) {
			result = append(result, o)
		}
	}

	if len(result) == 0 {
		return nil, weather.ErrNotFound
	}
	return result, nil
}
