package common

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Entropy is the source of randomness for the simulated parts of the service
// (micro-climate offsets, commute delays, synthetic history). Tests supply a
// scripted implementation.
type Entropy interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// NewEntropy returns a goroutine-safe pseudo-random source. A zero seed
// seeds from the current time.
func NewEntropy(seed int64) Entropy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Uniform returns a value in [lo, hi).
func Uniform(e Entropy, lo, hi float64) float64 {
	return lo + (hi-lo)*e.Float64()
}

// IntBetween returns a value in [lo, hi], both inclusive.
func IntBetween(e Entropy, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.Intn(hi-lo+1)
}

// Round rounds half to even at the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
