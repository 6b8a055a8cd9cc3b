package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixed struct {
	f float64
	n int
}

func (x fixed) Float64() float64 { return x.f }
func (x fixed) Intn(int) int     { return x.n }

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("light rain shower", "snow", "rain"))
	assert.False(t, HasAny("sunny", "rain"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"asthma", "heart"}, SplitList(" Asthma, ,HEART "))
	assert.Nil(t, SplitList(""))
}

func TestUniformAndIntBetween(t *testing.T) {
	assert.Equal(t, -1.0, Uniform(fixed{f: 0}, -1, 1))
	assert.Equal(t, 0.0, Uniform(fixed{f: 0.5}, -1, 1))
	assert.Equal(t, 8, IntBetween(fixed{n: 0}, 8, 15))
	assert.Equal(t, 15, IntBetween(fixed{n: 7}, 8, 15))
	assert.Equal(t, 3, IntBetween(fixed{n: 9}, 3, 3))
}

func TestNewEntropy_SeededIsRepeatable(t *testing.T) {
	a, b := NewEntropy(42), NewEntropy(42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(10), b.Intn(10))
	}
	assert.Equal(t, 0, a.Intn(0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 4.0, Round(4.5, 0))
	assert.Equal(t, 6.0, Round(5.5, 0))
	assert.Equal(t, 0.3, Round(0.2999, 1))
}
