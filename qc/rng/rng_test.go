package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministicForSameSeed(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 5; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestSeedReseedsEngine(t *testing.T) {
	a := New(1)
	first := a.Float64()
	a.Seed(1)
	assert.Equal(t, first, a.Float64())
}

func TestFloat64StaysInUnitInterval(t *testing.T) {
	e := New(7)
	for i := 0; i < 1000; i++ {
		v := e.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestDefaultSeedIsReproducibleAfterReseed(t *testing.T) {
	Seed(99)
	first := Rand()
	Seed(99)
	assert.Equal(t, first, Rand())
}
