package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollBudgetExhaustsOnCeilingPlusOne(t *testing.T) {
	b := NewPollBudget(60)
	for i := 1; i <= 60; i++ {
		assert.False(t, b.Fail(), "failure %d must not exhaust", i)
	}
	assert.True(t, b.Fail(), "61st failure exhausts")
	assert.Equal(t, 61, b.Failures())

	b.Reset()
	assert.Equal(t, 0, b.Failures())
	assert.False(t, b.Fail())
}

func TestRandomDurationBounds(t *testing.T) {
	lo, hi := 100*time.Second, 150*time.Second
	for i := 0; i < 1000; i++ {
		d := RandomDuration(lo, hi)
		assert.GreaterOrEqual(t, d, lo)
		assert.LessOrEqual(t, d, hi)
	}
	assert.Equal(t, lo, RandomDuration(lo, lo))
}

func TestRandRng(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := RandRng(1, 3)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 3)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
}

func TestJitterBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		d := Jitter(time.Second)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1300*time.Millisecond)
	}
	assert.Zero(t, Jitter(0))
}
