package utils

import (
	"math"
	"math/rand/v2"
	"time"
)

// sampleGamma returns a sample from the Gamma(shape, scale) distribution using
// the Marsaglia-Tsang squeeze method. shape must be >= 1.
func sampleGamma(shape, scale float64) float64 {
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := rand.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		x2 := x * x
		u := rand.Float64()
		// Fast accept path
		if u < 1.0-0.0331*(x2*x2) {
			return d * v * scale
		}
		// Slow accept path
		if math.Log(u) < 0.5*x2+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// Jitter spreads d with a right-skewed Gamma(16, 1/16) multiplier clamped to
// [0.8, 1.3], so settle delays never land on round numbers.
func Jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	const shape = 16.0
	multiplier := sampleGamma(shape, 1/shape)
	multiplier = min(max(multiplier, 0.8), 1.3)

	return time.Duration(float64(d) * multiplier)
}

// Sleep is the default session sleeper: a jittered time.Sleep.
func Sleep(d time.Duration) {
	time.Sleep(Jitter(d))
}

// RandomDuration returns a duration sampled uniformly from [lo, hi].
func RandomDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

// RandRng returns an integer sampled uniformly from [lo, hi].
func RandRng(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rand.IntN(hi-lo+1)
}
