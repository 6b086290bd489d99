package market

import (
	"math"
	"math/rand"
	"time"
)

// Source is the injectable randomness behind both generators. *rand.Rand
// satisfies it; tests substitute fixed stubs to pin every draw.
type Source interface {
	// Float64 returns a draw in [0, 1).
	Float64() float64
	// Intn returns a draw in [0, n).
	Intn(n int) int
}

// NewSource returns a seeded Source. Generation is reproducible for a fixed
// seed, which is the only state the generators close over.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// floatBetween draws uniformly in [min, max] rounded to the given decimals.
func floatBetween(src Source, min, max float64, decimals int) float64 {
	return round(src.Float64()*(max-min)+min, decimals)
}

// intBetween draws uniformly in [min, max], both ends inclusive.
func intBetween(src Source, min, max int) int {
	return src.Intn(max-min+1) + min
}

// dateBetween draws a uniform instant in [start, end).
func dateBetween(src Source, start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(src.Float64() * float64(span)))
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
