package market

import (
	"math"
	"testing"
	"time"

	"PatternPulse/internal/domain/models"
)

// fixedSource returns the same draw forever.
type fixedSource struct{ f float64 }

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) Intn(n int) int   { return int(s.f * float64(n)) }

// seqSource replays a fixed sequence of draws.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) next() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}
func (s *seqSource) Float64() float64 { return s.next() }
func (s *seqSource) Intn(n int) int   { return int(s.next() * float64(n)) }

func TestClassifyTrendIsPureAndTotal(t *testing.T) {
	if got := ClassifyTrend(models.PatternNone); got != models.TrendNeutral {
		t.Fatalf("sentinel trend = %s, want Neutral", got)
	}
	bullish := map[models.PatternType]bool{
		models.PatternCupAndHandle: true,
		models.PatternDoubleBottom: true,
		models.PatternBullFlag:     true,
		models.PatternFallingWedge: true,
	}
	for _, p := range models.Patterns {
		first := ClassifyTrend(p)
		second := ClassifyTrend(p)
		if first != second {
			t.Fatalf("classifier not deterministic for %s: %s != %s", p, first, second)
		}
		want := models.TrendBearish
		if bullish[p] {
			want = models.TrendBullish
		}
		if first != want {
			t.Fatalf("trend for %s = %s, want %s", p, first, want)
		}
	}
}

func TestSnapshotUniverseOrder(t *testing.T) {
	g := NewGenerator(Universe, NewSource(1))
	entries := g.Snapshot()
	if len(entries) != len(Universe) {
		t.Fatalf("got %d entries, want %d", len(entries), len(Universe))
	}
	for i, e := range entries {
		if e.Symbol != Universe[i].Symbol {
			t.Fatalf("entry %d symbol = %s, want %s", i, e.Symbol, Universe[i].Symbol)
		}
	}
}

func TestSnapshotEmptyUniverse(t *testing.T) {
	g := NewGenerator(nil, NewSource(1))
	if entries := g.Snapshot(); len(entries) != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", len(entries))
	}
}

func TestSnapshotInvariants(t *testing.T) {
	g := NewGenerator(Universe, NewSource(42))
	for refresh := 0; refresh < 5; refresh++ {
		for _, e := range g.Snapshot() {
			if e.Pattern == models.PatternNone {
				if e.ConfidenceScore != 0 || e.ExpectedMove != 0 || e.HistoricalAccuracy != 0 {
					t.Fatalf("%s: sentinel entry has non-zero signal fields: %+v", e.Symbol, e)
				}
				if len(e.PastOccurrences) != 0 {
					t.Fatalf("%s: sentinel entry has occurrences", e.Symbol)
				}
				if e.Trend != models.TrendNeutral {
					t.Fatalf("%s: sentinel entry trend = %s", e.Symbol, e.Trend)
				}
				continue
			}

			if e.ConfidenceScore < 45 || e.ConfidenceScore > 98 {
				t.Fatalf("%s: confidence %d out of [45,98]", e.Symbol, e.ConfidenceScore)
			}
			if e.ConfidenceScore < 50 {
				if e.Trend != models.TrendNeutral {
					t.Fatalf("%s: confidence %d but trend %s, want Neutral", e.Symbol, e.ConfidenceScore, e.Trend)
				}
			} else if e.Trend != ClassifyTrend(e.Pattern) {
				t.Fatalf("%s: trend %s does not match classifier %s", e.Symbol, e.Trend, ClassifyTrend(e.Pattern))
			}
			if e.ExpectedMove < 2 || e.ExpectedMove > 12 {
				t.Fatalf("%s: expected move %v out of [2,12]", e.Symbol, e.ExpectedMove)
			}
			if n := len(e.PastOccurrences); n < 5 || n > 15 {
				t.Fatalf("%s: %d occurrences out of [5,15]", e.Symbol, n)
			}

			wins := 0
			for i, o := range e.PastOccurrences {
				if i > 0 && o.Date.After(e.PastOccurrences[i-1].Date) {
					t.Fatalf("%s: occurrences not sorted descending by date", e.Symbol)
				}
				if o.Pattern != e.Pattern {
					t.Fatalf("%s: occurrence pattern %s != entry pattern %s", e.Symbol, o.Pattern, e.Pattern)
				}
				if o.DurationDays < 3 || o.DurationDays > 25 {
					t.Fatalf("%s: hold duration %d out of [3,25]", e.Symbol, o.DurationDays)
				}
				if o.OutcomePercent > 0 {
					wins++
					if o.OutcomePercent < 2 || o.OutcomePercent > 18 {
						t.Fatalf("%s: win outcome %v out of [2,18]", e.Symbol, o.OutcomePercent)
					}
				} else if o.OutcomePercent < -8 || o.OutcomePercent > -1 {
					t.Fatalf("%s: loss outcome %v out of [-8,-1]", e.Symbol, o.OutcomePercent)
				}
			}
			want := int(math.Round(100 * float64(wins) / float64(len(e.PastOccurrences))))
			if e.HistoricalAccuracy != want {
				t.Fatalf("%s: accuracy %d, want %d", e.Symbol, e.HistoricalAccuracy, want)
			}
		}
	}
}

func TestOccurrenceDatesWithinTrailingWindow(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(Universe, NewSource(42), WithClock(func() time.Time { return now }))
	start := now.AddDate(0, -24, 0)
	for _, e := range g.Snapshot() {
		if !e.LastUpdated.Equal(now) {
			t.Fatalf("%s: lastUpdated = %v, want pinned clock %v", e.Symbol, e.LastUpdated, now)
		}
		for _, o := range e.PastOccurrences {
			if o.Date.Before(start) || o.Date.After(now) {
				t.Fatalf("%s: occurrence date %v outside [%v, %v]", e.Symbol, o.Date, start, now)
			}
		}
	}
}

func TestSnapshotScalarRanges(t *testing.T) {
	g := NewGenerator(Universe, NewSource(7))
	for _, e := range g.Snapshot() {
		if e.Price < 100 || e.Price > 4000 {
			t.Fatalf("%s: price %v out of [100,4000]", e.Symbol, e.Price)
		}
		if e.ChangePercent < -4 || e.ChangePercent > 4 {
			t.Fatalf("%s: change %v out of [-4,4]", e.Symbol, e.ChangePercent)
		}
		if e.Volume < 50_000 || e.Volume > 5_000_000 {
			t.Fatalf("%s: volume %d out of range", e.Symbol, e.Volume)
		}
		if e.VolatilityScore < 20 || e.VolatilityScore > 80 {
			t.Fatalf("%s: volatility %d out of [20,80]", e.Symbol, e.VolatilityScore)
		}
	}
}

// With every draw pinned to 0.5 the pattern branch is always taken and the
// confidence lands well above the neutral floor, so every trend must come
// straight from the lookup table.
func TestSnapshotAllPatternsClassified(t *testing.T) {
	g := NewGenerator(Universe, fixedSource{0.5})
	for _, e := range g.Snapshot() {
		if e.Pattern == models.PatternNone {
			t.Fatalf("%s: expected a pattern", e.Symbol)
		}
		if e.ConfidenceScore < 50 {
			t.Fatalf("%s: confidence %d below neutral floor", e.Symbol, e.ConfidenceScore)
		}
		if e.Trend != ClassifyTrend(e.Pattern) {
			t.Fatalf("%s: trend %s, want %s", e.Symbol, e.Trend, ClassifyTrend(e.Pattern))
		}
	}
}

func TestLowConfidenceForcesNeutral(t *testing.T) {
	// Draws: pattern present (0.1 < 0.7), pattern index -> Cup & Handle (0.0),
	// confidence -> 45 (0.0), then plenty of mid draws for the rest.
	src := &seqSource{vals: []float64{0.1, 0.0, 0.0, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}}
	g := NewGenerator(Universe[:1], src)
	e := g.Snapshot()[0]
	if e.Pattern != models.PatternCupAndHandle {
		t.Fatalf("pattern = %s, want Cup & Handle", e.Pattern)
	}
	if e.ConfidenceScore != 45 {
		t.Fatalf("confidence = %d, want 45", e.ConfidenceScore)
	}
	if e.Trend != models.TrendNeutral {
		t.Fatalf("trend = %s, want Neutral", e.Trend)
	}
}

func TestSectorsDeduplicated(t *testing.T) {
	sectors := Sectors(Universe)
	seen := map[string]bool{}
	for _, s := range sectors {
		if seen[s] {
			t.Fatalf("duplicate sector %s", s)
		}
		seen[s] = true
	}
	if sectors[0] != "Energy" {
		t.Fatalf("first sector = %s, want Energy", sectors[0])
	}
}

func TestSeededSnapshotReproducible(t *testing.T) {
	a := NewGenerator(Universe, NewSource(99)).Snapshot()
	b := NewGenerator(Universe, NewSource(99)).Snapshot()
	for i := range a {
		if a[i].Pattern != b[i].Pattern || a[i].ConfidenceScore != b[i].ConfidenceScore || a[i].Price != b[i].Price {
			t.Fatalf("snapshot not reproducible for seed 99 at %s", a[i].Symbol)
		}
	}
}
