package market

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"PatternPulse/internal/domain/models"
)

// Design constants for the signal generator. Ranges are inclusive.
const (
	patternProbability = 0.7  // chance an instrument has a detected pattern
	winProbability     = 0.65 // chance a historical occurrence was a win

	confidenceMin = 45
	confidenceMax = 98
	// Below this confidence a detected pattern is not trusted directionally.
	confidenceNeutralFloor = 50

	occurrenceCountMin = 5
	occurrenceCountMax = 15
	occurrenceMonths   = 24

	winOutcomeMin  = 2.0
	winOutcomeMax  = 18.0
	lossOutcomeMin = -8.0
	lossOutcomeMax = -1.0

	holdDaysMin = 3
	holdDaysMax = 25

	priceMin        = 100.0
	priceMax        = 4000.0
	changeMin       = -4.0
	changeMax       = 4.0
	volumeMin       = 50_000
	volumeMax       = 5_000_000
	expectedMoveMin = 2.0
	expectedMoveMax = 12.0
	volatilityMin   = 20
	volatilityMax   = 80
)

var bullishPatterns = map[models.PatternType]bool{
	models.PatternCupAndHandle: true,
	models.PatternDoubleBottom: true,
	models.PatternBullFlag:     true,
	models.PatternFallingWedge: true,
}

// ClassifyTrend maps a pattern type to its trend. Pure lookup, total over
// the pattern enumeration: the sentinel is neutral, a fixed subset is
// bullish, every other pattern is bearish.
func ClassifyTrend(p models.PatternType) models.Trend {
	switch {
	case p == models.PatternNone:
		return models.TrendNeutral
	case bullishPatterns[p]:
		return models.TrendBullish
	default:
		return models.TrendBearish
	}
}

// Generator produces full market snapshots for a fixed instrument universe.
// It holds no state between calls beyond the injected randomness source;
// every Snapshot call regenerates everything.
type Generator struct {
	universe []models.Instrument
	src      Source
	now      func() time.Time
}

type GeneratorOption func(*Generator)

// WithClock overrides the generator's clock.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(universe []models.Instrument, src Source, opts ...GeneratorOption) *Generator {
	g := &Generator{universe: universe, src: src, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Universe returns the instrument set the generator was built with.
func (g *Generator) Universe() []models.Instrument { return g.universe }

// Snapshot generates one entry per universe instrument, in universe order.
// An empty universe legitimately yields an empty snapshot.
func (g *Generator) Snapshot() []models.SnapshotEntry {
	now := g.now()
	entries := make([]models.SnapshotEntry, 0, len(g.universe))
	for _, ins := range g.universe {
		entries = append(entries, g.generateEntry(ins, now))
	}
	return entries
}

func (g *Generator) generateEntry(ins models.Instrument, now time.Time) models.SnapshotEntry {
	pattern := models.PatternNone
	if g.src.Float64() < patternProbability {
		pattern = models.Patterns[g.src.Intn(len(models.Patterns))]
	}

	trend := ClassifyTrend(pattern)

	confidence := 0
	if pattern != models.PatternNone {
		confidence = intBetween(g.src, confidenceMin, confidenceMax)
		if confidence < confidenceNeutralFloor {
			trend = models.TrendNeutral
		}
	}

	occurrences := g.generateOccurrences(pattern, now)
	accuracy := historicalAccuracy(occurrences)

	entry := models.SnapshotEntry{
		Symbol:             ins.Symbol,
		Name:               ins.Name,
		Sector:             ins.Sector,
		Price:              floatBetween(g.src, priceMin, priceMax, 2),
		ChangePercent:      floatBetween(g.src, changeMin, changeMax, 2),
		Volume:             int64(intBetween(g.src, volumeMin, volumeMax)),
		LastUpdated:        now,
		Pattern:            pattern,
		Trend:              trend,
		ConfidenceScore:    confidence,
		HistoricalAccuracy: accuracy,
		VolatilityScore:    intBetween(g.src, volatilityMin, volatilityMax),
		PastOccurrences:    occurrences,
	}
	if pattern != models.PatternNone {
		entry.ExpectedMove = floatBetween(g.src, expectedMoveMin, expectedMoveMax, 2)
	}
	return entry
}

// generateOccurrences simulates past firings of the pattern within the
// trailing 24 months, sorted newest first. The sentinel has no history.
func (g *Generator) generateOccurrences(pattern models.PatternType, now time.Time) []models.HistoricalOccurrence {
	if pattern == models.PatternNone {
		return []models.HistoricalOccurrence{}
	}

	count := intBetween(g.src, occurrenceCountMin, occurrenceCountMax)
	start := now.AddDate(0, -occurrenceMonths, 0)

	occurrences := make([]models.HistoricalOccurrence, 0, count)
	for i := 0; i < count; i++ {
		var outcome float64
		if g.src.Float64() < winProbability {
			outcome = floatBetween(g.src, winOutcomeMin, winOutcomeMax, 2)
		} else {
			outcome = floatBetween(g.src, lossOutcomeMin, lossOutcomeMax, 2)
		}
		occurrences = append(occurrences, models.HistoricalOccurrence{
			ID:             uuid.NewString(),
			Date:           dateBetween(g.src, start, now),
			Pattern:        pattern,
			OutcomePercent: outcome,
			DurationDays:   intBetween(g.src, holdDaysMin, holdDaysMax),
		})
	}

	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].Date.After(occurrences[j].Date)
	})
	return occurrences
}

// historicalAccuracy is round(100*wins/total); 0 when there is no history.
func historicalAccuracy(occurrences []models.HistoricalOccurrence) int {
	if len(occurrences) == 0 {
		return 0
	}
	wins := 0
	for _, o := range occurrences {
		if o.OutcomePercent > 0 {
			wins++
		}
	}
	return int(math.Round(100 * float64(wins) / float64(len(occurrences))))
}
