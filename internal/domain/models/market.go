package models

import "time"

// Trend is the coarse directional read of a detected pattern.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendNeutral Trend = "Neutral"
)

// PatternType names a chart formation assigned by the signal generator.
type PatternType string

const (
	PatternCupAndHandle     PatternType = "Cup & Handle"
	PatternHeadAndShoulders PatternType = "Head & Shoulders"
	PatternDoubleBottom     PatternType = "Double Bottom"
	PatternBullFlag         PatternType = "Bull Flag"
	PatternBearFlag         PatternType = "Bear Flag"
	PatternFallingWedge     PatternType = "Falling Wedge"
	PatternRisingWedge      PatternType = "Rising Wedge"
	PatternNone             PatternType = "No Pattern"
)

// Patterns lists every non-sentinel pattern type, in draw order.
var Patterns = []PatternType{
	PatternCupAndHandle,
	PatternHeadAndShoulders,
	PatternDoubleBottom,
	PatternBullFlag,
	PatternBearFlag,
	PatternFallingWedge,
	PatternRisingWedge,
}

// Instrument is static reference data for one ticker.
type Instrument struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// HistoricalOccurrence is one simulated past firing of a pattern.
type HistoricalOccurrence struct {
	ID             string      `json:"id"`
	Date           time.Time   `json:"date"`
	Pattern        PatternType `json:"pattern"`
	OutcomePercent float64     `json:"outcomePercent"`
	DurationDays   int         `json:"durationDays"`
}

// SnapshotEntry is one instrument's simulated state within a market snapshot.
// The full entry set is rebuilt atomically on every refresh; entries are
// never mutated after generation.
type SnapshotEntry struct {
	Symbol             string                 `json:"symbol"`
	Name               string                 `json:"name"`
	Sector             string                 `json:"sector"`
	Price              float64                `json:"price"`
	ChangePercent      float64                `json:"changePercent"`
	Volume             int64                  `json:"volume"`
	LastUpdated        time.Time              `json:"lastUpdated"`
	Pattern            PatternType            `json:"pattern"`
	Trend              Trend                  `json:"trend"`
	ConfidenceScore    int                    `json:"confidenceScore"`
	HistoricalAccuracy int                    `json:"historicalAccuracy"`
	ExpectedMove       float64                `json:"expectedMove"`
	VolatilityScore    int                    `json:"volatilityScore"`
	PastOccurrences    []HistoricalOccurrence `json:"pastOccurrences"`
}

// ChartPoint is one sample of a synthetic price-and-indicator series.
// MA values are pointers because the oldest points carry none.
type ChartPoint struct {
	Time    string   `json:"time"`
	Price   float64  `json:"price"`
	MA20    *float64 `json:"ma20,omitempty"`
	MA50    *float64 `json:"ma50,omitempty"`
	RSI     float64  `json:"rsi"`
	BBUpper float64  `json:"bbUpper"`
	BBLower float64  `json:"bbLower"`
}

// SnapshotStats are pure reductions over a snapshot, derived on demand.
type SnapshotStats struct {
	Bullish       int `json:"bullish"`
	Bearish       int `json:"bearish"`
	Neutral       int `json:"neutral"`
	AvgConfidence int `json:"avgConfidence"`
}
