package models

import "time"

// Alert is one queued WhatsApp signal broadcast for a single symbol.
type Alert struct {
	ID         string      `json:"id"`
	Symbol     string      `json:"symbol"`
	Name       string      `json:"name"`
	Pattern    PatternType `json:"pattern"`
	Trend      Trend       `json:"trend"`
	Confidence int         `json:"confidence"`
	Price      float64     `json:"price"`
	Phone      string      `json:"phone"`
	QueuedAt   time.Time   `json:"queuedAt"`
}

// BroadcastResult reports the outcome of a broadcast request.
type BroadcastResult struct {
	Queued  []string `json:"queued"`
	Skipped []string `json:"skipped,omitempty"`
}
