package service

import (
	"context"

	"PatternPulse/internal/domain/models"
)

// Analyst produces a trading assessment for one snapshot entry.
// One outbound request, one response or failure; no internal retry.
type Analyst interface {
	Analyze(ctx context.Context, entry models.SnapshotEntry) (models.Analysis, error)
}
