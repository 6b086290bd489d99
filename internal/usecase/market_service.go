package usecase

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
	"PatternPulse/internal/services/market"
	xlogger "PatternPulse/pkg/logger"
)

// SnapshotSink receives every freshly generated snapshot, e.g. the
// websocket hub.
type SnapshotSink interface {
	Broadcast(entries []models.SnapshotEntry)
}

// MarketService owns the current market snapshot. It regenerates the whole
// snapshot on a ticker (and on demand), swapping it atomically; consumers
// always see a complete, immutable entry set.
type MarketService struct {
	gen      *market.Generator
	src      market.Source
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	sink     SnapshotSink
	interval time.Duration

	mu      sync.RWMutex
	current []models.SnapshotEntry

	stop chan struct{}
	done chan struct{}
}

func NewMarketService(gen *market.Generator, src market.Source, metrics drepo.Metrics, logger *xlogger.Logger, interval time.Duration) *MarketService {
	return &MarketService{
		gen:      gen,
		src:      src,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
	}
}

// SetSink attaches a snapshot consumer. Must be called before Start.
func (s *MarketService) SetSink(sink SnapshotSink) { s.sink = sink }

// Start performs the initial refresh and launches the periodic one.
func (s *MarketService) Start(ctx context.Context) error {
	s.Refresh()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(ctx)
	s.logger.Info("market refresh scheduler started",
		xlogger.Int("universe", len(s.gen.Universe())),
		xlogger.Duration("interval", s.interval))
	return nil
}

func (s *MarketService) loop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}

// Shutdown stops the scheduler and waits for the loop to exit.
func (s *MarketService) Shutdown(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Refresh regenerates the full snapshot, discards the prior one, and
// returns the new entry set.
func (s *MarketService) Refresh() []models.SnapshotEntry {
	start := time.Now()

	s.mu.Lock()
	entries := s.gen.Snapshot()
	s.current = entries
	s.mu.Unlock()

	s.metrics.RecordRefresh(time.Since(start).Seconds())
	for _, e := range entries {
		s.metrics.RecordLastPrice(e.Symbol, e.Price)
	}
	if s.sink != nil {
		s.sink.Broadcast(entries)
	}
	return entries
}

// Snapshot returns the current entry set. The slice is shared but entries
// are never mutated after generation.
func (s *MarketService) Snapshot() []models.SnapshotEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Entry finds one symbol in the current snapshot.
func (s *MarketService) Entry(symbol string) (models.SnapshotEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.current {
		if e.Symbol == symbol {
			return e, true
		}
	}
	return models.SnapshotEntry{}, false
}

// History generates a fresh chart series seeded by the symbol's live price.
// Series are never reused across calls.
func (s *MarketService) History(symbol string) ([]models.ChartPoint, error) {
	entry, ok := s.Entry(symbol)
	if !ok {
		return nil, drepo.ErrNotFound
	}
	// The randomness source is not safe for concurrent draws.
	s.mu.Lock()
	defer s.mu.Unlock()
	return market.GenerateSeries(entry.Price, s.src)
}

// Sectors lists the distinct sector labels of the universe.
func (s *MarketService) Sectors() []string {
	return market.Sectors(s.gen.Universe())
}

// Stats reduces the current snapshot to trend counts and mean confidence.
func (s *MarketService) Stats() models.SnapshotStats {
	return Stats(s.Snapshot())
}

// Stats derives aggregate counts from a snapshot. Mean confidence is 0 for
// an empty snapshot.
func Stats(entries []models.SnapshotEntry) models.SnapshotStats {
	st := models.SnapshotStats{}
	if len(entries) == 0 {
		return st
	}
	sum := 0
	for _, e := range entries {
		switch e.Trend {
		case models.TrendBullish:
			st.Bullish++
		case models.TrendBearish:
			st.Bearish++
		default:
			st.Neutral++
		}
		sum += e.ConfidenceScore
	}
	st.AvgConfidence = int(math.Round(float64(sum) / float64(len(entries))))
	return st
}

// Filter applies the snapshot consumer filters: sector equality, trend
// equality or All, minimum confidence, and a case-insensitive substring
// match over symbol and name.
func Filter(entries []models.SnapshotEntry, q models.SnapshotRequest) []models.SnapshotEntry {
	search := strings.ToLower(q.Search)
	out := make([]models.SnapshotEntry, 0, len(entries))
	for _, e := range entries {
		if q.Sector != "" && q.Sector != "All" && e.Sector != q.Sector {
			continue
		}
		if q.Trend != "" && q.Trend != "All" && string(e.Trend) != q.Trend {
			continue
		}
		if e.ConfidenceScore < q.MinConfidence {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Symbol), search) &&
			!strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		out = append(out, e)
	}
	if q.Sort == "confidence" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ConfidenceScore > out[j].ConfidenceScore
		})
	}
	return out
}
