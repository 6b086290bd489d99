package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	refreshes        prometheus.Counter
	refreshDuration  prometheus.Histogram
	errorsTotal      *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	alertsQueued     *prometheus.CounterVec
	alertsDelivered  *prometheus.CounterVec
	analysisRequests *prometheus.CounterVec
	streamClients    prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		refreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "patternpulse_snapshot_refreshes_total",
			Help: "Total number of market snapshot regenerations",
		}),
		refreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "patternpulse_snapshot_refresh_duration_seconds",
			Help:    "Duration of snapshot generation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		errorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "patternpulse_errors_total",
			Help: "Total number of errors encountered",
		}, []string{"type"}),
		lastPrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patternpulse_last_price",
			Help: "Last simulated price for a symbol",
		}, []string{"symbol"}),
		alertsQueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "patternpulse_alerts_queued_total",
			Help: "Total number of alerts queued for broadcast",
		}, []string{"symbol"}),
		alertsDelivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "patternpulse_alerts_delivered_total",
			Help: "Total number of alerts handed to the WhatsApp sender",
		}, []string{"symbol"}),
		analysisRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "patternpulse_analysis_requests_total",
			Help: "Total number of AI analysis requests by outcome",
		}, []string{"outcome"}),
		streamClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "patternpulse_stream_clients",
			Help: "Current number of connected websocket clients",
		}),
	}
}

func (r *Recorder) RecordRefresh(seconds float64) {
	r.refreshes.Inc()
	r.refreshDuration.Observe(seconds)
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordAlertQueued(symbol string) {
	r.alertsQueued.WithLabelValues(symbol).Inc()
}

func (r *Recorder) RecordAlertDelivered(symbol string) {
	r.alertsDelivered.WithLabelValues(symbol).Inc()
}

func (r *Recorder) RecordAnalysisRequest(outcome string) {
	r.analysisRequests.WithLabelValues(outcome).Inc()
}

func (r *Recorder) SetStreamClients(n int) {
	r.streamClients.Set(float64(n))
}
