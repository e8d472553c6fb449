package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creditrisk/internal/domain"
)

// Metrics holds the scoring service collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    prometheus.Histogram
	modelAUC    *prometheus.GaugeVec
}

// NewMetrics registers the collectors together with the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creditrisk",
			Name:      "predictions_total",
			Help:      "Predictions served, by recommendation.",
		}, []string{"recommendation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creditrisk",
			Name:      "prediction_errors_total",
			Help:      "Prediction requests that failed, by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "creditrisk",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent producing a prediction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		modelAUC: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "creditrisk",
			Name:      "model_auc",
			Help:      "Test AUC of the loaded model.",
		}, []string{"run_id", "model_kind"}),
	}
	m.registry.MustRegister(
		m.predictions,
		m.errors,
		m.duration,
		m.modelAUC,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObservePrediction counts a served prediction and its latency.
func (m *Metrics) ObservePrediction(rec domain.Recommendation, elapsed time.Duration) {
	m.predictions.WithLabelValues(string(rec)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveError counts a failed prediction.
func (m *Metrics) ObserveError(reason string) {
	m.errors.WithLabelValues(reason).Inc()
}

// SetModel publishes the AUC of the model being served.
func (m *Metrics) SetModel(runID, kind string, auc float64) {
	m.modelAUC.Reset()
	m.modelAUC.WithLabelValues(runID, kind).Set(auc)
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
