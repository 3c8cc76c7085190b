package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"EquityScreener/internal/model"
)

// Metrics holds the Prometheus collectors for screening runs.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec   // labels: strategy, live
	RunErrors     *prometheus.CounterVec   // labels: strategy, stage
	RunDuration   *prometheus.HistogramVec // labels: strategy
	Candidates    *prometheus.GaugeVec     // labels: strategy
	TopScore      *prometheus.GaugeVec     // labels: strategy
	UniverseSize  prometheus.Gauge
	Notifications *prometheus.CounterVec // labels: result
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_runs_total",
			Help: "Completed screening runs",
		}, []string{"strategy", "live"}),
		RunErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_run_errors_total",
			Help: "Failed screening runs by stage",
		}, []string{"strategy", "stage"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screener_run_duration_seconds",
			Help:    "Time to load, score and rank one universe",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"strategy"}),
		Candidates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "screener_candidates",
			Help: "Candidates returned by the last run",
		}, []string{"strategy"}),
		TopScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "screener_top_score",
			Help: "Score of the best candidate in the last run",
		}, []string{"strategy"}),
		UniverseSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_universe_size",
			Help: "Records loaded by the last run",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_notifications_total",
			Help: "Digest notifications by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.RunErrors,
		m.RunDuration,
		m.Candidates,
		m.TopScore,
		m.UniverseSize,
		m.Notifications,
	)
	return m
}

// ObserveRun records a completed run.
func (m *Metrics) ObserveRun(run *model.Run) {
	live := "false"
	if run.Live {
		live = "true"
	}
	s := string(run.Strategy)
	m.RunsTotal.WithLabelValues(s, live).Inc()
	m.RunDuration.WithLabelValues(s).Observe(run.Duration.Seconds())
	m.Candidates.WithLabelValues(s).Set(float64(len(run.Candidates)))
	m.UniverseSize.Set(float64(run.UniverseSize))
	if len(run.Candidates) > 0 {
		m.TopScore.WithLabelValues(s).Set(run.Candidates[0].Score)
	}
}

// ObserveError counts a failed run stage ("load", "score", "record").
func (m *Metrics) ObserveError(strategy model.Strategy, stage string) {
	m.RunErrors.WithLabelValues(string(strategy), stage).Inc()
}

// ObserveNotification counts a digest send attempt.
func (m *Metrics) ObserveNotification(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Notifications.WithLabelValues(result).Inc()
}
