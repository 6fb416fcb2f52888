package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gokatarajesh/slicetomeetyou/internal/quiz"
	"github.com/gokatarajesh/slicetomeetyou/internal/quiz/scoring"
)

const namespace = "slices"

// Metrics holds the client-side collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	answers          *prometheus.CounterVec
	effectiveSeconds prometheus.Histogram
	sessions         prometheus.Counter
	sessionAvg       prometheus.Gauge

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ quiz.Recorder = (*Metrics)(nil)

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		answers: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "answers_total",
			Help:      "Answered questions by result.",
		}, []string{"result"}),
		effectiveSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "effective_time_seconds",
			Help:      "Effective time per answer, penalty included.",
			Buckets:   []float64{1, 2, 3, 5, 8, 11, 15, 20, 30},
		}),
		sessions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "sessions_total",
			Help:      "Completed quiz sessions.",
		}),
		sessionAvg: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "last_session_avg_effective_seconds",
			Help:      "Average effective time of the most recent session.",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Backend requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Backend round trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// Registry exposes the collectors, e.g. for promhttp or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveAnswer(rec quiz.QuestionRecord) {
	result := "incorrect"
	if rec.Correct {
		result = "correct"
	}
	m.answers.WithLabelValues(result).Inc()
	m.effectiveSeconds.Observe(rec.EffectiveTime.Seconds())
}

func (m *Metrics) ObserveSession(s scoring.Summary) {
	m.sessions.Inc()
	m.sessionAvg.Set(s.AverageEffective.Seconds())
}

// ObserveRequest records one backend call. status is 0 when the request never
// got an answer.
func (m *Metrics) ObserveRequest(endpoint string, status int, d time.Duration) {
	outcome := "network_error"
	if status > 0 {
		outcome = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
