package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the service's collectors. Each Recorder registers with its
// own registerer so tests can build independent instances.
type Recorder struct {
	tasksScored *prometheus.CounterVec
	scores      *prometheus.HistogramVec
	requests    *prometheus.CounterVec
}

// New registers the triage collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		tasksScored: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "tasks_scored_total",
			Help:      "Number of tasks scored, by strategy and priority band.",
		}, []string{"strategy", "priority"}),
		scores: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "triage",
			Name:      "task_score",
			Help:      "Distribution of computed task scores.",
			Buckets:   []float64{0, 20, 40, 60, 80, 100, 120, 160, 200, 250},
		}, []string{"strategy"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "ranking_requests_total",
			Help:      "Ranking requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
	}
}

// ObserveScore records one scored task.
func (r *Recorder) ObserveScore(strategy, priority string, score float64) {
	if r == nil {
		return
	}
	r.tasksScored.WithLabelValues(strategy, priority).Inc()
	r.scores.WithLabelValues(strategy).Observe(score)
}

// ObserveRequest records the outcome of an analyze or suggest request.
func (r *Recorder) ObserveRequest(endpoint, outcome string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(endpoint, outcome).Inc()
}
