package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "signalflow"

// Metrics holds the collectors for one runtime. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Propagations        *prometheus.CounterVec
	PropagationDuration prometheus.Histogram
	ReactionErrors      prometheus.Counter
	TasksStarted        *prometheus.CounterVec
	TasksCompleted      *prometheus.CounterVec
	QueueDepth          *prometheus.GaugeVec
	Frames              *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Propagations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "propagations_total",
			Help:      "Events delivered through the graph, by whether the addressed input changed.",
		}, []string{"changed"}),
		PropagationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "propagation_duration_seconds",
			Help:      "Wall time of one propagation pass.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		ReactionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaction_errors_total",
			Help:      "Node reactions that panicked or returned an error.",
		}),
		TasksStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_started_total",
			Help:      "Tasks handed to the scheduler by a task queue.",
		}, []string{"queue"}),
		TasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Tasks finished by a task queue, by outcome.",
		}, []string{"queue", "outcome"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "task_queue_depth",
			Help:      "Tasks waiting or running in a task queue.",
		}, []string{"queue"}),
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frame callbacks handled by a batcher, by whether work was performed.",
		}, []string{"batcher", "performed"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Propagations,
			m.PropagationDuration,
			m.ReactionErrors,
			m.TasksStarted,
			m.TasksCompleted,
			m.QueueDepth,
			m.Frames,
		)
	}
	return m
}

func (m *Metrics) ObservePropagation(d time.Duration, changed bool) {
	if m == nil {
		return
	}
	m.Propagations.WithLabelValues(boolLabel(changed)).Inc()
	m.PropagationDuration.Observe(d.Seconds())
}

func (m *Metrics) ReactionFailed() {
	if m == nil {
		return
	}
	m.ReactionErrors.Inc()
}

func (m *Metrics) TaskStarted(queue string) {
	if m == nil {
		return
	}
	m.TasksStarted.WithLabelValues(queue).Inc()
}

func (m *Metrics) TaskCompleted(queue string, failed bool) {
	if m == nil {
		return
	}
	outcome := "succeed"
	if failed {
		outcome = "fail"
	}
	m.TasksCompleted.WithLabelValues(queue, outcome).Inc()
}

func (m *Metrics) SetQueueDepth(queue string, depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.WithLabelValues(queue).Set(float64(depth))
}

func (m *Metrics) FrameHandled(batcher string, performed bool) {
	if m == nil {
		return
	}
	m.Frames.WithLabelValues(batcher, boolLabel(performed)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
