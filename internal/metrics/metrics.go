package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the workflow counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	TasksCreated         prometheus.Counter
	PointsMoved          *prometheus.CounterVec
	CompletionsSubmitted *prometheus.CounterVec
	CompletionsReviewed  *prometheus.CounterVec
	TokenValidations     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TasksCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "promote_tasks_created_total",
				Help: "Total number of tasks posted",
			},
		),
		PointsMoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promote_points_moved_total",
				Help: "Points debited from creators or credited to completers",
			},
			[]string{"direction"},
		),
		CompletionsSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promote_completions_submitted_total",
				Help: "Completion submissions by outcome",
			},
			[]string{"result"},
		),
		CompletionsReviewed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promote_completions_reviewed_total",
				Help: "Completion reviews by decision",
			},
			[]string{"decision"},
		),
		TokenValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promote_token_validations_total",
				Help: "Completion token validations by outcome",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.TasksCreated,
			m.PointsMoved,
			m.CompletionsSubmitted,
			m.CompletionsReviewed,
			m.TokenValidations,
		)
	}

	return m
}

func (m *Metrics) TaskCreated(cost int64) {
	if m == nil {
		return
	}
	m.TasksCreated.Inc()
	if cost > 0 {
		m.PointsMoved.WithLabelValues("debit").Add(float64(cost))
	}
}

func (m *Metrics) PointsCredited(amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.PointsMoved.WithLabelValues("credit").Add(float64(amount))
}

func (m *Metrics) Submitted(result string) {
	if m == nil {
		return
	}
	m.CompletionsSubmitted.WithLabelValues(result).Inc()
}

func (m *Metrics) Reviewed(decision string) {
	if m == nil {
		return
	}
	m.CompletionsReviewed.WithLabelValues(decision).Inc()
}

func (m *Metrics) TokenValidated(result string) {
	if m == nil {
		return
	}
	m.TokenValidations.WithLabelValues(result).Inc()
}
