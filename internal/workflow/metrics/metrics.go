// Package metrics provides observability for the workflow module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the workflow sequencer. All methods are nil-safe so
// wiring metrics stays optional in tests.
type Metrics struct {
	// Step validation outcomes by step and result (valid/invalid).
	StepValidations *prometheus.CounterVec

	// Forward transitions, by whether the gate allowed them.
	Advances *prometheus.CounterVec

	// Submissions by result (submitted/rejected).
	Submissions *prometheus.CounterVec
}

// New registers and returns the workflow metrics.
func New() *Metrics {
	return &Metrics{
		StepValidations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "licentia_workflow_step_validations_total",
			Help: "Total step validations by step and outcome",
		}, []string{"step", "outcome"}),

		Advances: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "licentia_workflow_advances_total",
			Help: "Total forward transitions by gate outcome",
		}, []string{"outcome"}),

		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "licentia_workflow_submissions_total",
			Help: "Total submissions by result",
		}, []string{"result"}),
	}
}

// IncrementStepValidation records one step validation.
func (m *Metrics) IncrementStepValidation(step, outcome string) {
	if m != nil {
		m.StepValidations.WithLabelValues(step, outcome).Inc()
	}
}

// IncrementAdvance records a forward transition attempt.
func (m *Metrics) IncrementAdvance(outcome string) {
	if m != nil {
		m.Advances.WithLabelValues(outcome).Inc()
	}
}

// IncrementSubmission records a submission attempt.
func (m *Metrics) IncrementSubmission(result string) {
	if m != nil {
		m.Submissions.WithLabelValues(result).Inc()
	}
}
