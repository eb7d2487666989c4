package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the intake collectors.
type Metrics struct {
	registry *prometheus.Registry

	questionsAsked  *prometheus.CounterVec
	answersRecorded *prometheus.CounterVec
	answerRetries   *prometheus.CounterVec
	proposalsReady  *prometheus.CounterVec
	turnDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		questionsAsked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_questions_asked_total",
				Help: "Total number of questions asked",
			},
			[]string{"service", "question"},
		),
		answersRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_answers_recorded_total",
				Help: "Total number of answers recorded, by source",
			},
			[]string{"service", "question", "source"},
		),
		answerRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_answer_retries_total",
				Help: "Total number of unresolved answers that re-asked a question",
			},
			[]string{"service", "question"},
		),
		proposalsReady: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_proposals_ready_total",
				Help: "Total number of assembled proposals",
			},
			[]string{"service"},
		),
		turnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_turn_duration_seconds",
				Help:    "Duration of handled turns",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "outcome"},
		),
	}
	m.registry.MustRegister(
		m.questionsAsked,
		m.answersRecorded,
		m.answerRetries,
		m.proposalsReady,
		m.turnDuration,
	)
	return m
}

// Hooks returns lifecycle hooks that update the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionAsked: func(_ context.Context, e *domain.DialogueEvent) {
			m.questionsAsked.WithLabelValues(e.Service, e.QuestionKey).Inc()
		},
		OnAnswerRecorded: func(_ context.Context, e *domain.DialogueEvent) {
			m.answersRecorded.WithLabelValues(e.Service, e.QuestionKey, string(e.Source)).Inc()
		},
		OnAnswerRetry: func(_ context.Context, e *domain.DialogueEvent) {
			m.answerRetries.WithLabelValues(e.Service, e.QuestionKey).Inc()
		},
		OnProposalReady: func(_ context.Context, e *domain.DialogueEvent) {
			m.proposalsReady.WithLabelValues(e.Service).Inc()
		},
	}
}

// ObserveTurn records the latency of one handled turn.
// Outcome is "asked", "retry", "done" or "error".
func (m *Metrics) ObserveTurn(service, outcome string, d time.Duration) {
	m.turnDuration.WithLabelValues(service, outcome).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
