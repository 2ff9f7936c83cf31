// Package metrics exposes wizard activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/wizard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the booking wizard collectors. It implements wizard.Observer.
type Metrics struct {
	TransitionsTotal  *prometheus.CounterVec
	SelectionsTotal   *prometheus.CounterVec
	CurrentStep       prometheus.Gauge
	SubmissionsTotal  prometheus.Counter
	SubmitErrorsTotal prometheus.Counter
	SubmitDuration    prometheus.Histogram
	BookingDuration   prometheus.Histogram

	gatherer prometheus.Gatherer

	mu      sync.Mutex
	started time.Time
}

// New registers the collectors with reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		TransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "inkbook_wizard_transitions_total",
			Help: "Total number of wizard transitions by kind",
		}, []string{"kind"}),

		SelectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "inkbook_wizard_selections_total",
			Help: "Total number of catalog selections by field",
		}, []string{"field"}),

		CurrentStep: factory.NewGauge(prometheus.GaugeOpts{
			Name: "inkbook_wizard_current_step",
			Help: "Step the most recently active wizard is on",
		}),

		SubmissionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "inkbook_bookings_submitted_total",
			Help: "Total number of submitted bookings",
		}),

		SubmitErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "inkbook_submitter_errors_total",
			Help: "Total number of failed submitter calls",
		}),

		SubmitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "inkbook_submitter_duration_seconds",
			Help:    "Time spent handing a booking to submitters",
			Buckets: prometheus.DefBuckets,
		}),

		BookingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "inkbook_booking_duration_seconds",
			Help:    "Time from the first selection to submission",
			Buckets: []float64{30, 60, 120, 300, 600, 1200, 1800, 3600},
		}),

		gatherer: reg,
	}
}

// OnTransition implements wizard.Observer.
func (m *Metrics) OnTransition(t wizard.Transition) {
	m.TransitionsTotal.WithLabelValues(string(t.Kind)).Inc()
	m.CurrentStep.Set(float64(t.To))

	m.mu.Lock()
	defer m.mu.Unlock()

	switch t.Kind {
	case wizard.TransitionSelect:
		m.SelectionsTotal.WithLabelValues(t.Field).Inc()
		if m.started.IsZero() {
			m.started = t.At
		}
	case wizard.TransitionNext, wizard.TransitionAutoAdvance:
		if m.started.IsZero() {
			m.started = t.At
		}
	case wizard.TransitionSubmitted:
		m.SubmissionsTotal.Inc()
		if !m.started.IsZero() {
			m.BookingDuration.Observe(t.At.Sub(m.started).Seconds())
		}
		m.started = time.Time{}
	case wizard.TransitionReset, wizard.TransitionClosed:
		m.started = time.Time{}
	}
}

// Submitter wraps s so its calls are timed and failures counted.
func (m *Metrics) Submitter(s wizard.Submitter) wizard.Submitter {
	return wizard.SubmitterFunc(func(ctx context.Context, summary booking.Summary) error {
		timer := prometheus.NewTimer(m.SubmitDuration)
		defer timer.ObserveDuration()

		if err := s.Submit(ctx, summary); err != nil {
			m.SubmitErrorsTotal.Inc()
			return err
		}
		return nil
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
