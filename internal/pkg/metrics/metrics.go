// Package metrics exposes Prometheus collectors for the registration
// workflows and the HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registration outcomes
const (
	OutcomeRegistered          = "registered"
	OutcomeAlreadyRegistered   = "already_registered"
	OutcomeNoSeats             = "no_seats"
	OutcomePrerequisitesNotMet = "prerequisites_not_met"
	OutcomeError               = "error"
)

// Metrics owns a private registry so several instances can coexist in tests
type Metrics struct {
	registry *prometheus.Registry

	registrations   *prometheus.CounterVec
	drops           *prometheus.CounterVec
	seatsReleased   prometheus.Counter
	noticesSent     prometheus.Counter
	timetableEdits  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courseregistry",
			Name:      "registrations_total",
			Help:      "Course registration attempts by outcome.",
		}, []string{"outcome"}),
		drops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courseregistry",
			Name:      "drops_total",
			Help:      "Course drops by actor.",
		}, []string{"actor"}),
		seatsReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courseregistry",
			Name:      "seats_released_total",
			Help:      "Seats returned to courses by drops and prerequisite refunds.",
		}),
		noticesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courseregistry",
			Name:      "seat_notices_total",
			Help:      "Seat-available notices addressed to subscribers.",
		}),
		timetableEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courseregistry",
			Name:      "timetable_updates_total",
			Help:      "Timetable update attempts by result.",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courseregistry",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.registrations,
		m.drops,
		m.seatsReleased,
		m.noticesSent,
		m.timetableEdits,
		m.requestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRegistration counts one registration attempt
func (m *Metrics) ObserveRegistration(outcome string) {
	m.registrations.WithLabelValues(outcome).Inc()
}

// ObserveDrop counts one drop by a "student" or "admin" actor
func (m *Metrics) ObserveDrop(actor string) {
	m.drops.WithLabelValues(actor).Inc()
}

// ObserveSeatReleased counts returned seats
func (m *Metrics) ObserveSeatReleased(n int) {
	m.seatsReleased.Add(float64(n))
}

// ObserveNotices counts notices addressed to subscribers
func (m *Metrics) ObserveNotices(n int) {
	m.noticesSent.Add(float64(n))
}

// ObserveTimetableUpdate counts a timetable edit by result
func (m *Metrics) ObserveTimetableUpdate(result string) {
	m.timetableEdits.WithLabelValues(result).Inc()
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
