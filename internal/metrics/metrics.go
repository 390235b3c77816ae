package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks pass issuance, lookups and bookings on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	ApplicationsSubmitted prometheus.Counter
	PassIDCollisions      prometheus.Counter
	PassIDExhausted       prometheus.Counter
	Lookups               *prometheus.CounterVec
	TicketsBooked         *prometheus.CounterVec
	HTTPDuration          *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ApplicationsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "buspass_applications_submitted_total",
			Help: "Total number of applications persisted with a pass id",
		}),
		PassIDCollisions: f.NewCounter(prometheus.CounterOpts{
			Name: "buspass_pass_id_collisions_total",
			Help: "Generated pass ids rejected by the unique index",
		}),
		PassIDExhausted: f.NewCounter(prometheus.CounterOpts{
			Name: "buspass_pass_id_exhausted_total",
			Help: "Applications that failed after every pass id attempt collided",
		}),
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "buspass_lookups_total",
			Help: "Applicant lookups by key and outcome",
		}, []string{"by", "outcome"}),
		TicketsBooked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "buspass_tickets_booked_total",
			Help: "Tickets booked by payment type",
		}, []string{"payment_type"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "buspass_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

// ObserveLookup records a lookup by key ("phone", "id", "pass_id") with outcome
// ("found", "not_found", "error", "cache_hit").
func (m *Metrics) ObserveLookup(by, outcome string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(by, outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

