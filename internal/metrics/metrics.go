// Package metrics collects and exposes Prometheus metrics for the bot.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the counters the transport, engine and store report.
type Collector struct {
	updates         *prometheus.CounterVec
	shiftsOpened    prometheus.Counter
	shiftsClosed    prometheus.Counter
	geofenceRejects prometheus.Counter
	authDenied      prometheus.Counter
	storeCalls      *prometheus.CounterVec
	storeLatency    prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anf_updates_total",
			Help: "Inbound telegram updates by kind.",
		}, []string{"kind"}),
		shiftsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anf_shifts_opened_total",
			Help: "Shifts appended to the ledger as OPEN.",
		}),
		shiftsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anf_shifts_closed_total",
			Help: "Shifts transitioned to CLOSED.",
		}),
		geofenceRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anf_geofence_rejections_total",
			Help: "Location proofs rejected for being outside the field radius.",
		}),
		authDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anf_authorization_denied_total",
			Help: "Actions rejected for missing privileges.",
		}),
		storeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anf_store_calls_total",
			Help: "Spreadsheet calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		storeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "anf_store_latency_seconds",
			Help:    "Latency of spreadsheet calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.updates,
		c.shiftsOpened,
		c.shiftsClosed,
		c.geofenceRejects,
		c.authDenied,
		c.storeCalls,
		c.storeLatency,
	)

	return c
}

func (c *Collector) RecordUpdate(kind string) {
	c.updates.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordShiftOpened() { c.shiftsOpened.Inc() }

func (c *Collector) RecordShiftClosed() { c.shiftsClosed.Inc() }

func (c *Collector) RecordGeofenceRejected() { c.geofenceRejects.Inc() }

func (c *Collector) RecordAuthDenied() { c.authDenied.Inc() }

// RecordStoreCall records one spreadsheet round trip.
func (c *Collector) RecordStoreCall(op string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.storeCalls.WithLabelValues(op, outcome).Inc()
	c.storeLatency.Observe(elapsed.Seconds())
}

// Handler returns the HTTP handler exposing the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
