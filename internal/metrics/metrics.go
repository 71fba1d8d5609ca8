package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	samples = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procpresence",
			Subsystem: "watch",
			Name:      "samples_total",
			Help:      "Number of process table samples by match result.",
		}, []string{"result"},
	)
	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procpresence",
			Subsystem: "watch",
			Name:      "transitions_total",
			Help:      "Number of presence transitions by target state.",
		}, []string{"to"},
	)
	present = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "procpresence",
			Subsystem: "watch",
			Name:      "present",
			Help:      "Debounced presence of the watched process (1 = on, 0 = off).",
		},
	)
	restarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "procpresence",
			Subsystem: "watch",
			Name:      "cycle_restarts_total",
			Help:      "Number of watch cycles restarted after a failure.",
		},
	)
	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procpresence",
			Subsystem: "notify",
			Name:      "requests_total",
			Help:      "Number of outbound notifications by route and outcome.",
		}, []string{"route", "outcome"},
	)
	notifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "procpresence",
			Subsystem: "notify",
			Name:      "duration_seconds",
			Help:      "Latency of outbound notifications.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{samples, transitions, present, restarts, notifications, notifyDuration}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// HandlerFor serves metrics from g, or from the DefaultGatherer when g is nil.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func ObserveSample(matched bool) {
	if regOK.Load() {
		result := "absent"
		if matched {
			result = "present"
		}
		samples.WithLabelValues(result).Inc()
	}
}

func RecordTransition(turnedOn bool) {
	if regOK.Load() {
		to := "off"
		if turnedOn {
			to = "on"
		}
		transitions.WithLabelValues(to).Inc()
	}
}

func SetPresent(on bool) {
	if regOK.Load() {
		var v float64
		if on {
			v = 1
		}
		present.Set(v)
	}
}

func IncRestart() {
	if regOK.Load() {
		restarts.Inc()
	}
}

func ObserveNotify(route string, ok bool, seconds float64) {
	if regOK.Load() {
		outcome := "ok"
		if !ok {
			outcome = "error"
		}
		notifications.WithLabelValues(route, outcome).Inc()
		notifyDuration.WithLabelValues(route).Observe(seconds)
	}
}
