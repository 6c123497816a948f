// Package metrics constructs the metrics the application will track.
package metrics

import (
	"context"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// This holds the single instance of the metrics value needed for
// collecting metrics. All web traffic flows through the same middleware
// so one registration covers the application.
var m *metrics

// metrics represents the set of counters the web layer maintains.
type metrics struct {
	goroutines prometheus.Gauge
	requests   prometheus.Counter
	errors     prometheus.Counter
	panics     prometheus.Counter
}

// init constructs the metrics value that will be used to capture metrics
// and registers it with the default prometheus registry.
func init() {
	m = &metrics{
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forge",
			Subsystem: "web",
			Name:      "goroutines",
			Help:      "Number of goroutines running in the node.",
		}),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forge",
			Subsystem: "web",
			Name:      "requests_total",
			Help:      "Requests handled by the public API.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forge",
			Subsystem: "web",
			Name:      "errors_total",
			Help:      "Requests that ended in an error.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forge",
			Subsystem: "web",
			Name:      "panics_total",
			Help:      "Requests that ended in a panic.",
		}),
	}

	prometheus.MustRegister(m.goroutines, m.requests, m.errors, m.panics)
}

// =============================================================================

type ctxKey int

const key ctxKey = 1

// Set sets the metrics data into the context.
func Set(ctx context.Context) context.Context {
	return context.WithValue(ctx, key, m)
}

// AddRequests increments the request counter.
func AddRequests(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.requests.Inc()
	}
}

// AddGoroutines refreshes the goroutine gauge.
func AddGoroutines(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.goroutines.Set(float64(runtime.NumGoroutine()))
	}
}

// AddErrors increments the error counter.
func AddErrors(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.errors.Inc()
	}
}

// AddPanics increments the panic counter.
func AddPanics(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.panics.Inc()
	}
}
