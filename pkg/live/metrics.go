package live

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus metrics for the live view server.
type metrics struct {
	mutationsTotal *prometheus.CounterVec
	mutationTime   prometheus.Histogram
	patchesSent    prometheus.Counter
	patchesDropped prometheus.Counter
	activeClients  prometheus.Gauge
	bindingErrors  prometheus.Counter
}

// defaultMetrics guards registration against the process-wide default
// registerer, which tolerates only one registration per metric name.
var (
	defaultMetrics     *metrics
	defaultMetricsOnce sync.Once
)

func newMetrics(registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weft",
			Subsystem: "live",
			Name:      "mutations_total",
			Help:      "Total number of data mutations by status",
		}, []string{"status"}),

		mutationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weft",
			Subsystem: "live",
			Name:      "mutation_duration_seconds",
			Help:      "Mutation processing duration, including synchronous update fan-out",
			Buckets:   prometheus.DefBuckets,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "weft",
			Subsystem: "live",
			Name:      "patches_sent_total",
			Help:      "Total number of region patches broadcast to clients",
		}),

		patchesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "weft",
			Subsystem: "live",
			Name:      "patches_dropped_total",
			Help:      "Patches dropped because a client's send queue was full",
		}),

		activeClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "weft",
			Subsystem: "live",
			Name:      "active_clients",
			Help:      "Number of connected WebSocket clients",
		}),

		bindingErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "weft",
			Subsystem: "live",
			Name:      "binding_errors_total",
			Help:      "Binding evaluation failures during notification",
		}),
	}
}

// metricsFor returns metrics registered with the given registerer,
// sharing one instance for the default registerer.
func metricsFor(registry prometheus.Registerer) *metrics {
	if registry == nil || registry == prometheus.Registerer(prometheus.DefaultRegisterer) {
		defaultMetricsOnce.Do(func() {
			defaultMetrics = newMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return newMetrics(registry)
}
