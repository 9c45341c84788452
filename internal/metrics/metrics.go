// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counters
var (
	SnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "camera_snapshots_total",
		Help: "Total snapshot captures by final status.",
	}, []string{"status"})
	TransferChunks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camera_transfer_chunks_total",
		Help: "Total image chunks requested over the serial link.",
	})
	TransferBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camera_transfer_bytes_total",
		Help: "Total image bytes written to storage.",
	})
	TransferRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camera_transfer_retries_total",
		Help: "Total chunk requests that went unanswered and were retried.",
	})
	TransferTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camera_transfer_timeouts_total",
		Help: "Total transfers cut short by the transfer time budget.",
	})
	CommandTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camera_command_timeouts_total",
		Help: "Total commands that got no recognizable reply.",
	})
	DeviceResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camera_device_resets_total",
		Help: "Total unsolicited camera reboots observed mid-command.",
	})
	TransferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "camera_transfer_duration_seconds",
		Help:    "Image transfer wall-clock duration.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 9),
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "environment"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})
)
