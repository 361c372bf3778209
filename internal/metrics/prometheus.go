package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "keybrowser"
)

var (
	startTime = time.Now()

	// System metrics
	UptimeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "uptime_seconds",
		Help:      "Time passed since the service started in seconds",
	})

	MemoryUsageBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Service memory consumption in bytes",
	})

	CPUUsagePercent = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "cpu_usage_percent",
		Help:      "CPU utilization percentage",
	})

	GoroutinesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "goroutines_active",
		Help:      "Number of active goroutines",
	})

	// Store connection
	RedisAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "redis",
		Name:      "available",
		Help:      "1 when the last ping succeeded",
	})

	PingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "redis",
		Name:      "ping_duration_seconds",
		Help:      "Redis ping response time",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "redis",
		Name:      "operations_total",
		Help:      "Redis operations (operation=Scan/Pipeline/DBSize/Info/Ping, status=success/failure)",
	}, []string{"operation", "status"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "redis",
		Name:      "operation_duration_seconds",
		Help:      "Redis operation latency",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation"})

	ConnectionRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "redis",
		Name:      "connection_retries_total",
		Help:      "Retried connection attempts",
	})

	// Scanning
	ScanRoundTripsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "scan_round_trips_total",
		Help:      "SCAN round trips per node (status=success/failure)",
	}, []string{"node", "status"})

	KeysScannedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "keys_scanned_total",
		Help:      "COUNT budget charged by SCAN round trips per node",
	}, []string{"node"})

	KeysReturnedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "keys_returned_total",
		Help:      "Keys placed on pages per node",
	}, []string{"node"})

	PipelineCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "pipeline_commands_total",
		Help:      "Commands sent through enrichment pipelines (status=success/failure)",
	}, []string{"node", "status"})

	PageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "page_duration_seconds",
		Help:      "Time to build one node page",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"node"})

	KeyspaceTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "keyspace_total",
		Help:      "Last sampled estimate of the number of keys in the deployment",
	})

	// HTTP surface
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "HTTP requests (route, status code)",
	}, []string{"route", "code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

func statusLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
