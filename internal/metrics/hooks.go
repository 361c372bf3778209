package metrics

import (
	"time"

	"github.com/trigg3rX/keybrowser/internal/scanner"
	redisclient "github.com/trigg3rX/keybrowser/pkg/client/redis"
)

// ScannerHooks records page building in the scanner collectors.
func ScannerHooks() *scanner.Hooks {
	return &scanner.Hooks{
		OnScanRoundTrip: func(node string, batch int64, found int, duration time.Duration, err error) {
			ScanRoundTripsTotal.WithLabelValues(node, statusLabel(err)).Inc()
			if err == nil {
				KeysScannedTotal.WithLabelValues(node).Add(float64(batch))
			}
		},
		OnPipeline: func(node string, commands int, duration time.Duration, err error) {
			PipelineCommandsTotal.WithLabelValues(node, statusLabel(err)).Add(float64(commands))
		},
		OnNodeScanned: func(node string, result *scanner.NodeScanResult, duration time.Duration, err error) {
			PageDuration.WithLabelValues(node).Observe(duration.Seconds())
			if result != nil {
				KeysReturnedTotal.WithLabelValues(node).Add(float64(len(result.Keys)))
			}
		},
	}
}

// ClientHooks records store operations in the redis collectors.
func ClientHooks() *redisclient.MonitoringHooks {
	return &redisclient.MonitoringHooks{
		OnOperationEnd: func(operation string, node string, duration time.Duration, err error) {
			OperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
			OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
		},
		OnConnectionStatus: func(connected bool, latency time.Duration) {
			if connected {
				RedisAvailable.Set(1)
				PingDuration.Observe(latency.Seconds())
				return
			}
			RedisAvailable.Set(0)
		},
		OnRetryAttempt: func(operation string, attempt int, err error) {
			ConnectionRetriesTotal.Inc()
		},
	}
}
