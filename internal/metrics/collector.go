package metrics

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"
)

// Collector manages metrics collection
type Collector struct {
	handler  http.Handler
	interval time.Duration
}

func NewCollector() *Collector {
	return &Collector{
		handler:  promhttp.Handler(),
		interval: 10 * time.Second,
	}
}

// Handler returns the HTTP handler for metrics endpoint
func (c *Collector) Handler() http.Handler {
	return c.handler
}

// Start refreshes the system gauges until ctx is done.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			UpdateSystemMetrics()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func UpdateSystemMetrics() {
	UptimeSeconds.Set(time.Since(startTime).Seconds())

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	MemoryUsageBytes.Set(float64(memStats.Alloc))
	GoroutinesActive.Set(float64(runtime.NumGoroutine()))

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		CPUUsagePercent.Set(percentages[0])
	}
}
