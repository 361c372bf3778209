package redis

import (
	"context"
	"fmt"
	"time"
)

// GetHealthStatus pings the deployment and lists the masters currently serving it.
func (t *Topology) GetHealthStatus(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Mode:      t.mode,
		Errors:    []string{},
		Timestamp: time.Now(),
	}

	start := time.Now()
	if err := t.Ping(ctx); err != nil {
		status.Errors = append(status.Errors, err.Error())
		return status
	}
	status.Connected = true
	status.PingLatency = time.Since(start)

	masters, err := t.Masters(ctx)
	if err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("failed to list masters: %v", err))
		return status
	}
	for _, m := range masters {
		status.Masters = append(status.Masters, m.Addr())
	}
	return status
}

func (t *Topology) IsHealthy(ctx context.Context) bool {
	status := t.GetHealthStatus(ctx)
	return status.Connected && len(status.Errors) == 0
}
