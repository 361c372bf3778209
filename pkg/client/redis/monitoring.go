package redis

import "time"

// MonitoringHooks defines callbacks for monitoring Redis operations. node is
// empty for operations that are not bound to a single master.
type MonitoringHooks struct {
	OnOperationEnd     func(operation string, node string, duration time.Duration, err error)
	OnConnectionStatus func(connected bool, latency time.Duration)
	OnRetryAttempt     func(operation string, attempt int, err error)
}

// OperationMetrics tracks metrics for Redis operations
type OperationMetrics struct {
	TotalCalls     int64
	TotalDuration  time.Duration
	ErrorCount     int64
	LastError      error
	LastErrorTime  time.Time
	SuccessCount   int64
	RetryCount     int64
	AverageLatency time.Duration
}

// SetMonitoringHooks replaces the hooks given at connection time.
func (t *Topology) SetMonitoringHooks(hooks *MonitoringHooks) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.monitoringHooks = hooks
}

func (t *Topology) hooks() *MonitoringHooks {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.monitoringHooks
}

func (t *Topology) metricsFor(operation string) *OperationMetrics {
	if t.operationMetrics == nil {
		t.operationMetrics = make(map[string]*OperationMetrics)
	}
	metrics, exists := t.operationMetrics[operation]
	if !exists {
		metrics = &OperationMetrics{}
		t.operationMetrics[operation] = metrics
	}
	return metrics
}

func (t *Topology) trackOperationEnd(operation string, node string, duration time.Duration, err error) {
	t.mu.Lock()
	metrics := t.metricsFor(operation)
	metrics.TotalCalls++
	metrics.TotalDuration += duration
	metrics.AverageLatency = time.Duration(int64(metrics.TotalDuration) / metrics.TotalCalls)
	if err != nil {
		metrics.ErrorCount++
		metrics.LastError = err
		metrics.LastErrorTime = time.Now()
	} else {
		metrics.SuccessCount++
	}
	hooks := t.monitoringHooks
	t.mu.Unlock()

	if hooks != nil && hooks.OnOperationEnd != nil {
		hooks.OnOperationEnd(operation, node, duration, err)
	}
}

func (t *Topology) trackConnectionStatus(connected bool, latency time.Duration) {
	if hooks := t.hooks(); hooks != nil && hooks.OnConnectionStatus != nil {
		hooks.OnConnectionStatus(connected, latency)
	}
}

func (t *Topology) trackRetryAttempt(operation string, attempt int, err error) {
	t.mu.Lock()
	t.metricsFor(operation).RetryCount++
	hooks := t.monitoringHooks
	t.mu.Unlock()

	if hooks != nil && hooks.OnRetryAttempt != nil {
		hooks.OnRetryAttempt(operation, attempt, err)
	}
}

// GetOperationMetrics returns a copy of the per-operation counters.
func (t *Topology) GetOperationMetrics() map[string]*OperationMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make(map[string]*OperationMetrics, len(t.operationMetrics))
	for op, metrics := range t.operationMetrics {
		copied := *metrics
		result[op] = &copied
	}
	return result
}

func (t *Topology) ResetOperationMetrics() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operationMetrics = make(map[string]*OperationMetrics)
}
