package redis

import (
	"fmt"
	"strings"
	"time"

	"github.com/trigg3rX/keybrowser/pkg/retry"
)

// Mode is the deployment topology the client connects to.
type Mode string

const (
	ModeStandalone Mode = "standalone"
	ModeCluster    Mode = "cluster"
	ModeSentinel   Mode = "sentinel"
)

func ParseMode(s string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ModeStandalone, ModeCluster, ModeSentinel:
		return mode, nil
	case "":
		return ModeStandalone, nil
	default:
		return "", fmt.Errorf("unknown redis mode %q", s)
	}
}

type ConnectionSettings struct {
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration // Used for socket reads, including for PING.
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// Options describes how to reach the deployment. For sentinel mode Addrs are
// the sentinel addresses; for cluster mode they are seed nodes.
type Options struct {
	Mode       Mode
	Addrs      []string
	MasterName string
	Username   string
	Password   string
	DB         int

	SentinelUsername string
	SentinelPassword string

	ConnectionSettings ConnectionSettings
	Retry              *RetryConfig
	Hooks              *MonitoringHooks
}

func (o Options) Validate() error {
	if len(o.Addrs) == 0 {
		return fmt.Errorf("at least one redis address is required")
	}
	switch o.Mode {
	case ModeStandalone:
		if len(o.Addrs) > 1 {
			return fmt.Errorf("standalone mode takes exactly one address, got %d", len(o.Addrs))
		}
	case ModeCluster:
		if o.DB != 0 {
			return fmt.Errorf("cluster mode only supports database 0, got %d", o.DB)
		}
	case ModeSentinel:
		if o.MasterName == "" {
			return fmt.Errorf("sentinel mode requires a master name")
		}
	default:
		return fmt.Errorf("unknown redis mode %q", o.Mode)
	}
	if o.DB < 0 {
		return fmt.Errorf("database index must not be negative, got %d", o.DB)
	}
	return nil
}

// RetryConfig is an alias for the generic retry configuration
type RetryConfig = retry.RetryConfig

// DefaultRetryConfig returns the retry policy used while establishing the
// connection. Commands issued by the scanner are never retried.
func DefaultRetryConfig() *RetryConfig {
	config := retry.DefaultRetryConfig()
	config.MaxRetries = 3
	config.InitialDelay = 100 * time.Millisecond
	config.MaxDelay = 5 * time.Second
	config.JitterFactor = 0.1
	return config
}

// ScanOptions defines options for the Scan operation
type ScanOptions struct {
	Pattern string `json:"pattern"` // Redis pattern for key matching (e.g., "user:*", "*:active")
	Count   int64  `json:"count"`   // COUNT hint for the round trip
	Type    string `json:"type"`    // Optional: filter by type (string, list, set, zset, hash, stream)
}

// ScanResult represents the result of a single SCAN round trip
type ScanResult struct {
	Cursor  uint64   `json:"cursor"`
	Keys    []string `json:"keys"`
	HasMore bool     `json:"has_more"`
}

// CommandReply is the outcome of one pipelined command. A nil reply from the
// server is reported as a nil Val without error.
type CommandReply struct {
	Val interface{}
	Err error
}

// HealthStatus represents the health of every master of the deployment.
type HealthStatus struct {
	Connected   bool          `json:"connected"`
	Mode        Mode          `json:"mode"`
	Masters     []string      `json:"masters,omitempty"`
	PingLatency time.Duration `json:"ping_latency"`
	Errors      []string      `json:"errors,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}
