package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trigg3rX/keybrowser/pkg/logging"
)

// newTestTopology connects a standalone topology to a fresh in-memory server.
func newTestTopology(t *testing.T) (*Topology, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)

	topology, err := Connect(context.Background(), logging.NewNoOpLogger(), Options{
		Mode:  ModeStandalone,
		Addrs: []string{server.Addr()},
		ConnectionSettings: ConnectionSettings{
			PoolSize:     4,
			DialTimeout:  time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = topology.Close()
	})
	return topology, server
}

func fastRetry() *RetryConfig {
	config := DefaultRetryConfig()
	config.MaxRetries = 2
	config.InitialDelay = time.Millisecond
	config.MaxDelay = 5 * time.Millisecond
	config.LogRetryAttempt = false
	return config
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeStandalone},
		{in: "standalone", want: ModeStandalone},
		{in: " Cluster ", want: ModeCluster},
		{in: "SENTINEL", want: ModeSentinel},
		{in: "replica", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		wantErr bool
	}{
		{name: "standalone", options: Options{Mode: ModeStandalone, Addrs: []string{"localhost:6379"}}},
		{name: "no address", options: Options{Mode: ModeStandalone}, wantErr: true},
		{name: "standalone with two addresses", options: Options{Mode: ModeStandalone, Addrs: []string{"a:1", "b:2"}}, wantErr: true},
		{name: "cluster", options: Options{Mode: ModeCluster, Addrs: []string{"a:7000", "b:7001"}}},
		{name: "cluster with db", options: Options{Mode: ModeCluster, Addrs: []string{"a:7000"}, DB: 2}, wantErr: true},
		{name: "sentinel", options: Options{Mode: ModeSentinel, Addrs: []string{"a:26379"}, MasterName: "mymaster"}},
		{name: "sentinel without master", options: Options{Mode: ModeSentinel, Addrs: []string{"a:26379"}}, wantErr: true},
		{name: "negative db", options: Options{Mode: ModeStandalone, Addrs: []string{"a:1"}, DB: -1}, wantErr: true},
		{name: "unknown mode", options: Options{Mode: "replica", Addrs: []string{"a:1"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConnect_Standalone(t *testing.T) {
	topology, server := newTestTopology(t)

	assert.Equal(t, ModeStandalone, topology.Mode())

	master, err := topology.Master(context.Background())
	require.NoError(t, err)
	assert.Equal(t, server.Addr(), master.Addr())

	masters, err := topology.Masters(context.Background())
	require.NoError(t, err)
	require.Len(t, masters, 1)
	assert.Equal(t, server.Addr(), masters[0].Addr())
}

func TestConnect_InvalidOptions(t *testing.T) {
	_, err := Connect(context.Background(), nil, Options{Mode: ModeStandalone})
	assert.ErrorContains(t, err, "invalid redis options")
}

func TestConnect_Unreachable_RetriesThenFails(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	var (
		mu       sync.Mutex
		attempts []int
	)
	hooks := &MonitoringHooks{
		OnRetryAttempt: func(operation string, attempt int, err error) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "CheckConnection", operation)
			attempts = append(attempts, attempt)
		},
	}

	_, err := Connect(context.Background(), logging.NewNoOpLogger(), Options{
		Mode:               ModeStandalone,
		Addrs:              []string{addr},
		ConnectionSettings: ConnectionSettings{MaxRetries: -1, DialTimeout: 200 * time.Millisecond},
		Retry:              fastRetry(),
		Hooks:              hooks,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestConnect_Cluster_ListsMasters(t *testing.T) {
	server := miniredis.RunT(t)

	topology, err := Connect(context.Background(), logging.NewNoOpLogger(), Options{
		Mode:  ModeCluster,
		Addrs: []string{server.Addr()},
	})
	require.NoError(t, err)
	defer topology.Close()

	masters, err := topology.Masters(context.Background())
	require.NoError(t, err)
	require.Len(t, masters, 1)
	assert.Equal(t, server.Addr(), masters[0].Addr())

	_, err = topology.Master(context.Background())
	assert.Error(t, err)
}

func TestGetHealthStatus(t *testing.T) {
	topology, server := newTestTopology(t)

	status := topology.GetHealthStatus(context.Background())

	assert.True(t, status.Connected)
	assert.Equal(t, ModeStandalone, status.Mode)
	assert.Equal(t, []string{server.Addr()}, status.Masters)
	assert.Empty(t, status.Errors)
	assert.True(t, topology.IsHealthy(context.Background()))
}

func TestGetHealthStatus_ServerDown(t *testing.T) {
	topology, server := newTestTopology(t)
	server.Close()

	status := topology.GetHealthStatus(context.Background())

	assert.False(t, status.Connected)
	assert.NotEmpty(t, status.Errors)
	assert.False(t, topology.IsHealthy(context.Background()))
}

func TestTopology_Pipeline_RoutedThroughClusterClient(t *testing.T) {
	server := miniredis.RunT(t)
	require.NoError(t, server.Set("user:1", "alice"))

	topology, err := Connect(context.Background(), logging.NewNoOpLogger(), Options{
		Mode:  ModeCluster,
		Addrs: []string{server.Addr()},
	})
	require.NoError(t, err)
	defer topology.Close()

	replies, err := topology.Pipeline(context.Background(), [][]interface{}{
		{"TYPE", "user:1"},
		{"TTL", "missing"},
	})

	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, CommandReply{Val: "string"}, replies[0])
	assert.Equal(t, CommandReply{Val: int64(-2)}, replies[1])

	metrics := topology.GetOperationMetrics()
	assert.Contains(t, metrics, "Pipeline")
}
