package redis

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedKeys(t *testing.T, topology *Topology) {
	t.Helper()
	ctx := context.Background()
	client := topology.Client()
	for _, key := range []string{"scan:user:1", "scan:user:2", "scan:user:3", "scan:product:1", "scan:product:2"} {
		require.NoError(t, client.Set(ctx, key, "dummy", 0).Err())
	}
	require.NoError(t, client.HSet(ctx, "scan:order:1", "id", "1").Err())
	require.NoError(t, client.Set(ctx, "scan:session", "x", 10*time.Minute).Err())
}

func TestNodeClient_Scan_WalksWholeKeySpace(t *testing.T) {
	topology, _ := newTestTopology(t)
	seedKeys(t, topology)
	node, err := topology.Master(context.Background())
	require.NoError(t, err)

	var (
		cursor uint64
		found  []string
	)
	for {
		res, err := node.Scan(context.Background(), cursor, &ScanOptions{Pattern: "scan:user:*", Count: 2})
		require.NoError(t, err)
		found = append(found, res.Keys...)
		cursor = res.Cursor
		assert.Equal(t, cursor != 0, res.HasMore)
		if !res.HasMore {
			break
		}
	}

	sort.Strings(found)
	assert.Equal(t, []string{"scan:user:1", "scan:user:2", "scan:user:3"}, found)
}

func TestNodeClient_Scan_TypeFilter(t *testing.T) {
	topology, _ := newTestTopology(t)
	seedKeys(t, topology)
	node, err := topology.Master(context.Background())
	require.NoError(t, err)

	res, err := node.Scan(context.Background(), 0, &ScanOptions{Pattern: "scan:*", Count: 100, Type: "hash"})

	require.NoError(t, err)
	assert.Equal(t, []string{"scan:order:1"}, res.Keys)
}

func TestNodeClient_Pipeline_ReportsPerCommandErrors(t *testing.T) {
	topology, _ := newTestTopology(t)
	seedKeys(t, topology)
	node, err := topology.Master(context.Background())
	require.NoError(t, err)

	replies, err := node.Pipeline(context.Background(), [][]interface{}{
		{"TTL", "scan:user:1"},
		{"TTL", "missing"},
		{"TYPE", "scan:order:1"},
		{"GET", "scan:order:1"},
		{"GET", "missing"},
	})

	require.NoError(t, err)
	require.Len(t, replies, 5)
	assert.Equal(t, CommandReply{Val: int64(-1)}, replies[0])
	assert.Equal(t, CommandReply{Val: int64(-2)}, replies[1])
	assert.Equal(t, CommandReply{Val: "hash"}, replies[2])
	assert.Nil(t, replies[3].Val)
	assert.ErrorContains(t, replies[3].Err, "WRONGTYPE")
	assert.Equal(t, CommandReply{}, replies[4])
}

func TestNodeClient_Pipeline_Empty(t *testing.T) {
	topology, _ := newTestTopology(t)
	node, err := topology.Master(context.Background())
	require.NoError(t, err)

	replies, err := node.Pipeline(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestNodeClient_Pipeline_ConnectionLostFailsCall(t *testing.T) {
	topology, server := newTestTopology(t)
	node, err := topology.Master(context.Background())
	require.NoError(t, err)
	server.Close()

	replies, err := node.Pipeline(context.Background(), [][]interface{}{{"TTL", "a"}})

	assert.Error(t, err)
	assert.Nil(t, replies)
}

func TestNodeClient_DBSize(t *testing.T) {
	topology, _ := newTestTopology(t)
	seedKeys(t, topology)
	node, err := topology.Master(context.Background())
	require.NoError(t, err)

	size, err := node.DBSize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), size)
}

func TestNodeClient_ServerErrorIsNotWrapped(t *testing.T) {
	topology, server := newTestTopology(t)
	node, err := topology.Master(context.Background())
	require.NoError(t, err)
	server.SetError("NOPERM this user has no permissions to run the 'dbsize' command")
	defer server.SetError("")

	_, err = node.DBSize(context.Background())

	require.Error(t, err)
	assert.True(t, isServerError(err))
	assert.Equal(t, "NOPERM this user has no permissions to run the 'dbsize' command", err.Error())
}

func TestNodeClient_OperationsAreTracked(t *testing.T) {
	topology, _ := newTestTopology(t)
	topology.ResetOperationMetrics()

	var observed []string
	topology.SetMonitoringHooks(&MonitoringHooks{
		OnOperationEnd: func(operation string, node string, duration time.Duration, err error) {
			observed = append(observed, operation+"@"+node)
		},
	})
	node, err := topology.Master(context.Background())
	require.NoError(t, err)

	_, err = node.DBSize(context.Background())
	require.NoError(t, err)
	_, err = node.Scan(context.Background(), 0, &ScanOptions{Pattern: "*", Count: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{"DBSize@" + node.Addr(), "Scan@" + node.Addr()}, observed)
	metrics := topology.GetOperationMetrics()
	require.Contains(t, metrics, "DBSize")
	assert.Equal(t, int64(1), metrics["DBSize"].TotalCalls)
	assert.Equal(t, int64(1), metrics["DBSize"].SuccessCount)
	assert.Equal(t, int64(1), metrics["Scan"].TotalCalls)
}
