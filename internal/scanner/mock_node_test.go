package scanner

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNode is a testify mock of Node. Contexts are not recorded so that calls
// made with derived contexts still match.
type MockNode struct {
	mock.Mock
	addr string
}

func newMockNode(addr string) *MockNode {
	return &MockNode{addr: addr}
}

func (m *MockNode) Addr() string {
	return m.addr
}

func (m *MockNode) Scan(ctx context.Context, cursor uint64, match string, count int64, keyType string) (uint64, []string, error) {
	args := m.Called(cursor, match, count, keyType)
	names, _ := args.Get(1).([]string)
	return args.Get(0).(uint64), names, args.Error(2)
}

func (m *MockNode) Pipeline(ctx context.Context, cmds []Command) ([]Reply, error) {
	args := m.Called(cmds)
	replies, _ := args.Get(0).([]Reply)
	return replies, args.Error(1)
}

func (m *MockNode) DBSize(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNode) Info(ctx context.Context, section string) (string, error) {
	args := m.Called(section)
	return args.String(0), args.Error(1)
}

// onPipeline matches the pipeline whose commands all start with name.
func (m *MockNode) onPipeline(name string) *mock.Call {
	return m.On("Pipeline", mock.MatchedBy(func(cmds []Command) bool {
		return len(cmds) > 0 && cmds[0][0] == name
	}))
}

// expectKeysInfo answers the TTL, MEMORY and TYPE pipelines with the same
// values for n keys.
func (m *MockNode) expectKeysInfo(n int, ttl, size int64, keyType string) {
	m.onPipeline("TTL").Return(repeatReply(n, Reply{Val: ttl}), nil)
	m.onPipeline("MEMORY").Return(repeatReply(n, Reply{Val: size}), nil)
	m.onPipeline("TYPE").Return(repeatReply(n, Reply{Val: keyType}), nil)
}

type stubMasterResolver struct {
	node Node
	err  error
}

func (r *stubMasterResolver) Master(ctx context.Context) (Node, error) {
	return r.node, r.err
}

type stubShardResolver struct {
	nodes  []Node
	router KeyLookup
	err    error
}

func (r *stubShardResolver) Masters(ctx context.Context) ([]Node, error) {
	return r.nodes, r.err
}

func (r *stubShardResolver) Router() KeyLookup {
	return r.router
}

func repeatReply(n int, r Reply) []Reply {
	replies := make([]Reply, n)
	for i := range replies {
		replies[i] = r
	}
	return replies
}

func int64Ptr(v int64) *int64 {
	return &v
}

func keyInfo(name string, keyType string, ttl, size int64) KeyInfo {
	return KeyInfo{
		Name: []byte(name),
		Type: keyType,
		TTL:  int64Ptr(ttl),
		Size: int64Ptr(size),
	}
}
