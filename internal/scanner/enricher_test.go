package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnrich_EmptyBatch_SkipsPipelines(t *testing.T) {
	node := newMockNode("127.0.0.1:6379")

	infos, err := NewEnricher(nil).Enrich(context.Background(), node, nil, "")

	require.NoError(t, err)
	assert.Equal(t, []KeyInfo{}, infos)
	node.AssertNotCalled(t, "Pipeline", mock.Anything)
}

func TestEnrich_KeepsOrderAndFields(t *testing.T) {
	node := newMockNode("127.0.0.1:6379")
	node.On("Pipeline", []Command{{"TTL", "a"}, {"TTL", "b"}}).
		Return([]Reply{{Val: int64(-1)}, {Val: int64(30)}}, nil)
	node.On("Pipeline", []Command{{"MEMORY", "USAGE", "a", "SAMPLES", "0"}, {"MEMORY", "USAGE", "b", "SAMPLES", "0"}}).
		Return([]Reply{{Val: int64(56)}, {Val: int64(72)}}, nil)
	node.On("Pipeline", []Command{{"TYPE", "a"}, {"TYPE", "b"}}).
		Return([]Reply{{Val: "string"}, {Val: "hash"}}, nil)

	infos, err := NewEnricher(nil).Enrich(context.Background(), node, []string{"a", "b"}, "")

	require.NoError(t, err)
	assert.Equal(t, []KeyInfo{
		keyInfo("a", "string", -1, 56),
		keyInfo("b", "hash", 30, 72),
	}, infos)
}

func TestEnrich_KnownType_SkipsTypePipeline(t *testing.T) {
	node := newMockNode("127.0.0.1:6379")
	node.onPipeline("TTL").Return([]Reply{{Val: int64(-1)}}, nil)
	node.onPipeline("MEMORY").Return([]Reply{{Val: int64(10)}}, nil)

	infos, err := NewEnricher(nil).Enrich(context.Background(), node, []string{"k"}, "zset")

	require.NoError(t, err)
	assert.Equal(t, []KeyInfo{keyInfo("k", "zset", -1, 10)}, infos)
	node.AssertNumberOfCalls(t, "Pipeline", 2)
}

func TestEnrich_FailedSlot_LeavesOnlyThatFieldEmpty(t *testing.T) {
	node := newMockNode("127.0.0.1:6379")
	node.onPipeline("TTL").Return([]Reply{{Val: int64(-1)}, {Val: int64(5)}}, nil)
	node.onPipeline("MEMORY").Return([]Reply{{Err: errors.New("NOPERM memory")}, {Val: int64(80)}}, nil)
	node.onPipeline("TYPE").Return([]Reply{{Val: "list"}, {Err: errors.New("ERR")}}, nil)

	infos, err := NewEnricher(nil).Enrich(context.Background(), node, []string{"a", "b"}, "")

	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, KeyInfo{Name: []byte("a"), Type: "list", TTL: int64Ptr(-1)}, infos[0])
	assert.Equal(t, KeyInfo{Name: []byte("b"), TTL: int64Ptr(5), Size: int64Ptr(80)}, infos[1])
}

func TestEnrich_FailedPipeline_FailsCall(t *testing.T) {
	node := newMockNode("127.0.0.1:6379")
	connErr := errors.New("connection reset by peer")
	node.onPipeline("TTL").Return([]Reply{{Val: int64(-1)}}, nil)
	node.onPipeline("MEMORY").Return(nil, connErr)
	node.onPipeline("TYPE").Return([]Reply{{Val: "string"}}, nil)

	infos, err := NewEnricher(nil).Enrich(context.Background(), node, []string{"a"}, "")

	assert.Nil(t, infos)
	assert.Same(t, connErr, err)
}

func TestEnrich_ReplyCountMismatch_FailsCall(t *testing.T) {
	node := newMockNode("127.0.0.1:6379")
	node.onPipeline("TTL").Return([]Reply{{Val: int64(-1)}}, nil)
	node.onPipeline("MEMORY").Return([]Reply{{Val: int64(1)}, {Val: int64(2)}}, nil)
	node.onPipeline("TYPE").Return([]Reply{{Val: "string"}}, nil)

	_, err := NewEnricher(nil).Enrich(context.Background(), node, []string{"a"}, "")

	assert.ErrorIs(t, err, ErrPipelineReplyMismatch)
}

func TestReplyInt64(t *testing.T) {
	assert.Equal(t, int64Ptr(7), replyInt64(Reply{Val: int64(7)}))
	assert.Equal(t, int64Ptr(7), replyInt64(Reply{Val: 7}))
	assert.Equal(t, int64Ptr(-2), replyInt64(Reply{Val: "-2"}))
	assert.Nil(t, replyInt64(Reply{Val: "abc"}))
	assert.Nil(t, replyInt64(Reply{}))
	assert.Nil(t, replyInt64(Reply{Val: int64(1), Err: errors.New("ERR")}))
}

func TestReplyString(t *testing.T) {
	assert.Equal(t, "hash", replyString(Reply{Val: "hash"}))
	assert.Equal(t, "set", replyString(Reply{Val: []byte("set")}))
	assert.Equal(t, "", replyString(Reply{Val: int64(1)}))
	assert.Equal(t, "", replyString(Reply{Val: "x", Err: errors.New("ERR")}))
}
