package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCursor(t *testing.T) {
	tests := []struct {
		raw     string
		want    uint64
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "0", want: 0},
		{raw: "1234", want: 1234},
		{raw: "18446744073709551615", want: 18446744073709551615},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "172.1.0.1:7000@5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCursor(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCursor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClusterCursor(t *testing.T) {
	cursors, err := ParseClusterCursor("172.1.0.1:7000@5||172.1.0.1:7001@-1||[::1]:7002@0")

	require.NoError(t, err)
	assert.Equal(t, []NodeCursor{
		{Host: "172.1.0.1", Port: 7000, Cursor: 5},
		{Host: "172.1.0.1", Port: 7001, Done: true},
		{Host: "::1", Port: 7002, Cursor: 0},
	}, cursors)
}

func TestParseClusterCursor_FreshWalk(t *testing.T) {
	for _, raw := range []string{"", "0"} {
		cursors, err := ParseClusterCursor(raw)
		require.NoError(t, err)
		assert.Nil(t, cursors)
	}
}

func TestParseClusterCursor_Malformed(t *testing.T) {
	for _, raw := range []string{
		"12",
		"172.1.0.1@5",
		"172.1.0.1:7000",
		"172.1.0.1:7000@abc",
		"172.1.0.1:70000@1",
		"172.1.0.1:7000@1||",
		"172.1.0.1:7000@1|172.1.0.1:7001@1",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseClusterCursor(raw)
			assert.ErrorIs(t, err, ErrInvalidClusterCursor)
		})
	}
}

func TestFormatClusterCursor_RoundTrips(t *testing.T) {
	raw := "172.1.0.1:7000@5||172.1.0.1:7001@-1||172.1.0.1:7002@900"

	cursors, err := ParseClusterCursor(raw)
	require.NoError(t, err)

	assert.Equal(t, raw, FormatClusterCursor(cursors))
}

func TestNextClusterCursor(t *testing.T) {
	results := []NodeScanResult{
		{Host: "172.1.0.1", Port: 7000, Cursor: 0},
		{Host: "172.1.0.1", Port: 7001, Cursor: 88},
	}

	assert.Equal(t, "172.1.0.1:7000@-1||172.1.0.1:7001@88", NextClusterCursor(results))
}

func TestNextClusterCursor_AllDone(t *testing.T) {
	results := []NodeScanResult{
		{Host: "172.1.0.1", Port: 7000, Cursor: 0},
		{Host: "172.1.0.1", Port: 7001, Cursor: 0},
	}

	assert.Equal(t, "0", NextClusterCursor(results))
	assert.Equal(t, "0", NextClusterCursor(nil))
}

func TestNodeCursorAddr(t *testing.T) {
	assert.Equal(t, "172.1.0.1:7000", NodeCursor{Host: "172.1.0.1", Port: 7000}.Addr())
}

func TestSplitAddr(t *testing.T) {
	host, port := splitAddr("172.1.0.1:7000")
	assert.Equal(t, "172.1.0.1", host)
	assert.Equal(t, 7000, port)

	host, port = splitAddr("no-port")
	assert.Equal(t, "no-port", host)
	assert.Equal(t, 0, port)
}
