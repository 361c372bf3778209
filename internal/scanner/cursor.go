package scanner

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

const clusterCursorSeparator = "||"

var nodeCursorPattern = regexp.MustCompile(`^([^@|]+):(\d+)@(-?\d+)$`)

// NodeCursor is the resume position of one cluster master. Done marks a node
// whose key space was already walked; it is written as a negative cursor.
type NodeCursor struct {
	Host   string
	Port   int
	Cursor uint64
	Done   bool
}

func (c NodeCursor) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseCursor parses a single node cursor. An empty string starts at 0.
func ParseCursor(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	cursor, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, raw)
	}
	return cursor, nil
}

// ParseClusterCursor parses host:port@cursor||host:port@cursor||... . An empty
// string or "0" returns nil, meaning every master starts from scratch.
func ParseClusterCursor(raw string) ([]NodeCursor, error) {
	if raw == "" || raw == "0" {
		return nil, nil
	}

	parts := strings.Split(raw, clusterCursorSeparator)
	cursors := make([]NodeCursor, 0, len(parts))
	for _, part := range parts {
		m := nodeCursorPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, ErrInvalidClusterCursor
		}
		port, err := strconv.Atoi(m[2])
		if err != nil || port > 65535 {
			return nil, ErrInvalidClusterCursor
		}
		c := NodeCursor{Host: strings.TrimSuffix(strings.TrimPrefix(m[1], "["), "]"), Port: port}
		if strings.HasPrefix(m[3], "-") {
			c.Done = true
		} else if c.Cursor, err = strconv.ParseUint(m[3], 10, 64); err != nil {
			return nil, ErrInvalidClusterCursor
		}
		cursors = append(cursors, c)
	}
	return cursors, nil
}

func FormatClusterCursor(cursors []NodeCursor) string {
	parts := make([]string, len(cursors))
	for i, c := range cursors {
		if c.Done {
			parts[i] = fmt.Sprintf("%s@%d", c.Addr(), finishedNodeValue)
			continue
		}
		parts[i] = fmt.Sprintf("%s@%d", c.Addr(), c.Cursor)
	}
	return strings.Join(parts, clusterCursorSeparator)
}

// NextClusterCursor builds the cursor of the next page from a cluster page.
// Nodes that reached the end are kept as finished; "0" means every node is done.
func NextClusterCursor(results []NodeScanResult) string {
	cursors := make([]NodeCursor, 0, len(results))
	done := true
	for _, r := range results {
		c := NodeCursor{Host: r.Host, Port: r.Port, Cursor: r.Cursor}
		if r.Cursor == exhaustedCursor {
			c.Done = true
		} else {
			done = false
		}
		cursors = append(cursors, c)
	}
	if done {
		return "0"
	}
	return FormatClusterCursor(cursors)
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 0
	}
	return host, port
}
