package scanner

import (
	"errors"
	"fmt"
)

const (
	// MaxBatchSize caps the COUNT hint of a single SCAN round trip.
	MaxBatchSize int64 = 2000

	DefaultCountDefault   int64 = 500
	DefaultCountThreshold int64 = 10000

	DefaultMatch = "*"

	KeyTypeNone       = "none"
	TTLKeyNotExist    = -2
	TTLWithoutExpiry  = -1
	exhaustedCursor   = 0
	finishedNodeValue = -1
)

var (
	ErrInvalidCursor         = errors.New("incorrect cursor format")
	ErrInvalidClusterCursor  = errors.New("incorrect cluster cursor format")
	ErrUnknownClusterNode    = errors.New("cursor refers to a node that is not a cluster master")
	ErrNoClusterMasters      = errors.New("no cluster masters available")
	ErrPipelineReplyMismatch = errors.New("pipeline returned an unexpected number of replies")
)

// Config holds the scan budget settings handed to a Scanner at construction.
type Config struct {
	// CountDefault is the page size hint used when a request omits Count.
	CountDefault int64
	// CountThreshold is the cumulative per-call scan cost after which a page
	// is returned even if it holds fewer keys than requested.
	CountThreshold int64
}

func DefaultConfig() Config {
	return Config{
		CountDefault:   DefaultCountDefault,
		CountThreshold: DefaultCountThreshold,
	}
}

func (c Config) Validate() error {
	if c.CountDefault <= 0 {
		return fmt.Errorf("count default must be positive, got %d", c.CountDefault)
	}
	if c.CountThreshold <= 0 {
		return fmt.Errorf("count threshold must be positive, got %d", c.CountThreshold)
	}
	return nil
}

// ScanRequest is one page request. Cursor is "0" for a fresh walk, a number for
// a single node, or the host:port@cursor||... form for a cluster.
type ScanRequest struct {
	Cursor   string
	Count    int64
	Match    string
	Type     string
	KeysInfo bool
}

// KeyInfo describes one key. TTL -1 means no expiry; TTL -2 together with type
// "none" means the key does not exist. Nil fields were not fetched or failed.
type KeyInfo struct {
	Name []byte `json:"name"`
	Type string `json:"type,omitempty"`
	TTL  *int64 `json:"ttl,omitempty"`
	Size *int64 `json:"size,omitempty"`
}

// NodeScanResult is the page produced for one node. A nil Total means the
// store reported a raw count of zero.
type NodeScanResult struct {
	Total   *int64    `json:"total"`
	Scanned int64     `json:"scanned"`
	Cursor  uint64    `json:"cursor"`
	Keys    []KeyInfo `json:"keys"`
	Host    string    `json:"host,omitempty"`
	Port    int       `json:"port,omitempty"`
}

// accumulator is the call-local state threaded through scan rounds of one node.
type accumulator struct {
	cursor  uint64
	scanned int64
	keys    []string
}
