package scanner

import (
	"context"
	"fmt"
)

// Strategy serves key pages for one deployment topology.
type Strategy interface {
	// GetKeys returns one NodeScanResult per scanned node: exactly one for
	// standalone and sentinel deployments, one per unfinished master for a cluster.
	GetKeys(ctx context.Context, req ScanRequest) ([]NodeScanResult, error)
	// Total estimates the number of keys across the whole deployment.
	Total(ctx context.Context) (*int64, error)
}

// MasterResolver returns the node currently acting as master, e.g. the one a
// sentinel reports.
type MasterResolver interface {
	Master(ctx context.Context) (Node, error)
}

// ShardResolver lists the current cluster masters and exposes the routed
// client used for exact key lookups.
type ShardResolver interface {
	Masters(ctx context.Context) ([]Node, error)
	Router() KeyLookup
}

type StandaloneStrategy struct {
	scanner *Scanner
	node    Node
}

var _ Strategy = (*StandaloneStrategy)(nil)

func NewStandaloneStrategy(scanner *Scanner, node Node) *StandaloneStrategy {
	return &StandaloneStrategy{scanner: scanner, node: node}
}

func (s *StandaloneStrategy) GetKeys(ctx context.Context, req ScanRequest) ([]NodeScanResult, error) {
	return scanSingle(ctx, s.scanner, s.node, req)
}

func (s *StandaloneStrategy) Total(ctx context.Context) (*int64, error) {
	return EstimateTotal(ctx, s.node)
}

// SentinelStrategy resolves the master on every call and then behaves like a
// standalone deployment.
type SentinelStrategy struct {
	scanner  *Scanner
	resolver MasterResolver
}

var _ Strategy = (*SentinelStrategy)(nil)

func NewSentinelStrategy(scanner *Scanner, resolver MasterResolver) *SentinelStrategy {
	return &SentinelStrategy{scanner: scanner, resolver: resolver}
}

func (s *SentinelStrategy) GetKeys(ctx context.Context, req ScanRequest) ([]NodeScanResult, error) {
	node, err := s.resolver.Master(ctx)
	if err != nil {
		return nil, err
	}
	return scanSingle(ctx, s.scanner, node, req)
}

func (s *SentinelStrategy) Total(ctx context.Context) (*int64, error) {
	node, err := s.resolver.Master(ctx)
	if err != nil {
		return nil, err
	}
	return EstimateTotal(ctx, node)
}

type ClusterStrategy struct {
	scanner  *Scanner
	resolver ShardResolver
}

var _ Strategy = (*ClusterStrategy)(nil)

func NewClusterStrategy(scanner *Scanner, resolver ShardResolver) *ClusterStrategy {
	return &ClusterStrategy{scanner: scanner, resolver: resolver}
}

// GetKeys scans every master named by the cluster cursor, or every master when
// the cursor is "0". Masters marked finished in the cursor are skipped. An exact
// match is looked up once through the router and reported on the first node.
func (c *ClusterStrategy) GetKeys(ctx context.Context, req ScanRequest) ([]NodeScanResult, error) {
	cursors, err := ParseClusterCursor(req.Cursor)
	if err != nil {
		return nil, err
	}

	masters, err := c.resolver.Masters(ctx)
	if err != nil {
		return nil, err
	}
	if len(masters) == 0 {
		return nil, ErrNoClusterMasters
	}

	targets, err := resolveTargets(masters, cursors)
	if err != nil {
		return nil, err
	}
	return c.scanner.scanShards(ctx, c.resolver.Router(), targets, req)
}

func (c *ClusterStrategy) Total(ctx context.Context) (*int64, error) {
	masters, err := c.resolver.Masters(ctx)
	if err != nil {
		return nil, err
	}
	return EstimateClusterTotal(ctx, masters)
}

func scanSingle(ctx context.Context, scanner *Scanner, node Node, req ScanRequest) ([]NodeScanResult, error) {
	cursor, err := ParseCursor(req.Cursor)
	if err != nil {
		return nil, err
	}
	result, err := scanner.ScanNode(ctx, node, cursor, req)
	if err != nil {
		return nil, err
	}
	return []NodeScanResult{*result}, nil
}

func resolveTargets(masters []Node, cursors []NodeCursor) ([]shardTarget, error) {
	if cursors == nil {
		targets := make([]shardTarget, len(masters))
		for i, m := range masters {
			targets[i] = shardTarget{node: m}
		}
		return targets, nil
	}

	byAddr := make(map[string]Node, len(masters))
	for _, m := range masters {
		byAddr[m.Addr()] = m
	}

	targets := make([]shardTarget, 0, len(cursors))
	for _, c := range cursors {
		if c.Done {
			continue
		}
		node, ok := byAddr[c.Addr()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownClusterNode, c.Addr())
		}
		targets = append(targets, shardTarget{node: node, cursor: c.Cursor})
	}
	return targets, nil
}
