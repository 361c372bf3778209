package scanner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type shardTarget struct {
	node   Node
	cursor uint64
}

// scanShards runs one independent page per shard concurrently and returns the
// pages in target order. The first shard error cancels the others and is
// returned without any partial results.
//
// An exact match is not walked per shard: the key is looked up once through
// lookup and placed on the first page, every page reporting its node total as
// scanned.
func (s *Scanner) scanShards(ctx context.Context, lookup KeyLookup, targets []shardTarget, req ScanRequest) ([]NodeScanResult, error) {
	match, _ := s.normalize(req)
	classification := Classify(match)

	results := make([]NodeScanResult, len(targets))
	var found []KeyInfo
	g, gctx := errgroup.WithContext(ctx)
	if classification.Exact && len(targets) > 0 {
		g.Go(func() (err error) {
			found, err = s.findExact(gctx, lookup, classification.Literal, req.Type)
			return err
		})
	}
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			result, err := s.scanShard(gctx, target.node, target.cursor, req, classification.Exact)
			if err != nil {
				return err
			}
			result.Host, result.Port = splitAddr(target.node.Addr())
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if classification.Exact && len(results) > 0 {
		results[0].Keys = found
	}
	return results, nil
}

// scanShard estimates the shard total before walking it. A shard reporting no
// keys is not scanned, and neither is any shard on the exact path.
func (s *Scanner) scanShard(ctx context.Context, node Node, cursor uint64, req ScanRequest, exact bool) (*NodeScanResult, error) {
	start := time.Now()

	total, err := EstimateTotal(ctx, node)
	if err != nil {
		s.hooks.nodeScanned(node.Addr(), nil, time.Since(start), err)
		return nil, err
	}

	acc := &accumulator{cursor: exhaustedCursor}
	keys := []KeyInfo{}
	if total != nil && !exact {
		acc, keys, err = s.walk(ctx, node, cursor, req)
		if err != nil {
			s.hooks.nodeScanned(node.Addr(), nil, time.Since(start), err)
			return nil, err
		}
	}
	return s.finish(node, start, req, total, acc, keys), nil
}
