package scanner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// ScanNode builds one page for a single node starting at cursor.
//
// A match without glob metacharacters is answered with a direct lookup of that
// key and no SCAN at all; its Scanned is reported as the node total so callers
// treat the space as covered. Otherwise SCAN is repeated with COUNT capped at
// MaxBatchSize until the node is exhausted, enough keys were found, or the
// configured threshold of scanned slots is reached. The total estimate runs
// alongside the walk. Store errors are returned as they are.
func (s *Scanner) ScanNode(ctx context.Context, node Node, cursor uint64, req ScanRequest) (*NodeScanResult, error) {
	start := time.Now()

	var (
		total *int64
		acc   *accumulator
		keys  []KeyInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = EstimateTotal(gctx, node)
		return err
	})
	g.Go(func() (err error) {
		acc, keys, err = s.walk(gctx, node, cursor, req)
		return err
	})
	if err := g.Wait(); err != nil {
		s.hooks.nodeScanned(node.Addr(), nil, time.Since(start), err)
		return nil, err
	}
	return s.finish(node, start, req, total, acc, keys), nil
}

// walk answers req on node, by point lookup or by SCAN rounds from cursor.
func (s *Scanner) walk(ctx context.Context, node Node, cursor uint64, req ScanRequest) (*accumulator, []KeyInfo, error) {
	match, count := s.normalize(req)
	classification := Classify(match)
	acc := &accumulator{cursor: cursor}

	if classification.Exact {
		acc.cursor = exhaustedCursor
		keys, err := s.findExact(ctx, node, classification.Literal, req.Type)
		return acc, keys, err
	}
	if err := s.scan(ctx, node, acc, match, count, req.Type); err != nil {
		return nil, nil, err
	}
	keys, err := s.describe(ctx, node, acc.keys, req.Type, req.KeysInfo)
	return acc, keys, err
}

// finish assembles the node page. A point lookup reports the node total as scanned.
func (s *Scanner) finish(node Node, start time.Time, req ScanRequest, total *int64, acc *accumulator, keys []KeyInfo) *NodeScanResult {
	match, _ := s.normalize(req)
	exact := Classify(match).Exact
	if exact && total != nil {
		acc.scanned = *total
	}

	result := &NodeScanResult{
		Total:   total,
		Scanned: acc.scanned,
		Cursor:  acc.cursor,
		Keys:    keys,
	}
	s.logger.Debug("Scanned node",
		"node", node.Addr(),
		"exact", exact,
		"scanned", result.Scanned,
		"keys", len(result.Keys),
		"cursor", result.Cursor,
	)
	s.hooks.nodeScanned(node.Addr(), result, time.Since(start), nil)
	return result
}

// scan runs SCAN rounds strictly one after another. Each round is charged the
// full batch size whatever it returned.
func (s *Scanner) scan(ctx context.Context, node Node, acc *accumulator, match string, count int64, keyType string) error {
	batch := count
	if batch > MaxBatchSize {
		batch = MaxBatchSize
	}

	for {
		start := time.Now()
		next, names, err := node.Scan(ctx, acc.cursor, match, batch, keyType)
		s.hooks.scanRoundTrip(node.Addr(), batch, len(names), time.Since(start), err)
		if err != nil {
			return err
		}

		acc.scanned += batch
		acc.keys = append(acc.keys, names...)
		acc.cursor = next

		if acc.cursor == exhaustedCursor ||
			int64(len(acc.keys)) >= count ||
			acc.scanned >= s.config.CountThreshold {
			return nil
		}
	}
}

// findExact looks up one key. Missing keys and keys of a different type than
// the requested filter yield an empty page.
func (s *Scanner) findExact(ctx context.Context, lookup KeyLookup, name string, keyType string) ([]KeyInfo, error) {
	infos, err := s.enricher.Enrich(ctx, lookup, []string{name}, "")
	if err != nil {
		return nil, err
	}

	keys := make([]KeyInfo, 0, 1)
	for _, info := range infos {
		if !exists(info) {
			continue
		}
		if keyType != "" && info.Type != keyType {
			continue
		}
		keys = append(keys, info)
	}
	return keys, nil
}

// describe turns scanned names into KeyInfo, enriching them when asked to.
// Without enrichment the type is only known when the scan was type filtered.
func (s *Scanner) describe(ctx context.Context, node Node, names []string, keyType string, keysInfo bool) ([]KeyInfo, error) {
	if keysInfo && len(names) > 0 {
		return s.enricher.Enrich(ctx, node, names, keyType)
	}

	keys := make([]KeyInfo, len(names))
	for i, name := range names {
		keys[i] = KeyInfo{Name: []byte(name), Type: keyType}
	}
	return keys, nil
}

// exists needs a TYPE or TTL reply confirming the key. A lookup whose every
// slot failed, e.g. with MOVED from a node that does not own the key, proves nothing.
func exists(info KeyInfo) bool {
	if info.Type == "" && info.TTL == nil {
		return false
	}
	if info.Type == KeyTypeNone {
		return false
	}
	return info.TTL == nil || *info.TTL != TTLKeyNotExist
}
