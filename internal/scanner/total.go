package scanner

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// EstimateTotal returns the approximate number of keys held by node. DBSIZE is
// tried first and INFO keyspace is the fallback when DBSIZE is rejected. A raw
// count of zero is returned as nil: it may mean empty or unsupported.
func EstimateTotal(ctx context.Context, node Node) (*int64, error) {
	count, err := node.DBSize(ctx)
	if err != nil {
		info, infoErr := node.Info(ctx, "keyspace")
		if infoErr != nil {
			return nil, err
		}
		count = parseKeyspaceTotal(info)
	}
	return normalizeTotal(count), nil
}

// EstimateClusterTotal sums EstimateTotal over every node.
func EstimateClusterTotal(ctx context.Context, nodes []Node) (*int64, error) {
	counts := make([]*int64, len(nodes))
	g, gctx := errgroup.WithContext(ctx)
	for i, node := range nodes {
		i, node := i, node
		g.Go(func() (err error) {
			counts[i], err = EstimateTotal(gctx, node)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sum int64
	for _, c := range counts {
		if c != nil {
			sum += *c
		}
	}
	return normalizeTotal(sum), nil
}

func normalizeTotal(count int64) *int64 {
	if count == 0 {
		return nil
	}
	return &count
}

// parseKeyspaceTotal sums keys= over lines such as "db0:keys=1,expires=0,avg_ttl=0".
func parseKeyspaceTotal(info string) int64 {
	var total int64
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "db") {
			continue
		}
		_, fields, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		for _, field := range strings.Split(fields, ",") {
			name, value, ok := strings.Cut(field, "=")
			if !ok || name != "keys" {
				continue
			}
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				total += n
			}
		}
	}
	return total
}
