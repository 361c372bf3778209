package redis

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// NodeClient issues commands against a single master. Errors are returned as
// the server or the network produced them, without retries.
type NodeClient struct {
	owner  *Topology
	client *redis.Client
	addr   string
}

func newNodeClient(owner *Topology, client *redis.Client, addr string) *NodeClient {
	return &NodeClient{owner: owner, client: client, addr: addr}
}

// Addr returns the host:port of the node.
func (n *NodeClient) Addr() string {
	return n.addr
}

// Scan performs one SCAN round trip. A type filter switches to SCAN ... TYPE.
func (n *NodeClient) Scan(ctx context.Context, cursor uint64, options *ScanOptions) (*ScanResult, error) {
	if options == nil {
		options = &ScanOptions{}
	}

	start := time.Now()
	var cmd *redis.ScanCmd
	if options.Type != "" {
		cmd = n.client.ScanType(ctx, cursor, options.Pattern, options.Count, options.Type)
	} else {
		cmd = n.client.Scan(ctx, cursor, options.Pattern, options.Count)
	}
	keys, next, err := cmd.Result()
	n.owner.trackOperationEnd("Scan", n.addr, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &ScanResult{
		Cursor:  next,
		Keys:    keys,
		HasMore: next != 0,
	}, nil
}

// Pipeline sends every command in a single round trip. A server error for one
// command is reported in its reply; only a transport failure fails the call.
func (n *NodeClient) Pipeline(ctx context.Context, cmds [][]interface{}) ([]CommandReply, error) {
	return runPipeline(ctx, n.owner, n.client.Pipeline(), n.addr, cmds)
}

func runPipeline(ctx context.Context, owner *Topology, pipe redis.Pipeliner, node string, cmds [][]interface{}) ([]CommandReply, error) {
	if len(cmds) == 0 {
		return []CommandReply{}, nil
	}

	start := time.Now()
	results := make([]*redis.Cmd, len(cmds))
	for i, args := range cmds {
		results[i] = pipe.Do(ctx, args...)
	}
	_, err := pipe.Exec(ctx)
	if err != nil && !isServerError(err) {
		owner.trackOperationEnd("Pipeline", node, time.Since(start), err)
		return nil, err
	}
	owner.trackOperationEnd("Pipeline", node, time.Since(start), nil)

	replies := make([]CommandReply, len(results))
	for i, cmd := range results {
		val, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		replies[i] = CommandReply{Val: val, Err: err}
	}
	return replies, nil
}

// DBSize returns the number of keys in the selected database.
func (n *NodeClient) DBSize(ctx context.Context) (int64, error) {
	start := time.Now()
	size, err := n.client.DBSize(ctx).Result()
	n.owner.trackOperationEnd("DBSize", n.addr, time.Since(start), err)
	return size, err
}

// Info returns the raw INFO text of one section.
func (n *NodeClient) Info(ctx context.Context, section string) (string, error) {
	start := time.Now()
	info, err := n.client.Info(ctx, section).Result()
	n.owner.trackOperationEnd("Info", n.addr, time.Since(start), err)
	return info, err
}

// isServerError reports whether err is a reply from the server, as opposed to
// a network or context failure.
func isServerError(err error) bool {
	var redisErr redis.Error
	return errors.As(err, &redisErr)
}
