package browser

import (
	"context"

	"github.com/trigg3rX/keybrowser/internal/scanner"
	redisclient "github.com/trigg3rX/keybrowser/pkg/client/redis"
)

// node adapts a go-redis backed NodeClient to scanner.Node.
type node struct {
	client *redisclient.NodeClient
}

var _ scanner.Node = (*node)(nil)

func (n *node) Addr() string {
	return n.client.Addr()
}

func (n *node) Scan(ctx context.Context, cursor uint64, match string, count int64, keyType string) (uint64, []string, error) {
	res, err := n.client.Scan(ctx, cursor, &redisclient.ScanOptions{
		Pattern: match,
		Count:   count,
		Type:    keyType,
	})
	if err != nil {
		return 0, nil, err
	}
	return res.Cursor, res.Keys, nil
}

func (n *node) Pipeline(ctx context.Context, cmds []scanner.Command) ([]scanner.Reply, error) {
	return pipeline(ctx, n.client.Pipeline, cmds)
}

func (n *node) DBSize(ctx context.Context) (int64, error) {
	return n.client.DBSize(ctx)
}

func (n *node) Info(ctx context.Context, section string) (string, error) {
	return n.client.Info(ctx, section)
}

// masterResolver and shardResolver resolve nodes through the topology on every call.
type masterResolver struct {
	topology Topology
}

func (r *masterResolver) Master(ctx context.Context) (scanner.Node, error) {
	client, err := r.topology.Master(ctx)
	if err != nil {
		return nil, err
	}
	return &node{client: client}, nil
}

type shardResolver struct {
	topology Topology
}

func (r *shardResolver) Router() scanner.KeyLookup {
	return &router{topology: r.topology}
}

func (r *shardResolver) Masters(ctx context.Context) ([]scanner.Node, error) {
	clients, err := r.topology.Masters(ctx)
	if err != nil {
		return nil, err
	}
	nodes := make([]scanner.Node, len(clients))
	for i, c := range clients {
		nodes[i] = &node{client: c}
	}
	return nodes, nil
}

// router sends key lookups through the cluster client, which knows slot ownership.
type router struct {
	topology Topology
}

func (r *router) Addr() string {
	return string(r.topology.Mode())
}

func (r *router) Pipeline(ctx context.Context, cmds []scanner.Command) ([]scanner.Reply, error) {
	return pipeline(ctx, r.topology.Pipeline, cmds)
}

func pipeline(ctx context.Context, send func(context.Context, [][]interface{}) ([]redisclient.CommandReply, error), cmds []scanner.Command) ([]scanner.Reply, error) {
	args := make([][]interface{}, len(cmds))
	for i, cmd := range cmds {
		args[i] = cmd
	}
	replies, err := send(ctx, args)
	if err != nil {
		return nil, err
	}
	out := make([]scanner.Reply, len(replies))
	for i, r := range replies {
		out[i] = scanner.Reply{Val: r.Val, Err: r.Err}
	}
	return out, nil
}
