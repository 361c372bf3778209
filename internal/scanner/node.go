package scanner

import "context"

// Command is the argv of a single store command, e.g. {"TTL", "user:1"}.
type Command []interface{}

// Reply is the positional outcome of one pipelined Command. Err is set when the
// store answered that single command with an error.
type Reply struct {
	Val interface{}
	Err error
}

// KeyLookup runs key commands. For a cluster it is the slot-routed client, so
// each command reaches the master that owns its key.
type KeyLookup interface {
	Addr() string
	Pipeline(ctx context.Context, cmds []Command) ([]Reply, error)
}

// Node is one scan target: a standalone server, the master a sentinel points
// at, or a single cluster master.
type Node interface {
	// Addr returns the node address as host:port.
	Addr() string

	// Scan issues one SCAN round trip. An empty keyType omits the TYPE filter.
	Scan(ctx context.Context, cursor uint64, match string, count int64, keyType string) (uint64, []string, error)

	// Pipeline sends all commands in one round trip and returns one Reply per
	// command, in order. A returned error means the pipeline as a whole failed.
	Pipeline(ctx context.Context, cmds []Command) ([]Reply, error)

	DBSize(ctx context.Context) (int64, error)
	Info(ctx context.Context, section string) (string, error)
}
