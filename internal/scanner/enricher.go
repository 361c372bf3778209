package scanner

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// Enricher fetches expiry, size and type for a batch of keys with at most three
// pipelines, whatever the batch size.
type Enricher struct {
	hooks *Hooks
}

func NewEnricher(hooks *Hooks) *Enricher {
	return &Enricher{hooks: hooks}
}

// Enrich returns one KeyInfo per name, in order. When knownType is set every
// key is reported with it and the TYPE pipeline is skipped. A failed slot
// leaves that single field empty; only a failed pipeline fails the call.
func (e *Enricher) Enrich(ctx context.Context, node KeyLookup, names []string, knownType string) ([]KeyInfo, error) {
	if len(names) == 0 {
		return []KeyInfo{}, nil
	}

	ttlCmds := make([]Command, len(names))
	sizeCmds := make([]Command, len(names))
	var typeCmds []Command
	if knownType == "" {
		typeCmds = make([]Command, len(names))
	}
	for i, name := range names {
		ttlCmds[i] = Command{"TTL", name}
		sizeCmds[i] = Command{"MEMORY", "USAGE", name, "SAMPLES", "0"}
		if typeCmds != nil {
			typeCmds[i] = Command{"TYPE", name}
		}
	}

	var ttls, sizes, types []Reply
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ttls, err = e.pipeline(gctx, node, ttlCmds)
		return err
	})
	g.Go(func() (err error) {
		sizes, err = e.pipeline(gctx, node, sizeCmds)
		return err
	})
	if typeCmds != nil {
		g.Go(func() (err error) {
			types, err = e.pipeline(gctx, node, typeCmds)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	infos := make([]KeyInfo, len(names))
	for i, name := range names {
		info := KeyInfo{
			Name: []byte(name),
			TTL:  replyInt64(ttls[i]),
			Size: replyInt64(sizes[i]),
			Type: knownType,
		}
		if types != nil {
			info.Type = replyString(types[i])
		}
		infos[i] = info
	}
	return infos, nil
}

func (e *Enricher) pipeline(ctx context.Context, node KeyLookup, cmds []Command) ([]Reply, error) {
	start := time.Now()
	replies, err := node.Pipeline(ctx, cmds)
	if err == nil && len(replies) != len(cmds) {
		err = ErrPipelineReplyMismatch
	}
	e.hooks.pipeline(node.Addr(), len(cmds), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return replies, nil
}

func replyInt64(r Reply) *int64 {
	if r.Err != nil || r.Val == nil {
		return nil
	}
	var v int64
	switch val := r.Val.(type) {
	case int64:
		v = val
	case int:
		v = int64(val)
	case string:
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		return nil
	}
	return &v
}

func replyString(r Reply) string {
	if r.Err != nil {
		return ""
	}
	switch val := r.Val.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	}
	return ""
}
