package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/trigg3rX/keybrowser/internal/browser"
	"github.com/trigg3rX/keybrowser/internal/scanner"
	"github.com/trigg3rX/keybrowser/pkg/logging"
)

func ScanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Print one page of keys, or every page with --all",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cursor", Value: "0", Usage: "cursor returned by the previous page"},
			&cli.StringFlag{Name: "match", Usage: "glob pattern, empty matches every key"},
			&cli.StringFlag{Name: "type", Usage: "only keys of this type (string, hash, list, set, zset, stream)"},
			&cli.Int64Flag{Name: "count", Usage: "keys wanted per page, 0 uses SCAN_COUNT_DEFAULT"},
			&cli.BoolFlag{Name: "keys-info", Value: true, Usage: "fetch type, ttl and size of each key"},
			&cli.BoolFlag{Name: "all", Usage: "keep paging until the walk is complete"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "json", Usage: "json or yaml"},
		},
		Action: scanKeys,
	}
}

func scanKeys(c *cli.Context) error {
	format := c.String("output")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported output format %q", format)
	}

	rt, err := newSession(c, logging.CLIProcess, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	enc := newPageEncoder(c.App.Writer, format)
	if closer, ok := enc.(io.Closer); ok {
		defer closer.Close()
	}

	req := scanner.ScanRequest{
		Cursor:   c.String("cursor"),
		Count:    c.Int64("count"),
		Match:    c.String("match"),
		Type:     c.String("type"),
		KeysInfo: c.Bool("keys-info"),
	}
	for {
		ctx, cancel := withTimeout(c)
		page, err := rt.service.GetKeys(ctx, req)
		cancel()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if err := enc.Encode(toOutput(page)); err != nil {
			return fmt.Errorf("failed to encode page: %w", err)
		}
		if !c.Bool("all") || page.NextCursor == "0" {
			return nil
		}
		req.Cursor = page.NextCursor
	}
}

type keyOutput struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	TTL  *int64 `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Size *int64 `json:"size,omitempty" yaml:"size,omitempty"`
}

type nodeOutput struct {
	Node    string      `json:"node,omitempty" yaml:"node,omitempty"`
	Total   *int64      `json:"total" yaml:"total"`
	Scanned int64       `json:"scanned" yaml:"scanned"`
	Cursor  uint64      `json:"cursor" yaml:"cursor"`
	Keys    []keyOutput `json:"keys" yaml:"keys"`
}

type pageOutput struct {
	NextCursor string       `json:"next_cursor" yaml:"next_cursor"`
	Nodes      []nodeOutput `json:"nodes" yaml:"nodes"`
}

func toOutput(page *browser.Page) pageOutput {
	out := pageOutput{NextCursor: page.NextCursor, Nodes: make([]nodeOutput, len(page.Nodes))}
	for i, n := range page.Nodes {
		node := nodeOutput{Total: n.Total, Scanned: n.Scanned, Cursor: n.Cursor, Keys: make([]keyOutput, len(n.Keys))}
		if n.Host != "" {
			node.Node = scanner.NodeCursor{Host: n.Host, Port: n.Port}.Addr()
		}
		for j, k := range n.Keys {
			node.Keys[j] = keyOutput{Name: string(k.Name), Type: k.Type, TTL: k.TTL, Size: k.Size}
		}
		out.Nodes[i] = node
	}
	return out
}

// pageEncoder writes each page as its own JSON or YAML document.
type pageEncoder interface {
	Encode(v interface{}) error
}

func newPageEncoder(w io.Writer, format string) pageEncoder {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return enc
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}
