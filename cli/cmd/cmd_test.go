package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runApp(t *testing.T, mr *miniredis.Miniredis, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KEYBROWSER_MODE", "standalone")

	app := NewApp()
	var out bytes.Buffer
	app.Writer = &out
	base := []string{"keybrowser", "--env-file", filepath.Join(t.TempDir(), "missing.env"), "--addr", mr.Addr()}
	err := app.Run(append(base, args...))
	return out.String(), err
}

func seed(t *testing.T, mr *miniredis.Miniredis) {
	t.Helper()
	for i := 0; i < 25; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("user:%d", i), "v"))
	}
	mr.Lpush("queue", "job")
}

func TestScanCommand_JSON(t *testing.T) {
	mr := miniredis.RunT(t)
	seed(t, mr)

	out, err := runApp(t, mr, "scan", "--match", "queue", "--keys-info=true")
	require.NoError(t, err)

	var page pageOutput
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, "0", page.NextCursor)
	require.Len(t, page.Nodes, 1)
	require.Len(t, page.Nodes[0].Keys, 1)
	assert.Equal(t, "queue", page.Nodes[0].Keys[0].Name)
	assert.Equal(t, "list", page.Nodes[0].Keys[0].Type)
}

func TestScanCommand_AllPagesYAML(t *testing.T) {
	mr := miniredis.RunT(t)
	seed(t, mr)

	out, err := runApp(t, mr, "scan", "--match", "user:*", "--count", "5", "--all", "--keys-info=false", "-o", "yaml")
	require.NoError(t, err)

	dec := yaml.NewDecoder(bytes.NewBufferString(out))
	seen := map[string]bool{}
	last := ""
	for {
		var page pageOutput
		if err := dec.Decode(&page); err != nil {
			break
		}
		for _, n := range page.Nodes {
			for _, k := range n.Keys {
				seen[k.Name] = true
			}
		}
		last = page.NextCursor
	}
	assert.Equal(t, "0", last)
	assert.Len(t, seen, 25)
}

func TestScanCommand_BadOutput(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := runApp(t, mr, "scan", "--output", "xml")

	assert.ErrorContains(t, err, "unsupported output format")
}

func TestTotalCommand(t *testing.T) {
	mr := miniredis.RunT(t)

	out, err := runApp(t, mr, "total")
	require.NoError(t, err)
	assert.Equal(t, "unknown\n", out)

	seed(t, mr)
	out, err = runApp(t, mr, "total")
	require.NoError(t, err)
	assert.Equal(t, "26\n", out)
}

func TestVersionCommand(t *testing.T) {
	app := NewApp()
	var out bytes.Buffer
	app.Writer = &out

	require.NoError(t, app.Run([]string{"keybrowser", "version"}))

	assert.Contains(t, out.String(), "Version:      dev")
}
