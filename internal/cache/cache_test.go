package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/layout"
)

func sample() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Label: "A", Type: graph.TypeTag},
			{ID: "b", Label: "B", Type: graph.TypeTag},
		},
		Edges: []graph.Edge{{ID: "e", Source: "a", Target: "b"}},
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/test-cache")
	if Dir() != "/tmp/test-cache/kgview" {
		t.Errorf("expected /tmp/test-cache/kgview, got %q", Dir())
	}
	if LayoutDir() != "/tmp/test-cache/kgview/layouts" {
		t.Errorf("unexpected layout dir %q", LayoutDir())
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "kgview")
	if Dir() != expected {
		t.Errorf("expected %q, got %q", expected, Dir())
	}
}

func TestKey(t *testing.T) {
	cfg := layout.DefaultConfig(800, 600)
	base := Key(sample(), cfg, 100)

	if Key(sample(), cfg, 100) != base {
		t.Error("key should be stable")
	}

	relabeled := sample()
	relabeled.Nodes[0].Label = "renamed"
	relabeled.Nodes[0].Type = graph.TypeEvent
	if Key(relabeled, cfg, 100) != base {
		t.Error("labels and types do not move nodes and must not change the key")
	}

	tests := map[string]func() string{
		"iterations": func() string { return Key(sample(), cfg, 200) },
		"width": func() string {
			c := cfg
			c.Width = 801
			return Key(sample(), c, 100)
		},
		"seed": func() string {
			c := cfg
			c.Seed = 7
			return Key(sample(), c, 100)
		},
		"weight": func() string {
			g := sample()
			g.Edges[0].Weight = 2
			return Key(g, cfg, 100)
		},
		"node order": func() string {
			g := sample()
			g.Nodes[0], g.Nodes[1] = g.Nodes[1], g.Nodes[0]
			return Key(g, cfg, 100)
		},
	}
	for name, fn := range tests {
		if fn() == base {
			t.Errorf("%s should change the key", name)
		}
	}
}

func TestStoreAndLookup(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "layouts"))
	g := sample()
	cfg := layout.DefaultConfig(800, 600)

	if _, ok := c.Lookup(g, cfg, 100); ok {
		t.Fatal("empty cache should miss")
	}

	nodes := layout.New(cfg).Run(g, 100)
	if err := c.Store(g, cfg, 100, nodes); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, ok := c.Lookup(g, cfg, 100)
	if !ok {
		t.Fatal("expected a hit")
	}
	for i := range nodes {
		if got[i].X != nodes[i].X || got[i].Y != nodes[i].Y {
			t.Errorf("node %s: got (%v,%v), want (%v,%v)", nodes[i].ID, got[i].X, got[i].Y, nodes[i].X, nodes[i].Y)
		}
	}
	if g.Nodes[0].X != 0 {
		t.Error("lookup must not write into the input graph")
	}

	if _, ok := c.Lookup(g, cfg, 50); ok {
		t.Error("different iteration count should miss")
	}
}

func TestStoreRejectsMismatch(t *testing.T) {
	c := New(t.TempDir())
	if err := c.Store(sample(), layout.DefaultConfig(10, 10), 1, nil); err == nil {
		t.Error("expected error for missing positions")
	}
}

func TestClear(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "layouts"))
	cfg := layout.DefaultConfig(800, 600)
	g := sample()
	for _, iters := range []int{1, 2, 3} {
		if err := c.Store(g, cfg, iters, layout.New(cfg).Run(g, iters)); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if c.Len() != 0 {
		t.Error("cache should be empty")
	}
}
