package cmd

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msalah0e/kgview/internal/graph"
)

const sampleGraph = `{
  "nodes": [
    {"id": "A", "label": "Alpha", "type": "document"},
    {"id": "B", "label": "Beta", "type": "concept"},
    {"id": "C", "label": "Gamma", "type": "person"}
  ],
  "edges": [
    {"id": "ab", "source": "A", "target": "B", "label": "references"},
    {"id": "bc", "source": "B", "target": "C", "label": "authored-by"}
  ]
}`

// sandbox isolates config, cache and working directory, and writes the
// sample graph.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "g.json"), []byte(sampleGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderPNG(t *testing.T) {
	dir := sandbox(t)
	if _, err := run(t, "render", "g.json", "-o", "out.png"); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "out.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 600 {
		t.Errorf("unexpected size %v", img.Bounds())
	}
}

func TestRenderManyToDirectoryWithStats(t *testing.T) {
	dir := sandbox(t)
	toml := "[[nodes]]\nid = \"x\"\ntype = \"tag\"\n"
	if err := os.WriteFile(filepath.Join(dir, "h.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "render", "g.json", "h.toml", "-o", "frames", "--format", "svg", "--stats", "--type", "person")
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, out)
	}
	for _, name := range []string{"g.svg", "h.svg"} {
		data, err := os.ReadFile(filepath.Join(dir, "frames", name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !strings.Contains(string(data), "</svg>") {
			t.Errorf("%s is not a complete SVG", name)
		}
	}
	if !strings.Contains(out, "ARROWS") {
		t.Errorf("expected stats table, got:\n%s", out)
	}
	g, _ := os.ReadFile(filepath.Join(dir, "frames", "g.svg"))
	if n := strings.Count(string(g), "<circle"); n != 1 {
		t.Errorf("type filter should leave 1 node, got %d", n)
	}
}

func TestRenderFailures(t *testing.T) {
	sandbox(t)
	if _, err := run(t, "render", "missing.json", "-o", "x.png"); err == nil {
		t.Error("expected error for missing input")
	}
	if _, err := run(t, "render", "g.json", "-o", "x.gif"); err == nil {
		t.Error("expected error for unsupported output")
	}
	if _, err := run(t, "render", "g.json", "-o", "x.png", "--type", "robot"); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := run(t, "render", "g.json", "-o", "x.png", "--select", "Z"); err == nil {
		t.Error("expected error for unknown selection")
	}
	if _, err := run(t, "render", "g.json", "-o", "x.png", "--pan", "3"); err == nil {
		t.Error("expected error for malformed pan")
	}
}

func TestLayoutJSON(t *testing.T) {
	sandbox(t)
	out, err := run(t, "layout", "g.json", "--json", "--iterations", "10")
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	var g graph.Graph
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("layout --json is not JSON: %v\n%s", err, out)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes))
	}
	if g.Nodes[0].X == 0 && g.Nodes[0].Y == 0 {
		t.Error("positions should be filled in")
	}
}

func TestLayoutTable(t *testing.T) {
	sandbox(t)
	out, err := run(t, "layout", "g.json")
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	if !strings.Contains(out, "100 iterations") || !strings.Contains(out, "person") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestInfo(t *testing.T) {
	sandbox(t)
	out, err := run(t, "info", "g.json")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Nodes", "3", "document", "concept", "person"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate(t *testing.T) {
	dir := sandbox(t)
	if _, err := run(t, "validate", "g.json"); err != nil {
		t.Errorf("sample graph should validate: %v", err)
	}

	bad := `{"nodes":[{"id":"A","type":"document"},{"id":"A","type":"robot"}],
	         "edges":[{"source":"A","target":"Z"}]}`
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "validate", "bad.json")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(err.Error(), "3 problems") {
		t.Errorf("unexpected error %v", err)
	}
	for _, want := range []string{"duplicate", "robot", `"Z"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExport(t *testing.T) {
	sandbox(t)
	out, err := run(t, "export", "g.json", "--format", "dot", "--layout")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(out, "digraph kgview {") || !strings.Contains(out, "pos=") {
		t.Errorf("unexpected DOT:\n%s", out)
	}

	if _, err := run(t, "export", "g.json", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestReplay(t *testing.T) {
	dir := sandbox(t)
	events := `
[[event]]
kind = "focus"
value = "B"
zoom = 2.0

[[event]]
kind = "down"
x = 600
y = 300

[[event]]
kind = "dblclick"
x = 600
y = 300

[[event]]
kind = "wheel"
delta = 1
`
	if err := os.WriteFile(filepath.Join(dir, "events.toml"), []byte(events), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "replay", "g.json", "events.toml", "-o", "final.svg")
	if err != nil {
		t.Fatalf("replay failed: %v\n%s", err, out)
	}
	for _, want := range []string{"node-click B", "node-double-click B", "zoom 1.800", "selected B"} {
		if !strings.Contains(out, want) {
			t.Errorf("replay output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "final.svg")); err != nil {
		t.Errorf("final frame not written: %v", err)
	}
}

func TestReplayBadScript(t *testing.T) {
	dir := sandbox(t)
	if err := os.WriteFile(filepath.Join(dir, "events.toml"), []byte("[[event]]\nkind = \"jump\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "replay", "g.json", "events.toml"); err == nil {
		t.Error("expected error for unknown event kind")
	}
}

func TestConfigCommands(t *testing.T) {
	dir := sandbox(t)

	out, err := run(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "config", "kgview", "config.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}

	if out, err = run(t, "config", "init"); err != nil || !strings.Contains(out, "created") {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if out, err = run(t, "config", "init"); err != nil || !strings.Contains(out, "already exists") {
		t.Fatalf("second config init: %v\n%s", err, out)
	}

	out, err = run(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[canvas]") || !strings.Contains(out, `height = "600px"`) {
		t.Errorf("unexpected config:\n%s", out)
	}
}

func TestExplicitConfigFlag(t *testing.T) {
	dir := sandbox(t)
	cfgPath := filepath.Join(dir, "small.toml")
	if err := os.WriteFile(cfgPath, []byte("[canvas]\nwidth = 320\nheight = \"200px\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", cfgPath, "render", "g.json", "-o", "small.png"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "small.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}

	if _, err := run(t, "--config", filepath.Join(dir, "nope.toml"), "info", "g.json"); err == nil {
		t.Error("expected error for missing --config file")
	}
}

func TestCacheCommands(t *testing.T) {
	sandbox(t)
	if _, err := run(t, "render", "g.json", "-o", "a.png"); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "cache", "dir")
	if err != nil || !strings.Contains(out, "(1 entries)") {
		t.Fatalf("cache dir: %v\n%s", err, out)
	}
	out, err = run(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "removed 1") {
		t.Fatalf("cache clear: %v\n%s", err, out)
	}
}

func TestParsePair(t *testing.T) {
	x, y, err := parsePair(" 12.5, -3 ")
	if err != nil || x != 12.5 || y != -3 {
		t.Errorf("parsePair = %v, %v, %v", x, y, err)
	}
	for _, bad := range []string{"", "1", "1,2,3", "a,b"} {
		if _, _, err := parsePair(bad); err == nil {
			t.Errorf("parsePair(%q) should fail", bad)
		}
	}
}

func TestRenderTargets(t *testing.T) {
	sandbox(t)
	targets, err := renderTargets([]string{"g.json"}, "x.svg", "png")
	if err != nil || targets[0].path != "x.svg" || targets[0].format != "svg" {
		t.Errorf("single file target: %+v, %v", targets, err)
	}

	targets, err = renderTargets([]string{"a/g.json", "b/h.toml"}, "", "png")
	if err != nil {
		t.Fatal(err)
	}
	if targets[0].path != "g.png" || targets[1].path != "h.png" {
		t.Errorf("unexpected targets %+v", targets)
	}

	if _, err := renderTargets([]string{"a/g.json", "b/g.toml"}, "out", "png"); err == nil {
		t.Error("expected error for colliding outputs")
	}
}
