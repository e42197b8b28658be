package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

// captureStdout redirects command output into a buffer for the rest of
// the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

// isolate points every XDG directory and backend override at the test's
// temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("MERU_CACHE", "")
	t.Setenv("MERU_REDIS_URL", "")
	t.Setenv("MERU_MONGO_URI", "")
	t.Setenv("MERU_ADDR", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := captureStdout(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"rows", "patterns", "tree", "cone", "walk", "render", "preset", "store", "cache", "serve", "explore", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}

func TestRowsCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "rows", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Meru Prastara, 5 rows")
	assert.Contains(t, out, "1 4 6 4 1")
}

func TestRowsCommandRejectsBadCount(t *testing.T) {
	isolate(t)

	_, err := run(t, "rows", "five")
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument), "got %v", err)

	_, err = run(t, "rows", "-3")
	assert.Error(t, err)
}

func TestPatternsCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "patterns", "2")
	require.NoError(t, err)
	for _, p := range []string{"||", "S|", "|S", "SS"} {
		assert.Contains(t, out, p)
	}
	assert.Contains(t, out, "Long")
}

func TestTreeCommandPrintsLabels(t *testing.T) {
	isolate(t)

	out, err := run(t, "tree", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Binomial tree, 3 steps")
	assert.Contains(t, out, "Height")
	assert.Contains(t, out, "1.80")
	assert.Contains(t, out, "15 nodes")
}

func TestTreeCommandWritesArtifacts(t *testing.T) {
	dir := isolate(t)
	base := filepath.Join(dir, "out", "tree")

	_, err := run(t, "tree", "2", "-f", "svg,json,dot", "-o", base, "--no-cache")
	require.NoError(t, err)

	for _, ext := range []string{"svg", "json", "dot"} {
		data, err := os.ReadFile(base + "." + ext)
		require.NoError(t, err, ext)
		assert.NotEmpty(t, data, ext)
	}
}

func TestTreeCommandKeepsZeroUpBranch(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "flat.json")

	_, err := run(t, "tree", "2", "--up", "0,0", "-o", path, "--no-cache")
	require.NoError(t, err)

	sc, err := scene.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, binomial.Vector{}, sc.Params.Up)
	assert.Equal(t, scene.DefaultDown, sc.Params.Down)
	require.Len(t, sc.Labels, 3)
	assert.InDelta(t, 0.0, sc.Labels[0].Point.Y, 1e-9)
	assert.InDelta(t, -1.2, sc.Labels[2].Point.Y, 1e-9)
}

func TestWalkCommandFanInterval(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "fan.json")

	_, err := run(t, "walk", "3", "--paths", "2", "--fan-lo", "0.1", "--fan-hi", "0.2", "-o", path, "--no-cache")
	require.NoError(t, err)

	sc, err := scene.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, -5.0, sc.Params.Lo)
	assert.Equal(t, 7.0, sc.Params.Hi)
	assert.Equal(t, 0.1, sc.Params.FanLo)
	assert.Equal(t, 0.2, sc.Params.FanHi)
	require.Len(t, sc.Tracks, 2)
}

func TestWalkSaveAndStoreList(t *testing.T) {
	isolate(t)

	out, err := run(t, "walk", "4", "--save", "--name", "demo", "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "saved as")

	out, err = run(t, "store", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "walk")
	assert.Contains(t, out, "demo")
}

func TestStoreShowMissing(t *testing.T) {
	isolate(t)

	_, err := run(t, "store", "show", "nope")
	assert.True(t, merr.Is(err, merr.ErrCodeNotFound), "got %v", err)

	_, err = run(t, "store", "show", "../etc")
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidPath), "got %v", err)
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "cache", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "cache", "meru"))
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	base := filepath.Join(dir, "tri")

	_, err := run(t, "rows", "4", "-o", base+".json", "--no-cache")
	require.NoError(t, err)

	_, err = run(t, "render", base+".json", "-f", "svg", "-o", filepath.Join(dir, "drawn"), "--no-cache")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "drawn.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestPresetOnly(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, "preset", "--only", "meru-prastara", "--dir", dir, "--no-cache")
	require.NoError(t, err)
	matches, err := filepath.Glob(filepath.Join(dir, "meru-prastara.*"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches)

	_, err = run(t, "preset", "--only", "missing", "--dir", dir, "--no-cache")
	assert.True(t, merr.Is(err, merr.ErrCodeNotFound), "got %v", err)
}

func TestPresetList(t *testing.T) {
	isolate(t)

	out, err := run(t, "preset", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "binomial-tree")
	assert.Contains(t, out, "weather-cone")
}

// =============================================================================
// Helpers
// =============================================================================

func TestParsePair(t *testing.T) {
	tests := []struct {
		in   string
		x, y float64
		ok   bool
	}{
		{"1,2", 1, 2, true},
		{" -1.5 , 0.25 ", -1.5, 0.25, true},
		{"1", 0, 0, false},
		{"a,b", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		x, y, err := parsePair("origin", tt.in)
		if !tt.ok {
			assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument), "parsePair(%q) = %v", tt.in, err)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.x, x)
		assert.Equal(t, tt.y, y)
	}
}

func TestResolveFormats(t *testing.T) {
	tests := []struct {
		name string
		opts outputOpts
		want []string
	}{
		{"explicit", outputOpts{formats: "svg,JSON", output: "x.png"}, []string{"svg", "json"}},
		{"from extension", outputOpts{output: "tree.pdf"}, []string{"pdf"}},
		{"yml alias", outputOpts{output: "tree.yml"}, []string{"yaml"}},
		{"unknown extension", outputOpts{output: "tree.txt"}, []string{"svg"}},
		{"no extension", outputOpts{output: "tree"}, []string{"svg"}},
		{"save only", outputOpts{save: true}, []string{"json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.resolveFormats()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := (&outputOpts{formats: "gif"}).resolveFormats()
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidFormat))
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(filepath.Join(dir, "nested", "scene.svg"), []string{"svg", "json"}, artifacts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "nested", "scene.svg"),
		filepath.Join(dir, "nested", "scene.json"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	paths, err = writeArtifacts(filepath.Join(dir, "v1.2"), []string{"svg"}, artifacts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "v1.2.svg"), paths[0])
}

func TestFormatTriangle(t *testing.T) {
	out := formatTriangle([][]uint64{{1}, {1, 1}, {1, 2, 1}}, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  1", lines[0])
	assert.Equal(t, "1 2 1", lines[2])

	assert.Empty(t, formatTriangle(nil, false))
}

// =============================================================================
// Explorer
// =============================================================================

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m ExploreModel, keys ...string) ExploreModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ExploreModel)
	}
	return m
}

func TestExploreModelSizes(t *testing.T) {
	m := NewExploreModel(3)
	assert.Equal(t, modeTriangle, m.Mode)
	assert.Equal(t, 3, m.Sizes[modeTriangle])

	m = update(m, "up", "up")
	assert.Equal(t, 5, m.Sizes[modeTriangle])
	assert.Contains(t, m.View(), "1 4 6 4 1")

	m = update(m, "down", "down", "down", "down", "down", "down")
	assert.Equal(t, 1, m.Sizes[modeTriangle], "size stops at 1")

	m = NewExploreModel(100)
	assert.Equal(t, 16, m.Sizes[modeTriangle])
	m = update(m, "up")
	assert.Equal(t, 16, m.Sizes[modeTriangle], "size stops at the mode maximum")
}

func TestExploreModelTabs(t *testing.T) {
	m := NewExploreModel(5)

	m = update(m, "tab")
	assert.Equal(t, modePatterns, m.Mode)
	assert.Contains(t, m.View(), "8 patterns")

	m = update(m, "tab")
	assert.Equal(t, modeTree, m.Mode)
	assert.Contains(t, m.View(), "15 nodes")

	m = update(m, "tab")
	assert.Equal(t, modeTriangle, m.Mode)
	assert.Equal(t, 5, m.Sizes[modeTriangle], "size kept across tabs")
}

func TestExploreModelParityAndQuit(t *testing.T) {
	m := update(NewExploreModel(4), "p")
	assert.True(t, m.Parity)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
