package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

func TestBuiltin(t *testing.T) {
	p := Builtin()
	assert.Equal(t, "meru", p.Name)
	require.Len(t, p.Scenes, 7)

	tree, ok := p.Find("binomial-tree")
	require.True(t, ok)
	assert.Equal(t, scene.KindTree, tree.Kind)
	assert.Equal(t, 5, tree.Depth)
	assert.Equal(t, binomial.Point{X: -4, Y: 0}, tree.Origin)

	stock, ok := p.Find("stock-walk")
	require.True(t, ok)
	assert.Equal(t, 60.0, stock.Start)
	assert.Equal(t, uint64(42), stock.Seed)
	assert.True(t, stock.ShowLabels())

	paths, ok := p.Find("weather-paths")
	require.True(t, ok)
	assert.False(t, paths.ShowLabels())

	for _, s := range p.Scenes {
		_, err := scene.Generate(s.Params)
		assert.NoError(t, err, s.Name)
	}
}

func TestParsePreset_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", `name = `},
		{"no scenes", `name = "x"`},
		{"missing name", "[[scene]]\nname = \"a\"\nkind = \"triangle\"\nrows = 3\n"},
		{"unknown key", "name = \"x\"\n[[scene]]\nname = \"a\"\nkind = \"triangle\"\nrows = 3\ncolour = \"red\"\n"},
		{"unknown kind", "name = \"x\"\n[[scene]]\nname = \"a\"\nkind = \"spiral\"\n"},
		{"duplicate", "name = \"x\"\n[[scene]]\nname = \"a\"\nkind = \"triangle\"\n[[scene]]\nname = \"a\"\nkind = \"tree\"\n"},
		{"unsafe name", "name = \"x\"\n[[scene]]\nname = \"../a\"\nkind = \"triangle\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePreset([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, merr.ErrCodeInvalidConfig, merr.GetCode(err))
		})
	}
}

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "small"

[[scene]]
name = "rows"
kind = "triangle"
rows = 4
formats = ["json"]
`), 0o644))

	p, err := LoadPreset(path)
	require.NoError(t, err)
	require.Len(t, p.Scenes, 1)
	assert.Equal(t, filepath.Join("out", "rows"), p.Scenes[0].OutputBase("out"))

	_, err = LoadPreset(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Equal(t, merr.ErrCodeInvalidPath, merr.GetCode(err))
}
