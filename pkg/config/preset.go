package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

//go:embed presets/meru.toml
var builtinPreset []byte

// Preset is a named batch of scenes.
type Preset struct {
	Name        string      `toml:"name" validate:"required"`
	Description string      `toml:"description"`
	Scenes      []SceneSpec `toml:"scene" validate:"min=1,dive"`
}

// SceneSpec is one entry of a preset: generator params plus how to
// render them.
type SceneSpec struct {
	Name string `toml:"name" validate:"required,max=64"`
	scene.Params

	Formats []string `toml:"formats"`
	Engine  string   `toml:"engine" validate:"omitempty,oneof=native graphviz"`
	Scale   float64  `toml:"scale" validate:"gte=0"`
	Parity  bool     `toml:"parity"`
	Labels  *bool    `toml:"labels"`
	Save    bool     `toml:"save"`
}

// ShowLabels reports whether value labels are drawn. Unset means yes.
func (s SceneSpec) ShowLabels() bool {
	return s.Labels == nil || *s.Labels
}

// OutputBase returns dir/name, the path artifacts are written to minus
// the format extension.
func (s SceneSpec) OutputBase(dir string) string {
	return filepath.Join(dir, s.Name)
}

var sceneName = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ParsePreset decodes and validates TOML preset data.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, merr.Wrap(merr.ErrCodeInvalidConfig, err, "decode preset")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, merr.New(merr.ErrCodeInvalidConfig, "unknown preset key %q", undecoded[0].String())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPreset reads a preset file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, merr.Wrap(merr.ErrCodeInvalidPath, err, "read preset")
	}
	p, err := ParsePreset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Builtin returns the preset embedded in the binary, which reproduces
// the scenes of the Meru Prastara series.
func Builtin() *Preset {
	p, err := ParsePreset(builtinPreset)
	if err != nil {
		panic(fmt.Sprintf("builtin preset: %v", err))
	}
	return p
}

// Validate checks names are unique file-safe slugs and every scene has a
// known kind.
func (p *Preset) Validate() error {
	if err := validatorInstance().Struct(p); err != nil {
		return merr.Wrap(merr.ErrCodeInvalidConfig, err, "invalid preset")
	}
	seen := make(map[string]bool, len(p.Scenes))
	for _, s := range p.Scenes {
		if !sceneName.MatchString(s.Name) {
			return merr.New(merr.ErrCodeInvalidConfig, "scene name %q must be lowercase letters, digits, '.', '_' or '-'", s.Name)
		}
		if seen[s.Name] {
			return merr.New(merr.ErrCodeInvalidConfig, "duplicate scene name %q", s.Name)
		}
		seen[s.Name] = true
		if _, err := scene.ParseKind(string(s.Kind)); err != nil {
			return fmt.Errorf("scene %q: %w", s.Name, err)
		}
	}
	return nil
}

// Find returns the scene called name.
func (p *Preset) Find(name string) (SceneSpec, bool) {
	for _, s := range p.Scenes {
		if s.Name == name {
			return s, true
		}
	}
	return SceneSpec{}, false
}
