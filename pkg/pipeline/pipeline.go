// Package pipeline runs the generate → render pipeline shared by the CLI
// and the HTTP server.
//
// A run takes scene parameters, produces a [scene.Scene] with the matching
// generator, then renders it into every requested artifact format. Both
// stages are cached through [cache.Cache]; rendering of independent formats
// runs concurrently.
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Params:  scene.Params{Kind: scene.KindTree, Depth: 5},
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/meru/pkg/cache"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/render"
	"github.com/matzehuels/meru/pkg/render/svg"
	"github.com/matzehuels/meru/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the SVG pixel size of one layout unit.
	DefaultScale = svg.DefaultScale

	// DefaultPNGScale is the rasterization factor for PNG output.
	DefaultPNGScale = 2.0

	// EngineNative draws SVG from scene coordinates.
	EngineNative = "native"

	// EngineGraphviz lays the DOT export out with Graphviz.
	EngineGraphviz = "graphviz"
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{string(render.FormatSVG)}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Generate options
	Params  scene.Params `json:"params"`
	Refresh bool         `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty" validate:"dive,oneof=svg dot png pdf json yaml"`
	Engine   string   `json:"engine,omitempty" validate:"omitempty,oneof=native graphviz"`
	Scale    float64  `json:"scale,omitempty" validate:"gte=0,lte=1000"`
	PNGScale float64  `json:"png_scale,omitempty" validate:"gte=0,lte=16"`
	Parity   bool     `json:"parity,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`

	// Store options
	Save bool   `json:"save,omitempty"`
	Name string `json:"name,omitempty" validate:"max=200"`

	Logger *log.Logger `json:"-" validate:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Scene     *scene.Scene
	SceneHash string
	Artifacts map[string][]byte
	Formats   []string // normalized, in request order

	// RecordID is set when the scene was saved to the store.
	RecordID string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements     int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	SceneHit  bool
	RenderHit bool // every artifact came from cache
}

// ValidateAndSetDefaults checks field constraints and fills defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if _, err := scene.ParseKind(string(o.Params.Kind)); err != nil {
		return err
	}
	if err := o.Params.ValidateFinite(); err != nil {
		return err
	}
	if err := o.normalizeFormats(); err != nil {
		return err
	}
	if err := validatorInstance().Struct(o); err != nil {
		return merr.Wrap(merr.ErrCodeInvalidArgument, err, "invalid options")
	}
	o.Params = o.Params.WithDefaults()
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForRender checks and defaults only the render fields, for
// scenes that were not produced by this run.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := o.normalizeFormats(); err != nil {
		return err
	}
	if o.Engine != EngineNative && o.Engine != EngineGraphviz {
		return merr.New(merr.ErrCodeInvalidArgument, "unknown engine %q (want native or graphviz)", o.Engine)
	}
	return nil
}

// normalizeFormats lowercases format names, maps aliases and drops
// duplicates.
func (o *Options) normalizeFormats() error {
	out := make([]string, 0, len(o.Formats))
	for _, name := range o.Formats {
		f, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		if !slices.Contains(out, string(f)) {
			out = append(out, string(f))
		}
	}
	o.Formats = out
	return nil
}

// SetRenderDefaults fills unset render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch render.Format(format) {
	case render.FormatJSON, render.FormatYAML:
		return k
	case render.FormatDOT:
		k.Parity = o.Parity
		return k
	}
	k.Parity = o.Parity
	k.Scale = o.Scale
	k.Labels = !o.NoLabels
	k.Engine = o.Engine
	if render.Format(format) == render.FormatPNG {
		k.Scale *= o.PNGScale
	}
	return k
}
