package cache

// Keyer derives cache keys.
type Keyer interface {
	// SceneKey identifies a serialized scene by its parameters.
	SceneKey(params any) string
	// ArtifactKey identifies one rendered artifact of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Parity bool    `json:"parity,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Labels bool    `json:"labels,omitempty"`
	Engine string  `json:"engine,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SceneKey returns "scene:<hash(params)>".
func (DefaultKeyer) SceneKey(params any) string {
	return hashKey("scene", params)
}

// ArtifactKey returns "artifact:<hash(sceneHash, opts)>".
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
