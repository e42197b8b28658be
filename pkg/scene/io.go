package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	merr "github.com/matzehuels/meru/pkg/errors"
)

// Format is a scene serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension. Unknown extensions
// fall back to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Scene Serialization API
// =============================================================================

// Marshal serializes a scene to pretty-printed JSON or YAML.
func Marshal(s *Scene, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, merr.New(merr.ErrCodeInvalidFormat, "unsupported scene format %q", format)
}

// Unmarshal deserializes a scene and checks it with [Scene.Validate].
func Unmarshal(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, merr.Wrap(merr.ErrCodeInvalidFormat, err, "unmarshal scene")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, merr.Wrap(merr.ErrCodeInvalidFormat, err, "unmarshal scene")
		}
	default:
		return nil, merr.New(merr.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteFile writes a scene, choosing the format from the extension.
func WriteFile(s *Scene, path string) error {
	data, err := Marshal(s, FormatFromPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a scene, choosing the format from the extension.
func ReadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data, FormatFromPath(path))
}
