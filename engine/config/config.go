// Package config loads scene descriptions and renderer settings from YAML or TOML files.
//
// Scene files keep one list per file under the keys "models", "directionalLights" and
// "pointLights". Every vector is written as a map with x, y and z keys. A file that is
// missing or malformed yields an empty list and a logged error; nothing in this package
// stops the program.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/tellurion/common"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned when a file extension maps to no known decoder.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// decoder is satisfied by both the yaml.v3 and go-toml/v2 decoders.
type decoder interface {
	Decode(v any) error
}

// decoderFunc creates a decoder reading from r.
type decoderFunc func(r io.Reader) decoder

var decoders = map[string]decoderFunc{
	".yaml": func(r io.Reader) decoder { return yaml.NewDecoder(r) },
	".yml":  func(r io.Reader) decoder { return yaml.NewDecoder(r) },
	".toml": func(r io.Reader) decoder { return toml.NewDecoder(r) },
}

// decoderFor picks a decoder by file extension.
func decoderFor(path string) (decoderFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// Decode reads the file at path into v using the decoder for its extension.
// Fields of v that the file does not mention keep their current values, so callers
// can decode over a struct of defaults.
//
// Parameters:
//   - path: a .yaml, .yml or .toml file
//   - v: a pointer to the destination value
//
// Returns:
//   - error: ErrUnsupportedFormat, an open error or a decode error
func Decode(path string, v any) error {
	f, err := decoderFor(path)
	if err != nil {
		return err
	}

	fp, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: failed to open %s: %w", path, err)
	}
	defer fp.Close()

	if err := f(bufio.NewReader(fp)).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	return nil
}

// Loader reads scene and settings files, logging and recovering from every error.
type Loader struct {
	logger common.Logger
}

// NewLoader creates a Loader with the given options. Without WithLogger it logs through
// a default logger with the "config" prefix.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - *Loader: the loader
func NewLoader(options ...LoaderBuilderOption) *Loader {
	l := &Loader{}
	for _, opt := range options {
		opt(l)
	}
	if l.logger == nil {
		l.logger = common.NewDefaultLogger("config", false)
	}
	return l
}

// LoadModels reads the "models" list from path.
//
// Parameters:
//   - path: the scene file
//
// Returns:
//   - []ModelDescriptor: the models in file order, or an empty list on any error
func (l *Loader) LoadModels(path string) []ModelDescriptor {
	var file sceneFile
	if err := Decode(path, &file); err != nil {
		l.logger.Errorf("failed to load models: %v", err)
		return []ModelDescriptor{}
	}
	for i := range file.Models {
		if err := file.Models[i].validate(); err != nil {
			l.logger.Errorf("failed to load models from %s: entry %d: %v", path, i, err)
			return []ModelDescriptor{}
		}
		file.Models[i].applyDefaults()
	}
	l.logger.Debugf("loaded %d models from %s", len(file.Models), path)
	return nonNil(file.Models)
}

// LoadDirectionalLights reads the "directionalLights" list from path.
//
// Parameters:
//   - path: the directional light file
//
// Returns:
//   - []DirectionalLightDescriptor: the lights in file order, or an empty list on any error
func (l *Loader) LoadDirectionalLights(path string) []DirectionalLightDescriptor {
	var file directionalLightFile
	if err := Decode(path, &file); err != nil {
		l.logger.Errorf("failed to load directional lights: %v", err)
		return []DirectionalLightDescriptor{}
	}
	l.logger.Debugf("loaded %d directional lights from %s", len(file.DirectionalLights), path)
	return nonNil(file.DirectionalLights)
}

// LoadPointLights reads the "pointLights" list from path.
//
// Parameters:
//   - path: the point light file
//
// Returns:
//   - []PointLightDescriptor: the lights in file order, or an empty list on any error
func (l *Loader) LoadPointLights(path string) []PointLightDescriptor {
	var file pointLightFile
	if err := Decode(path, &file); err != nil {
		l.logger.Errorf("failed to load point lights: %v", err)
		return []PointLightDescriptor{}
	}
	l.logger.Debugf("loaded %d point lights from %s", len(file.PointLights), path)
	return nonNil(file.PointLights)
}

// LoadSettings decodes path over DefaultSettings. An empty path returns the defaults
// without touching the filesystem; a broken file logs and returns the defaults.
//
// Parameters:
//   - path: the settings file, may be empty
//
// Returns:
//   - Settings: the merged settings
func (l *Loader) LoadSettings(path string) Settings {
	s := DefaultSettings()
	if path == "" {
		return s
	}
	if err := Decode(path, &s); err != nil {
		l.logger.Errorf("failed to load settings, using defaults: %v", err)
		return DefaultSettings()
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
