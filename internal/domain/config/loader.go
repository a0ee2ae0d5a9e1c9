package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Loader loads pipeline files from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, decodes, and validates a pipeline file. The format is chosen
// by extension: .yaml/.yml or .toml.
func (l *Loader) Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, err
	}

	pipeline, err := Parse(data, filepath.Ext(path))
	if err != nil {
		var userErr *UserError
		if errors.As(err, &userErr) {
			return nil, err
		}
		return nil, NewParseError(path, err)
	}

	if err := pipeline.Validate(); err != nil {
		return nil, err
	}
	return pipeline, nil
}

// Parse decodes pipeline data in the format implied by ext.
func Parse(data []byte, ext string) (*Pipeline, error) {
	var p Pipeline
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &p); err != nil {
			return nil, err
		}
	default:
		return nil, NewUnsupportedFormatError(ext)
	}
	return &p, nil
}
