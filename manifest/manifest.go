// Package manifest reads preload configuration from YAML documents.
//
// A document is either the configuration itself (location, locations, parameters,
// config) or a mapping whose "preload" key holds it.
package manifest

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skosovsky/preload"
)

// sectionKey optionally nests the configuration inside a larger document.
const sectionKey = "preload"

// ParseBytes parses a YAML document into a preload.Config.
// Malformed YAML or values of the wrong shape return preload.ErrConfig.
// An empty document yields the zero Config.
func ParseBytes(data []byte) (preload.Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return preload.Config{}, fmt.Errorf("%w: manifest: %w", preload.ErrConfig, err)
	}
	if section, ok := doc[sectionKey]; ok {
		nested, ok := section.(map[string]any)
		if !ok && section != nil {
			return preload.Config{}, fmt.Errorf("%w: manifest: %q must be a mapping", preload.ErrConfig, sectionKey)
		}
		doc = nested
	}
	return preload.ParseConfig(doc)
}

// ParseFile reads and parses a manifest file.
func ParseFile(path string) (preload.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		return preload.Config{}, fmt.Errorf("manifest: read file: %w", err)
	}
	return ParseBytes(data)
}

// ParseFS reads and parses a manifest from fs.FS (e.g. embed.FS).
func ParseFS(fsys fs.FS, name string) (preload.Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return preload.Config{}, fmt.Errorf("manifest: read fs: %w", err)
	}
	return ParseBytes(data)
}
