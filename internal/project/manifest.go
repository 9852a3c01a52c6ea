// Package project reads the per-stubs-package manifest. The manifest
// pins which runtime module the stubs describe and which stub files
// belong to it, so merge runs need no flags beyond the docstring
// source.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"stubdoc/internal/errors"
)

// ManifestFile is the default manifest filename.
const ManifestFile = "stubdoc.toml"

// Manifest describes one stubs package.
type Manifest struct {
	// Module is the dotted name of the runtime module, e.g. "netCDF4._netCDF4"
	Module string `toml:"module"`

	// Version is the module version the docstrings were taken from
	Version string `toml:"version,omitempty"`

	// Stubs are the stub files to merge, relative to the manifest
	Stubs []string `toml:"stubs"`

	// Docstrings is the path to the extracted docstrings JSON, relative
	// to the manifest
	Docstrings string `toml:"docstrings,omitempty"`

	// Pipeline is the path to the formatter pipeline YAML, relative to
	// the manifest
	Pipeline string `toml:"pipeline,omitempty"`

	// Override replaces docstrings already present in the stubs
	Override bool `toml:"override,omitempty"`

	// dir is where the manifest was loaded from
	dir string
}

// Load reads the manifest in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "reading manifest %s", path)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "parsing manifest %s", path)
	}
	m.dir = dir

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest's required fields.
func (m *Manifest) Validate() error {
	if m.Module == "" {
		return errors.New(errors.ConfigError, "manifest is missing module", nil)
	}
	if len(m.Stubs) == 0 {
		return errors.New(errors.ConfigError,
			fmt.Sprintf("manifest for %s lists no stubs", m.Module), nil)
	}
	return nil
}

// Resolve returns a manifest-relative path as an absolute-enough path
// rooted at the manifest directory.
func (m *Manifest) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.dir, rel)
}

// StubPaths returns the manifest's stub files resolved against the
// manifest directory.
func (m *Manifest) StubPaths() []string {
	paths := make([]string, len(m.Stubs))
	for i, s := range m.Stubs {
		paths[i] = m.Resolve(s)
	}
	return paths
}
