// Package docmap holds the extracted documentation map: dotted
// declaration path -> docstring text. The map is built once per run and
// never mutated afterwards.
package docmap

import (
	"encoding/json"
	"os"
	"sort"

	"stubdoc/internal/errors"
)

// Map is a documentation map keyed by dotted path
// (module, module.Member, or module.Type.member).
type Map map[string]string

// Get returns the docstring for a dotted path, or "" if absent.
func (m Map) Get(key string) string {
	return m[key]
}

// Keys returns all dotted paths in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unused returns the sorted dotted paths that are not in used.
// Unmatched documentation is not an error, but callers may want to
// report it as a diagnostic.
func (m Map) Unused(used map[string]bool) []string {
	var unused []string
	for k := range m {
		if !used[k] {
			unused = append(unused, k)
		}
	}
	sort.Strings(unused)
	return unused
}

// Marshal encodes the map as indented JSON.
func (m Map) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.New(errors.InternalError, "encoding docstrings", err)
	}
	return data, nil
}

// Unmarshal decodes a map from JSON.
func Unmarshal(data []byte) (Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New(errors.ConfigError, "parsing docstrings", err)
	}
	return m, nil
}

// Load reads a documentation map from a JSON file.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "reading docstrings file %s", path)
	}

	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "parsing docstrings file %s", path)
	}
	return m, nil
}

// Save writes the map to a JSON file, two-space indented so the
// snapshot diffs cleanly between module versions.
func (m Map) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Newf(errors.WriteFailed, err, "writing docstrings file %s", path)
	}
	return nil
}
