// Package introspect models the runtime shape of a compiled extension
// module: its members, their kinds, their docstrings, and which module
// each member is attributed to. The data is produced by introspecting
// the live module (outside this tool) and consumed here as a plain,
// serializable description.
package introspect

import (
	"encoding/json"
	"fmt"
	"os"

	"stubdoc/internal/errors"
)

// Kind classifies a module member. The set is closed: anything that is
// not a type, a callable, or a descriptor-like accessor carries no
// docstring worth merging and is classified Other.
type Kind string

const (
	// KindType is a class / type definition
	KindType Kind = "type"
	// KindCallable is a function, method, or other callable object
	KindCallable Kind = "callable"
	// KindAccessor is a descriptor-like get/set wrapper, e.g. a computed property
	KindAccessor Kind = "accessor"
	// KindOther is any member that never carries mergeable documentation
	KindOther Kind = "other"
)

// Member describes one member of a module or of a type.
type Member struct {
	// Name is the member's local name
	Name string `json:"name"`

	// Kind is the member's classification
	Kind Kind `json:"kind"`

	// Doc is the member's docstring, empty if it has none
	Doc string `json:"doc,omitempty"`

	// DefiningModule is the dotted name of the module the member is
	// attributed to. For accessors this is the module of the object
	// that declares the descriptor, not the descriptor itself.
	DefiningModule string `json:"definingModule,omitempty"`

	// Members holds the member's own members when Kind is KindType
	Members []Member `json:"members,omitempty"`
}

// Module is the reflection surface the docstring extractor consumes.
// Any source of module metadata (a live introspection dump, a recorded
// snapshot) can implement it.
type Module interface {
	// Name returns the module's dotted name, e.g. "netCDF4._netCDF4"
	Name() string
	// Doc returns the module-level docstring, empty if none
	Doc() string
	// Members returns the module's top-level members
	Members() []Member
}

// ModuleInfo is the concrete, JSON-serializable Module implementation.
// It is what the companion introspection script emits.
type ModuleInfo struct {
	ModuleName string   `json:"name"`
	ModuleDoc  string   `json:"doc,omitempty"`
	AllMembers []Member `json:"members"`
}

// Name implements Module
func (m *ModuleInfo) Name() string { return m.ModuleName }

// Doc implements Module
func (m *ModuleInfo) Doc() string { return m.ModuleDoc }

// Members implements Module
func (m *ModuleInfo) Members() []Member { return m.AllMembers }

// Owned reports whether the member is attributed to the named module
// rather than inherited or re-exported from elsewhere.
func Owned(member Member, moduleName string) bool {
	return member.DefiningModule == moduleName
}

// Eligible reports whether the member's kind can carry a docstring
// that the stub format has a place for.
func Eligible(member Member) bool {
	switch member.Kind {
	case KindType, KindCallable, KindAccessor:
		return true
	default:
		return false
	}
}

// LoadModuleInfo reads a ModuleInfo from an introspection JSON file.
func LoadModuleInfo(path string) (*ModuleInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "reading introspection file %s", path)
	}

	var info ModuleInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "parsing introspection file %s", path)
	}
	if info.ModuleName == "" {
		return nil, errors.New(errors.ConfigError,
			fmt.Sprintf("introspection file %s has no module name", path), nil)
	}

	return &info, nil
}
