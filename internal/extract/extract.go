// Package extract builds a documentation map from an introspected
// module: every owned type, callable, and accessor with a non-empty
// docstring, keyed by dotted path.
package extract

import (
	"strings"

	"stubdoc/internal/docmap"
	"stubdoc/internal/errors"
	"stubdoc/internal/introspect"
)

// Extract walks a module's members and returns the documentation map.
//
// The module docstring is recorded under the bare module name. Each
// owned, eligible top-level member with a non-empty docstring is
// recorded under module.member. Members that are types are walked one
// more level, recording module.Type.member; the stub declaration
// grammar nests no deeper, so neither does the extraction.
//
// Members failing the ownership or eligibility test are skipped
// silently; that is normal, not an error.
func Extract(m introspect.Module) (docmap.Map, error) {
	if m == nil {
		return nil, errors.New(errors.ConfigError, "module cannot be introspected", nil)
	}

	docs := docmap.Map{}
	if doc := m.Doc(); doc != "" {
		docs[m.Name()] = doc
	}

	for _, member := range m.Members() {
		record(docs, m.Name(), member, "")
		if member.Kind == introspect.KindType {
			for _, inner := range member.Members {
				record(docs, m.Name(), inner, member.Name)
			}
		}
	}

	return docs, nil
}

// record adds one member's docstring under module.member or
// module.typeName.member when it passes the ownership, eligibility,
// and non-empty-docstring tests.
func record(docs docmap.Map, moduleName string, member introspect.Member, typeName string) {
	if !introspect.Eligible(member) || !introspect.Owned(member, moduleName) || member.Doc == "" {
		return
	}

	parts := []string{moduleName}
	if typeName != "" {
		parts = append(parts, typeName)
	}
	parts = append(parts, member.Name)
	docs[strings.Join(parts, ".")] = member.Doc
}
