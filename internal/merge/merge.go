// Package merge implements the scope-tracking docstring merger for
// Python type stubs. It parses stub source with tree-sitter, walks the
// tree carrying the dotted declaration path, and splices docstring
// statements into the original text as byte-range edits, so every byte
// outside the inserted statements survives unchanged.
package merge

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"stubdoc/internal/docmap"
	"stubdoc/internal/errors"
)

// indentUnit is one level of stub body indentation.
const indentUnit = "    "

// Options controls merge behavior.
type Options struct {
	// Override replaces docstrings that are already present in the
	// stub instead of leaving them untouched.
	Override bool
}

// Result holds the rewritten stub text and merge diagnostics.
type Result struct {
	// Text is the fully rewritten stub source
	Text string

	// Inserted counts docstring statements inserted or replaced
	Inserted int

	// Used records the dotted paths consumed from the documentation
	// map; docmap.Map.Unused reports the rest.
	Used map[string]bool
}

// edit replaces src[start:end) with text. An insertion has start == end.
type edit struct {
	start, end uint32
	text       string
}

type merger struct {
	src   []byte
	docs  docmap.Map
	opts  Options
	edits []edit
	used  map[string]bool
}

// Merge inserts docstrings from docs into the stub source. moduleName
// is the root of every dotted path and must match the key convention
// the extractor used. The walk is a strict single pass; declarations
// are identified solely by dotted path, so two declarations sharing a
// path (same method name under same-named branches) are
// indistinguishable and may receive each other's documentation.
//
// Running Merge again over its own output with Override disabled is a
// no-op: a declaration that already starts with a docstring is skipped
// before the map is consulted.
func Merge(ctx context.Context, docs docmap.Map, moduleName, source string, opts Options) (*Result, error) {
	if moduleName == "" {
		return nil, errors.New(errors.ConfigError, "root module name is empty", nil)
	}

	src := []byte(source)
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.New(errors.ParseError, "parsing stub source", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, errors.New(errors.ParseError, "stub source is not valid Python", nil)
	}

	m := &merger{src: src, docs: docs, opts: opts, used: map[string]bool{}}

	path := []string{moduleName}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		m.walk(root.NamedChild(i), path)
	}
	m.decideModule(root, path)

	return &Result{
		Text:     m.apply(),
		Inserted: len(m.edits),
		Used:     m.used,
	}, nil
}

// walk carries the scope path through the tree. The path is passed by
// value: each declaration gets its own extended copy, and the decision
// for a declaration runs post-order with the extended path, matching
// the dotted keys the extractor produced.
func (m *merger) walk(node *sitter.Node, path []string) {
	switch node.Type() {
	case "class_definition", "function_definition":
		name := node.ChildByFieldName("name")
		if name == nil {
			return
		}
		childPath := append(path[:len(path):len(path)], m.text(name))
		for i := 0; i < int(node.NamedChildCount()); i++ {
			m.walk(node.NamedChild(i), childPath)
		}
		m.decide(node, childPath)
	default:
		for i := 0; i < int(node.NamedChildCount()); i++ {
			m.walk(node.NamedChild(i), path)
		}
	}
}

// decide applies the documentation-merge decision to one class or
// function definition.
func (m *merger) decide(node *sitter.Node, path []string) {
	body := node.ChildByFieldName("body")
	if body == nil || body.Type() != "block" {
		return
	}

	first := firstStatement(body)
	if first != nil && isDocstring(first) && !m.opts.Override {
		return
	}

	key := strings.Join(path, ".")
	text := m.docs.Get(key)
	if text == "" {
		return
	}
	m.used[key] = true

	bodyIndent := strings.Repeat(indentUnit, len(path)-1)
	stmt := docstringStatement(text, bodyIndent)

	switch {
	case first != nil && isDocstring(first):
		// Override: the old docstring statement gives way in place.
		m.replace(first.StartByte(), first.EndByte(), stmt)
	case isInline(m.src, body):
		m.convertInline(body, stmt, bodyIndent)
	case first != nil && isPlaceholder(first) && countStatements(body) == 1:
		m.replace(first.StartByte(), first.EndByte(), stmt)
	default:
		// Prepend ahead of everything in the block, comments included;
		// a comment on a body line belongs to the statement it
		// precedes, and the docstring goes above both. Comments between
		// the header and the first statement hang off the definition
		// node rather than the block, so the anchor must consider both.
		anchor := body.NamedChild(0)
		if anchor == nil {
			return
		}
		at := anchor.StartByte()
		for i := 0; i < int(node.NamedChildCount()); i++ {
			c := node.NamedChild(i)
			if c.Type() == "comment" && c.StartByte() < at && startsLine(m.src, c.StartByte()) {
				at = c.StartByte()
				break
			}
		}
		m.insert(at, stmt+"\n"+bodyIndent)
	}
}

// decideModule applies the documentation-merge decision to the module
// root, at depth zero. Header comments above the first statement stay
// above the inserted module docstring.
func (m *merger) decideModule(root *sitter.Node, path []string) {
	first := firstStatement(root)
	if first != nil && isDocstring(first) && !m.opts.Override {
		return
	}

	key := strings.Join(path, ".")
	text := m.docs.Get(key)
	if text == "" {
		return
	}
	m.used[key] = true

	stmt := docstringStatement(text, "")

	switch {
	case first != nil && isDocstring(first):
		m.replace(first.StartByte(), first.EndByte(), stmt)
	case first != nil && isPlaceholder(first) && countStatements(root) == 1:
		m.replace(first.StartByte(), first.EndByte(), stmt)
	case first != nil:
		m.insert(first.StartByte(), stmt+"\n")
	default:
		// Stub with no statements at all: the docstring becomes the
		// whole body, after any header comments.
		tail := stmt + "\n"
		if len(m.src) > 0 && m.src[len(m.src)-1] != '\n' {
			tail = "\n" + tail
		}
		m.insert(uint32(len(m.src)), tail)
	}
}

// convertInline rewrites a body that sits on the declaration's header
// line into an indented block, docstring first. A sole placeholder
// statement is dropped; anything else is kept, one statement per line.
func (m *merger) convertInline(body *sitter.Node, stmt, bodyIndent string) {
	start := body.StartByte()
	for start > 0 && (m.src[start-1] == ' ' || m.src[start-1] == '\t') {
		start--
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(bodyIndent)
	b.WriteString(stmt)

	dropPlaceholder := body.NamedChildCount() == 1 && isPlaceholder(body.NamedChild(0))
	if !dropPlaceholder {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			b.WriteString("\n")
			b.WriteString(bodyIndent)
			b.WriteString(m.text(child))
		}
	}

	m.replace(start, body.EndByte(), b.String())
}

func (m *merger) insert(at uint32, text string) {
	m.edits = append(m.edits, edit{start: at, end: at, text: text})
}

func (m *merger) replace(start, end uint32, text string) {
	m.edits = append(m.edits, edit{start: start, end: end, text: text})
}

// apply splices the collected edits into the source. Edits never
// overlap: each targets either a statement's own byte range or a
// single insertion point, and the walk decides each declaration once.
func (m *merger) apply() string {
	if len(m.edits) == 0 {
		return string(m.src)
	}

	sort.Slice(m.edits, func(i, j int) bool {
		if m.edits[i].start != m.edits[j].start {
			return m.edits[i].start < m.edits[j].start
		}
		return m.edits[i].end < m.edits[j].end
	})

	var b strings.Builder
	pos := uint32(0)
	for _, e := range m.edits {
		b.Write(m.src[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.Write(m.src[pos:])
	return b.String()
}

func (m *merger) text(node *sitter.Node) string {
	return string(m.src[node.StartByte():node.EndByte()])
}

// firstStatement returns the first named child that is not a comment.
// Docstring and placeholder checks look past leading comments, the
// same way the stub's own readers do.
func firstStatement(body *sitter.Node) *sitter.Node {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "comment" {
			return child
		}
	}
	return nil
}

func countStatements(body *sitter.Node) int {
	n := 0
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if body.NamedChild(i).Type() != "comment" {
			n++
		}
	}
	return n
}

// isDocstring reports whether the statement is a bare string literal.
func isDocstring(stmt *sitter.Node) bool {
	return stmt.Type() == "expression_statement" &&
		stmt.NamedChildCount() == 1 &&
		stmt.NamedChild(0).Type() == "string"
}

// isPlaceholder reports whether the statement is a bare `...` body marker.
func isPlaceholder(stmt *sitter.Node) bool {
	return stmt.Type() == "expression_statement" &&
		stmt.NamedChildCount() == 1 &&
		stmt.NamedChild(0).Type() == "ellipsis"
}

// startsLine reports whether only indentation precedes the byte
// offset on its line. A comment trailing the declaration header fails
// this and stays on the header line.
func startsLine(src []byte, at uint32) bool {
	for i := at; i > 0; i-- {
		switch src[i-1] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// isInline reports whether the block shares a line with its
// declaration header instead of starting on its own indented line.
func isInline(src []byte, body *sitter.Node) bool {
	for i := body.StartByte(); i > 0; i-- {
		switch src[i-1] {
		case ' ', '\t':
			continue
		case '\n':
			return false
		default:
			return true
		}
	}
	return false
}
