package merge

import "strings"

// docstringStatement builds the docstring statement text for a body at
// the given indentation.
func docstringStatement(text, bodyIndent string) string {
	return `"""` + indentDocstring(text, bodyIndent) + `"""`
}

// indentDocstring re-aligns a docstring for insertion at a new nesting
// depth. The first line stays where the opening quotes put it; every
// continuation line is stripped of its old common margin and indented
// to the target body indentation.
func indentDocstring(text, bodyIndent string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= 1 {
		return lines[0]
	}
	rest := indent(dedent(strings.Join(lines[1:], "\n")), bodyIndent)
	return lines[0] + "\n" + rest
}

// dedent removes the longest common leading whitespace from every
// line. Lines consisting solely of whitespace do not count toward the
// common margin and come out empty.
func dedent(text string) string {
	lines := strings.Split(text, "\n")

	margin := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		prefix := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin = prefix
			first = false
			continue
		}
		margin = commonPrefix(margin, prefix)
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		} else {
			lines[i] = strings.TrimPrefix(line, margin)
		}
	}
	return strings.Join(lines, "\n")
}

// indent prefixes every line that contains non-whitespace.
func indent(text, prefix string) string {
	if prefix == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for i := 0; i < max; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:max]
}
